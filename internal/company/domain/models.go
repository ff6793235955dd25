package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CompanySettings holds the issuing company's details printed on documents.
// Only the most recently created row is used.
type CompanySettings struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyName         string       `gorm:"type:text;not null" json:"company_name"`
	AddressLine1        string       `gorm:"column:address_line1;type:text" json:"address_line1"`
	AddressLine2        string       `gorm:"column:address_line2;type:text" json:"address_line2,omitempty"`
	City                string       `gorm:"type:text" json:"city"`
	State               string       `gorm:"type:text" json:"state"`
	PostalCode          string       `gorm:"type:text" json:"postal_code"`
	Country             string       `gorm:"type:text" json:"country"`
	Phone               string       `gorm:"type:text" json:"phone,omitempty"`
	Email               string       `gorm:"type:text" json:"email,omitempty"`
	Website             string       `gorm:"type:text" json:"website,omitempty"`
	GSTNumber           string       `gorm:"column:gst_number;type:text" json:"gst_number,omitempty"`
	PANNumber           string       `gorm:"column:pan_number;type:text" json:"pan_number,omitempty"`
	BankName            string       `gorm:"type:text" json:"bank_name,omitempty"`
	BankAccountName     string       `gorm:"type:text" json:"bank_account_name,omitempty"`
	BankAccountNumber   string       `gorm:"type:text" json:"bank_account_number,omitempty"`
	BankIFSCCode        string       `gorm:"column:bank_ifsc_code;type:text" json:"bank_ifsc_code,omitempty"`
	BankBranch          string       `gorm:"type:text" json:"bank_branch,omitempty"`
	TermsAndConditions  string       `gorm:"type:text" json:"terms_and_conditions,omitempty"`
	AuthorizedSignatory string       `gorm:"type:text" json:"authorized_signatory,omitempty"`
	LogoURL             string       `gorm:"column:logo_url;type:text" json:"logo_url,omitempty"`
	CreatedAt           time.Time    `gorm:"not null;index" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null" json:"updated_at"`
}

func (CompanySettings) TableName() string { return "company_settings" }
