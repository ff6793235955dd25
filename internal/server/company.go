package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	companydomain "github.com/smallbiznis/ledgerbook/internal/company/domain"
)

type updateCompanyRequest struct {
	CompanyName         *string `json:"company_name" binding:"omitempty,min=1,max=200"`
	AddressLine1        *string `json:"address_line1"`
	AddressLine2        *string `json:"address_line2"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	PostalCode          *string `json:"postal_code" binding:"omitempty,max=16"`
	Country             *string `json:"country"`
	Phone               *string `json:"phone" binding:"omitempty,max=32"`
	Email               *string `json:"email" binding:"omitempty,email"`
	Website             *string `json:"website" binding:"omitempty,url"`
	GSTNumber           *string `json:"gst_number" binding:"omitempty,len=15"`
	PANNumber           *string `json:"pan_number" binding:"omitempty,len=10"`
	BankName            *string `json:"bank_name"`
	BankAccountName     *string `json:"bank_account_name"`
	BankAccountNumber   *string `json:"bank_account_number" binding:"omitempty,max=34"`
	BankIFSCCode        *string `json:"bank_ifsc_code" binding:"omitempty,len=11"`
	BankBranch          *string `json:"bank_branch"`
	TermsAndConditions  *string `json:"terms_and_conditions"`
	AuthorizedSignatory *string `json:"authorized_signatory"`
	LogoURL             *string `json:"logo_url" binding:"omitempty,url"`
}

func (s *Server) GetCompany(c *gin.Context) {
	resp, err := s.companySvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCompany(c *gin.Context) {
	var req updateCompanyRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.companySvc.Update(c.Request.Context(), companydomain.UpdateRequest{
		CompanyName:         trimmedPtr(req.CompanyName),
		AddressLine1:        trimmedPtr(req.AddressLine1),
		AddressLine2:        trimmedPtr(req.AddressLine2),
		City:                trimmedPtr(req.City),
		State:               trimmedPtr(req.State),
		PostalCode:          trimmedPtr(req.PostalCode),
		Country:             trimmedPtr(req.Country),
		Phone:               trimmedPtr(req.Phone),
		Email:               trimmedPtr(req.Email),
		Website:             trimmedPtr(req.Website),
		GSTNumber:           trimmedPtr(req.GSTNumber),
		PANNumber:           trimmedPtr(req.PANNumber),
		BankName:            trimmedPtr(req.BankName),
		BankAccountName:     trimmedPtr(req.BankAccountName),
		BankAccountNumber:   trimmedPtr(req.BankAccountNumber),
		BankIFSCCode:        trimmedPtr(req.BankIFSCCode),
		BankBranch:          trimmedPtr(req.BankBranch),
		TermsAndConditions:  req.TermsAndConditions,
		AuthorizedSignatory: trimmedPtr(req.AuthorizedSignatory),
		LogoURL:             trimmedPtr(req.LogoURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
