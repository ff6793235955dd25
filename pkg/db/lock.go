package db

import "gorm.io/gorm"

// ForUpdate returns the row lock suffix for raw SELECTs. SQLite has no
// row-level locks, so the suffix is empty there.
func ForUpdate(tx *gorm.DB) string {
	if tx == nil || tx.Dialector == nil || tx.Dialector.Name() == "sqlite" {
		return ""
	}
	return " FOR UPDATE"
}
