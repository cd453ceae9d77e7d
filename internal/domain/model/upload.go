package model

import (
	"path/filepath"
	"strings"
)

// SpreadsheetExtensions lists the file extensions the backend imports.
var SpreadsheetExtensions = []string{".xlsx", ".xls"}

// IsSpreadsheet reports whether filename carries a supported spreadsheet extension.
// The check is case-sensitive, as the backend's is.
func IsSpreadsheet(filename string) bool {
	ext := filepath.Ext(strings.TrimSpace(filename))
	for _, allowed := range SpreadsheetExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// UploadDetails describes an import that completed.
type UploadDetails struct {
	TableName    string `json:"table_name"`
	RowsImported int    `json:"rows_imported"`
	Filename     string `json:"filename"`
}

// UploadResult is the backend's answer to a spreadsheet upload.
type UploadResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Details UploadDetails `json:"details"`
}
