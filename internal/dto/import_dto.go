package dto

// ImportRowError reports one failed spreadsheet row. Row numbers are 1-based
// and include the header row, matching what the user sees in their editor.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResponse is returned by every bulk import. Partial failure is normal:
// the import as a whole succeeds as long as the file itself parses.
type ImportResponse struct {
	Success []string         `json:"success"` // created entity ids
	Failed  []ImportRowError `json:"failed"`
}
