package dto

// RunAccrualRequest triggers an admin bulk accrual or a dry-run preview.
type RunAccrualRequest struct {
	Frequency string  `json:"frequency" binding:"required,frequency"`
	AccountID *string `json:"accountID"`
	Force     bool    `json:"force"`
	DryRun    bool    `json:"dryRun"`
}
