package models

import "time"

// UploadedFile is a persisted statement import. Its transactions are owned by
// it and removed with it.
type UploadedFile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Format           string    `json:"format"`
	UploadedAt       time.Time `json:"uploaded_at"`
	TransactionCount int       `json:"transaction_count"`
}
