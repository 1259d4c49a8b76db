package models

import "time"

// DocumentSequence is the number counter for a document kind. Invoice numbers
// reset per year; delivery notes use a single row with Year 0. The row is
// locked FOR UPDATE inside the creating transaction so concurrent creations
// serialize instead of racing on a last-record scan.
type DocumentSequence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Kind      string    `gorm:"size:20;not null;uniqueIndex:idx_document_sequences_kind_year" json:"kind"`
	Year      int       `gorm:"not null;uniqueIndex:idx_document_sequences_kind_year" json:"year"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
}

// TableName overrides the table name
func (DocumentSequence) TableName() string {
	return "document_sequences"
}
