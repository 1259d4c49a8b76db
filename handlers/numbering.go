package handlers

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/biztrack/models"
	"github.com/yourusername/biztrack/utils"
)

// nextDocumentNumber reserves the next number for a document kind inside tx.
// The sequence row stays locked until the surrounding transaction ends, so
// two concurrent creations cannot read the same value. A racing first-ever
// creation can still collide on the sequence row insert or on the document
// number's unique index; callers retry the whole transaction on a unique
// violation (see createWithNumberRetry).
func nextDocumentNumber(tx *gorm.DB, kind string, year int) (string, error) {
	// sqlite (used in tests) has no FOR UPDATE and serializes writers on
	// its own; the row lock is what serializes concurrent creations on
	// postgres.
	query := tx.Where("kind = ? AND year = ?", kind, year)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq models.DocumentSequence
	err := query.First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.DocumentSequence{Kind: kind, Year: year}
		if err := tx.Create(&seq).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	seq.LastValue++
	if err := tx.Model(&models.DocumentSequence{}).
		Where("id = ?", seq.ID).
		Update("last_value", seq.LastValue).Error; err != nil {
		return "", err
	}

	switch kind {
	case models.DocTypeInvoice:
		return utils.FormatInvoiceNo(year, seq.LastValue), nil
	case models.DocTypeDeliveryNote:
		return utils.FormatDeliveryNo(seq.LastValue), nil
	}
	return "", fmt.Errorf("no number format for document kind %q", kind)
}

const maxNumberRetries = 3

// createWithNumberRetry runs fn as a transaction, retrying a bounded number
// of times when it fails on a unique violation (two requests racing for the
// same document number).
func createWithNumberRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var lastErr error
	for i := 0; i < maxNumberRetries; i++ {
		lastErr = db.Transaction(fn)
		if lastErr == nil || !isUniqueViolation(lastErr) {
			return lastErr
		}
	}
	return lastErr
}
