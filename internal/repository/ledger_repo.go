package repository

import (
	"givepay/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository is append-only: Append is the only mutation, there is no
// update or delete.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) WithTx(tx *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

func (r *LedgerRepository) Append(e *models.PaymentLedgerEntry) error {
	return r.db.Create(e).Error
}

func (r *LedgerRepository) ListByTransaction(transactionID string) ([]models.PaymentLedgerEntry, error) {
	var entries []models.PaymentLedgerEntry
	err := r.db.Where("transaction_id = ?", transactionID).Order("created_at ASC, id ASC").Find(&entries).Error
	return entries, err
}

// SumByTransaction reconstructs the net financial position of a transaction
// from its ledger entries, independent of the current-state status fields.
func (r *LedgerRepository) SumByTransaction(transactionID string) (int64, error) {
	var sum int64
	err := r.db.Model(&models.PaymentLedgerEntry{}).
		Where("transaction_id = ?", transactionID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&sum).Error
	return sum, err
}
