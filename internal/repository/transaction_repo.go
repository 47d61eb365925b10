package repository

import (
	"errors"

	"givepay/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a repository bound to an open database transaction, so a
// caller can commit transaction, ledger and outbox writes as one unit.
func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Create(t *models.PaymentTransaction) error {
	return r.db.Create(t).Error
}

func (r *TransactionRepository) GetByID(id string) (*models.PaymentTransaction, error) {
	var t models.PaymentTransaction
	err := r.db.Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByDonationID returns the most recent transaction for a donation, or
// ErrNotFound. A donation has at most one non-failed transaction; failed
// attempts may accumulate.
func (r *TransactionRepository) GetByDonationID(donationID uint) (*models.PaymentTransaction, error) {
	var t models.PaymentTransaction
	err := r.db.Where("donation_id = ?", donationID).Order("created_at DESC").First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Update(t *models.PaymentTransaction) error {
	return r.db.Save(t).Error
}
