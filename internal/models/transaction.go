package models

import (
	"time"

	"givepay/internal/domain"
)

// PaymentTransaction is the current-state record of one donation payment.
// Rows are never deleted; terminal records are permanent history.
type PaymentTransaction struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	DonationID    uint       `gorm:"not null;index" json:"donation_id"`
	CampaignID    uint       `gorm:"not null;index" json:"campaign_id"`
	AmountCents   int64      `gorm:"not null" json:"amount_cents"`
	RefundedCents int64      `gorm:"not null;default:0" json:"refunded_cents"`
	Currency      string     `gorm:"size:3;not null" json:"currency"`
	DonorName     string     `gorm:"size:255" json:"donor_name"`
	DonorEmail    string     `gorm:"size:255" json:"donor_email"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	PaymentMethod string     `gorm:"size:50" json:"payment_method"`
	GatewayName   string     `gorm:"size:50" json:"gateway_name"`
	GatewayTxnID  string     `gorm:"size:255;index" json:"gateway_transaction_id"`
	FailureReason string     `gorm:"size:500" json:"failure_reason,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// SetStatus applies a status change through the transition table.
func (t *PaymentTransaction) SetStatus(to string) error {
	if err := domain.ValidateTransition(t.Status, to); err != nil {
		return err
	}
	t.Status = to
	return nil
}
