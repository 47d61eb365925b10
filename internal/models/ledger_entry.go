package models

import "time"

// PaymentLedgerEntry is an immutable financial fact. Append-only: no updates,
// no deletes. AmountCents is positive for money in, negative for money out.
type PaymentLedgerEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID string    `gorm:"size:36;not null;index" json:"transaction_id"`
	AmountCents   int64     `gorm:"not null" json:"amount_cents"`
	EntryType     string    `gorm:"size:20;not null;index" json:"entry_type"`
	Operation     string    `gorm:"size:64" json:"operation"`
	Metadata      string    `gorm:"type:text" json:"metadata"`
	CreatedAt     time.Time `json:"created_at"`
}

func (PaymentLedgerEntry) TableName() string {
	return "payment_ledger_entries"
}
