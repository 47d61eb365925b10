package models

import "time"

// OutboxEvent is a pending notification row written in the same database
// transaction as the state change that caused it. Only the relay mutates it
// after creation. ID doubles as the consumer-side deduplication key.
type OutboxEvent struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	EventType     string     `gorm:"size:64;not null;index" json:"event_type"`
	Payload       string     `gorm:"type:text;not null" json:"payload"`
	TransactionID *string    `gorm:"size:36;index" json:"transaction_id"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	RetryCount    int        `gorm:"not null;default:0" json:"retry_count"`
	NextRetryAt   *time.Time `gorm:"index" json:"next_retry_at"`
	LastError     string     `gorm:"size:500" json:"last_error,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}
