package service

import (
	"encoding/json"
	"time"

	"givepay/internal/domain"
	"givepay/internal/models"

	"github.com/google/uuid"
)

// EventPayload is the document delivered downstream for every payment
// lifecycle event. Consumers deduplicate on event_id.
type EventPayload struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	TransactionID string    `json:"transaction_id"`
	DonationID    uint      `json:"donation_id"`
	CampaignID    uint      `json:"campaign_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

func newOutboxEvent(t *models.PaymentTransaction, eventType string) (*models.OutboxEvent, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(EventPayload{
		EventID:       id,
		EventType:     eventType,
		TransactionID: t.ID,
		DonationID:    t.DonationID,
		CampaignID:    t.CampaignID,
		Amount:        float64(t.AmountCents) / 100,
		Status:        t.Status,
		Timestamp:     time.Now(),
	})
	if err != nil {
		return nil, err
	}
	txnID := t.ID
	return &models.OutboxEvent{
		ID:            id,
		EventType:     eventType,
		Payload:       string(payload),
		TransactionID: &txnID,
		Status:        domain.EventPending,
	}, nil
}
