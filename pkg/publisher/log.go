package publisher

import (
	"context"
	"log"
)

// LogPublisher prints events instead of delivering them; for development
// without a broker.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	log.Printf("[PUBLISH] event_id=%s payload=%s", key, payload)
	return nil
}

func (LogPublisher) Close() error { return nil }
