package publisher

import "context"

// Publisher is the at-least-once event channel the outbox relay delivers to.
// key is the event id; consumers deduplicate on it because a delivery can be
// repeated when the relay is interrupted between publish and commit.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}
