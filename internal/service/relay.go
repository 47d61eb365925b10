package service

import (
	"context"
	"log"
	"time"

	"givepay/config"
	"givepay/internal/apperr"
	"givepay/internal/metrics"
	"givepay/internal/repository"
	"givepay/pkg/publisher"
)

// Relay sweeps the outbox and delivers events to the external channel.
// Delivery is at-least-once: an interruption between publish and the terminal
// update yields a duplicate, which consumers absorb by event id.
type Relay struct {
	outbox *repository.OutboxRepository
	pub    publisher.Publisher
	cfg    config.OutboxConfig
}

func NewRelay(outbox *repository.OutboxRepository, pub publisher.Publisher, cfg config.OutboxConfig) *Relay {
	return &Relay{outbox: outbox, pub: pub, cfg: cfg}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()
	log.Printf("[RELAY] sweeping every %s", r.cfg.SweepInterval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[RELAY] stopped")
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				log.Printf("[RELAY] sweep error: %v", err)
			}
		}
	}
}

// Sweep requeues stale claims, then claims and publishes eligible events.
// Returns the number of events published.
func (r *Relay) Sweep(ctx context.Context) (int, error) {
	requeued, err := r.outbox.RequeueStale(time.Now().Add(-r.cfg.ClaimTimeout))
	if err != nil {
		return 0, apperr.RelayErr("stale claim requeue failed", err)
	}
	if requeued > 0 {
		metrics.EventsRequeued.Add(float64(requeued))
		log.Printf("[RELAY] requeued %d stale claims", requeued)
	}

	events, err := r.outbox.GetPendingEvents(r.cfg.BatchSize, r.cfg.MaxRetries)
	if err != nil {
		return 0, apperr.RelayErr("outbox query failed", err)
	}
	published := 0
	for i := range events {
		e := &events[i]
		claimed, err := r.outbox.Claim(e.ID, r.cfg.MaxRetries)
		if err != nil {
			return published, err
		}
		if !claimed {
			continue
		}
		if err := r.pub.Publish(ctx, e.ID, []byte(e.Payload)); err != nil {
			metrics.EventsFailed.Inc()
			next := time.Now().Add(r.backoff(e.RetryCount))
			if markErr := r.outbox.MarkFailed(e.ID, err.Error(), next); markErr != nil {
				return published, markErr
			}
			log.Printf("[RELAY] publish %s failed (attempt %d): %v", e.ID, e.RetryCount+1, err)
			continue
		}
		if err := r.outbox.MarkCompleted(e.ID); err != nil {
			return published, err
		}
		metrics.EventsPublished.Inc()
		published++
	}

	r.refreshGauges()
	return published, nil
}

// RetryFailedEvents reschedules Failed events below the retry ceiling with
// exponential backoff. Events at the ceiling stay Failed until an operator
// steps in.
func (r *Relay) RetryFailedEvents() (int, error) {
	events, err := r.outbox.GetRetriableFailed(r.cfg.MaxRetries)
	if err != nil {
		return 0, err
	}
	for i := range events {
		next := time.Now().Add(r.backoff(events[i].RetryCount))
		if err := r.outbox.UpdateNextRetry(events[i].ID, next); err != nil {
			return i, err
		}
	}
	return len(events), nil
}

func (r *Relay) Counts() (*repository.OutboxCounts, error) {
	return r.outbox.Counts(r.cfg.MaxRetries)
}

// backoff returns base * 2^retryCount capped at the configured maximum.
func (r *Relay) backoff(retryCount int) time.Duration {
	if retryCount > 30 {
		return r.cfg.MaxBackoff
	}
	d := r.cfg.RetryBackoff * time.Duration(1<<uint(retryCount))
	if d <= 0 || d > r.cfg.MaxBackoff {
		return r.cfg.MaxBackoff
	}
	return d
}

func (r *Relay) refreshGauges() {
	counts, err := r.outbox.Counts(r.cfg.MaxRetries)
	if err != nil {
		return
	}
	metrics.PendingBacklog.Set(float64(counts.Pending))
	metrics.FailedBacklog.Set(float64(counts.Failed))
	metrics.ExhaustedBacklog.Set(float64(counts.Exhausted))
}
