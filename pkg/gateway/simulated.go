package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type chargeOutcome struct {
	result *ChargeResult
	err    error
}

// Simulated is a deterministic in-memory provider for development and tests.
// Outcomes are remembered per idempotency key, so a retried call replays the
// original result instead of charging again.
type Simulated struct {
	mu      sync.Mutex
	charges map[string]chargeOutcome
	refunds map[string]*RefundResult
	seq     int64

	// ChargeBehavior, when set, decides the outcome of a first-time charge.
	// Returning nil means success. Replays bypass it.
	ChargeBehavior func(req ChargeRequest) error
	// Latency is added to every first-time call, for timeout tests.
	Latency time.Duration
}

func NewSimulated() *Simulated {
	return &Simulated{
		charges: make(map[string]chargeOutcome),
		refunds: make(map[string]*RefundResult),
	}
}

func (s *Simulated) Name() string { return "simulated" }

func (s *Simulated) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	s.mu.Lock()
	if out, ok := s.charges[req.IdempotencyKey]; ok {
		s.mu.Unlock()
		return out.result, out.err
	}
	s.mu.Unlock()

	if s.Latency > 0 {
		select {
		case <-time.After(s.Latency):
		case <-ctx.Done():
			return nil, &Error{Reason: "charge timed out", Retriable: true}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Reason: "charge timed out", Retriable: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if out, ok := s.charges[req.IdempotencyKey]; ok {
		return out.result, out.err
	}
	if s.ChargeBehavior != nil {
		if err := s.ChargeBehavior(req); err != nil {
			// Only terminal declines are remembered; a transient failure is
			// retriable under the same key.
			if ge, ok := err.(*Error); ok && !ge.Retriable {
				s.charges[req.IdempotencyKey] = chargeOutcome{err: err}
			}
			return nil, err
		}
	}
	s.seq++
	out := chargeOutcome{result: &ChargeResult{GatewayTxnID: fmt.Sprintf("sim_ch_%d", s.seq)}}
	s.charges[req.IdempotencyKey] = out
	return out.result, nil
}

func (s *Simulated) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.refunds[req.IdempotencyKey]; ok {
		return r, nil
	}
	s.seq++
	r := &RefundResult{GatewayRefundID: fmt.Sprintf("sim_rf_%d", s.seq)}
	s.refunds[req.IdempotencyKey] = r
	return r, nil
}

// ChargeCount reports how many distinct charges were executed.
func (s *Simulated) ChargeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, out := range s.charges {
		if out.result != nil {
			n++
		}
	}
	return n
}
