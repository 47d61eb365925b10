package gateway

import (
	"context"
	"testing"
	"time"
)

func TestSimulatedChargeReplaysUnderSameKey(t *testing.T) {
	g := NewSimulated()
	ctx := context.Background()
	req := ChargeRequest{AmountCents: 5000, Currency: "USD", Method: "card", IdempotencyKey: "txn-1"}

	first, err := g.Charge(ctx, req)
	if err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	second, err := g.Charge(ctx, req)
	if err != nil {
		t.Fatalf("replayed Charge failed: %v", err)
	}
	if first.GatewayTxnID != second.GatewayTxnID {
		t.Errorf("replay returned a different gateway id: %s vs %s", first.GatewayTxnID, second.GatewayTxnID)
	}
	if g.ChargeCount() != 1 {
		t.Errorf("expected exactly one executed charge, got %d", g.ChargeCount())
	}
}

func TestSimulatedDeclineIsRemembered(t *testing.T) {
	g := NewSimulated()
	g.ChargeBehavior = func(req ChargeRequest) error {
		return &Error{Reason: "card declined", Retriable: false}
	}
	ctx := context.Background()
	req := ChargeRequest{AmountCents: 100, Currency: "USD", Method: "card", IdempotencyKey: "txn-2"}

	if _, err := g.Charge(ctx, req); err == nil {
		t.Fatal("expected decline")
	}
	// Even with the behavior cleared, the decline replays for the same key.
	g.ChargeBehavior = nil
	_, err := g.Charge(ctx, req)
	ge, ok := err.(*Error)
	if !ok || ge.Retriable {
		t.Fatalf("expected remembered terminal decline, got %v", err)
	}
}

func TestSimulatedTransientErrorIsRetriable(t *testing.T) {
	g := NewSimulated()
	calls := 0
	g.ChargeBehavior = func(req ChargeRequest) error {
		calls++
		if calls == 1 {
			return &Error{Reason: "connection reset", Retriable: true}
		}
		return nil
	}
	ctx := context.Background()
	req := ChargeRequest{AmountCents: 100, Currency: "USD", Method: "card", IdempotencyKey: "txn-3"}

	if _, err := g.Charge(ctx, req); err == nil {
		t.Fatal("expected transient failure on first attempt")
	}
	if _, err := g.Charge(ctx, req); err != nil {
		t.Fatalf("retry after transient failure should succeed: %v", err)
	}
}

func TestSimulatedChargeTimeout(t *testing.T) {
	g := NewSimulated()
	g.Latency = 50 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := g.Charge(ctx, ChargeRequest{AmountCents: 100, Currency: "USD", IdempotencyKey: "txn-4"})
	ge, ok := err.(*Error)
	if !ok || !ge.Retriable {
		t.Fatalf("expected retriable timeout error, got %v", err)
	}
}

func TestSimulatedRefundReplaysUnderSameKey(t *testing.T) {
	g := NewSimulated()
	ctx := context.Background()
	req := RefundRequest{GatewayTxnID: "sim_ch_1", AmountCents: 500, IdempotencyKey: "txn-1:refund:0"}

	first, err := g.Refund(ctx, req)
	if err != nil {
		t.Fatalf("Refund failed: %v", err)
	}
	second, err := g.Refund(ctx, req)
	if err != nil {
		t.Fatalf("replayed Refund failed: %v", err)
	}
	if first.GatewayRefundID != second.GatewayRefundID {
		t.Errorf("refund replay returned a different id")
	}
}
