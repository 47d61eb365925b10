package gateway

import (
	"context"
	"fmt"
)

type ChargeRequest struct {
	AmountCents    int64
	Currency       string
	Method         string
	DonorName      string
	DonorEmail     string
	IdempotencyKey string
}

type ChargeResult struct {
	GatewayTxnID string
}

type RefundRequest struct {
	GatewayTxnID   string
	AmountCents    int64
	IdempotencyKey string
}

type RefundResult struct {
	GatewayRefundID string
}

// Error is a charge provider failure. Retriable distinguishes transient
// network/timeout failures from explicit declines.
type Error struct {
	Reason    string
	Retriable bool
}

func (e *Error) Error() string {
	if e.Retriable {
		return fmt.Sprintf("gateway transient error: %s", e.Reason)
	}
	return fmt.Sprintf("gateway declined: %s", e.Reason)
}

// Client is the boundary contract to the external charge provider. Repeating
// a call with the same idempotency key must not charge twice: the provider
// replays the original outcome.
type Client interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}
