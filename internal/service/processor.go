package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"givepay/config"
	"givepay/internal/apperr"
	"givepay/internal/domain"
	"givepay/internal/lock"
	"givepay/internal/models"
	"givepay/internal/repository"
	"givepay/pkg/gateway"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRequest struct {
	DonationID    uint   `json:"donation_id"`
	CampaignID    uint   `json:"campaign_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	DonorName     string `json:"donor_name"`
	DonorEmail    string `json:"donor_email"`
	PaymentMethod string `json:"payment_method"`
}

type PaymentResult struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	GatewayTxnID  string `json:"gateway_transaction_id,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// Processor orchestrates the payment saga: lock, idempotency check, gateway
// charge, then one atomic commit of transaction + ledger + outbox. The lock
// surrounds the unit but is not part of it.
type Processor struct {
	db      *gorm.DB
	txns    *repository.TransactionRepository
	outbox  *repository.OutboxRepository
	ledger  *repository.LedgerRepository
	locker  lock.Locker
	gateway gateway.Client
	lease   time.Duration
	timeout time.Duration
}

func NewProcessor(db *gorm.DB, txns *repository.TransactionRepository, outbox *repository.OutboxRepository, ledger *repository.LedgerRepository, locker lock.Locker, gw gateway.Client, cfg *config.Config) *Processor {
	return &Processor{
		db:      db,
		txns:    txns,
		outbox:  outbox,
		ledger:  ledger,
		locker:  locker,
		gateway: gw,
		lease:   cfg.Lock.LeaseDuration,
		timeout: cfg.Gateway.ChargeTimeout,
	}
}

func lockKey(donationID uint) string {
	return fmt.Sprintf("donation:%d", donationID)
}

// ProcessPayment executes one donation payment exactly once from the business
// perspective. A gateway failure still ends in a committed Failed transaction;
// the returned error carries the retriability classification for the caller.
func (p *Processor) ProcessPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	handle, err := p.locker.TryAcquire(ctx, lockKey(req.DonationID), uuid.NewString(), p.lease)
	if err != nil {
		return nil, apperr.ConflictErr(fmt.Sprintf("payment for donation %d is already being processed", req.DonationID))
	}
	defer func() {
		if err := p.locker.Release(context.Background(), handle); err != nil {
			log.Printf("[LOCK] release %s: %v (lease expiry will reclaim)", handle.Key, err)
		}
	}()

	existing, err := p.txns.GetByDonationID(req.DonationID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.PersistenceErr("idempotency lookup failed", err)
	}
	if existing != nil {
		if domain.IsTerminal(existing.Status) {
			log.Printf("[PAYMENT] donation=%d replay, returning transaction %s (%s)", req.DonationID, existing.ID, existing.Status)
			return resultOf(existing), nil
		}
		return nil, apperr.ConflictErr(fmt.Sprintf("payment for donation %d is already in progress", req.DonationID))
	}

	now := time.Now()
	txn := &models.PaymentTransaction{
		ID:            uuid.NewString(),
		DonationID:    req.DonationID,
		CampaignID:    req.CampaignID,
		AmountCents:   req.AmountCents,
		Currency:      strings.ToUpper(req.Currency),
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		Status:        domain.StatusPending,
		PaymentMethod: req.PaymentMethod,
		GatewayName:   p.gateway.Name(),
	}
	if err := txn.SetStatus(domain.StatusProcessing); err != nil {
		return nil, apperr.PersistenceErr("transition failed", err)
	}
	txn.ProcessedAt = &now

	chargeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	charge, chargeErr := p.gateway.Charge(chargeCtx, gateway.ChargeRequest{
		AmountCents:    txn.AmountCents,
		Currency:       txn.Currency,
		Method:         txn.PaymentMethod,
		DonorName:      txn.DonorName,
		DonorEmail:     txn.DonorEmail,
		IdempotencyKey: txn.ID,
	})

	if chargeErr != nil {
		return p.commitFailed(txn, chargeErr)
	}
	return p.commitCompleted(txn, charge)
}

// commitCompleted writes transaction, ledger entry and outbox event as one
// atomic unit.
func (p *Processor) commitCompleted(txn *models.PaymentTransaction, charge *gateway.ChargeResult) (*PaymentResult, error) {
	if err := txn.SetStatus(domain.StatusCompleted); err != nil {
		return nil, apperr.PersistenceErr("transition failed", err)
	}
	now := time.Now()
	txn.CompletedAt = &now
	txn.GatewayTxnID = charge.GatewayTxnID

	event, err := newOutboxEvent(txn, domain.EventTypePaymentCompleted)
	if err != nil {
		return nil, apperr.PersistenceErr("event encoding failed", err)
	}
	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := p.txns.WithTx(tx).Create(txn); err != nil {
			return err
		}
		if err := p.ledger.WithTx(tx).Append(&models.PaymentLedgerEntry{
			TransactionID: txn.ID,
			AmountCents:   txn.AmountCents,
			EntryType:     domain.EntryPayment,
			Operation:     "donation_payment",
		}); err != nil {
			return err
		}
		return p.outbox.WithTx(tx).Create(event)
	})
	if err != nil {
		return nil, apperr.PersistenceErr("payment commit failed", err)
	}
	log.Printf("[PAYMENT] donation=%d transaction=%s COMPLETED gateway_ref=%s", txn.DonationID, txn.ID, txn.GatewayTxnID)
	return resultOf(txn), nil
}

// commitFailed records the failed attempt and its event atomically. No ledger
// entry: no money moved.
func (p *Processor) commitFailed(txn *models.PaymentTransaction, chargeErr error) (*PaymentResult, error) {
	if err := txn.SetStatus(domain.StatusFailed); err != nil {
		return nil, apperr.PersistenceErr("transition failed", err)
	}
	retriable := false
	var ge *gateway.Error
	if errors.As(chargeErr, &ge) {
		txn.FailureReason = ge.Reason
		retriable = ge.Retriable
	} else {
		txn.FailureReason = chargeErr.Error()
		retriable = true
	}

	event, err := newOutboxEvent(txn, domain.EventTypePaymentFailed)
	if err != nil {
		return nil, apperr.PersistenceErr("event encoding failed", err)
	}
	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := p.txns.WithTx(tx).Create(txn); err != nil {
			return err
		}
		return p.outbox.WithTx(tx).Create(event)
	})
	if err != nil {
		return nil, apperr.PersistenceErr("failure commit failed", err)
	}
	log.Printf("[PAYMENT] donation=%d transaction=%s FAILED reason=%q retriable=%v", txn.DonationID, txn.ID, txn.FailureReason, retriable)
	return resultOf(txn), apperr.GatewayErr(txn.FailureReason, retriable, chargeErr)
}

// RefundPayment reverses a completed payment, fully or partially. amountCents
// of zero refunds the outstanding remainder.
func (p *Processor) RefundPayment(ctx context.Context, transactionID string, amountCents int64, reason string) (*PaymentResult, error) {
	if amountCents < 0 {
		return nil, apperr.ValidationErr("refund amount must not be negative")
	}
	probe, err := p.txns.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundErr("transaction not found")
		}
		return nil, apperr.PersistenceErr("transaction lookup failed", err)
	}

	handle, err := p.locker.TryAcquire(ctx, lockKey(probe.DonationID), uuid.NewString(), p.lease)
	if err != nil {
		return nil, apperr.ConflictErr(fmt.Sprintf("donation %d is locked by another operation", probe.DonationID))
	}
	defer p.locker.Release(context.Background(), handle)

	// Re-read under the lock; the probe may be stale.
	txn, err := p.txns.GetByID(transactionID)
	if err != nil {
		return nil, apperr.PersistenceErr("transaction lookup failed", err)
	}
	remaining := txn.AmountCents - txn.RefundedCents
	if amountCents == 0 {
		amountCents = remaining
	}
	if amountCents > remaining {
		return nil, apperr.ValidationErr("refund exceeds remaining refundable amount")
	}
	target := domain.StatusPartiallyRefunded
	if txn.RefundedCents+amountCents == txn.AmountCents {
		target = domain.StatusRefunded
	}
	if !domain.CanTransition(txn.Status, target) {
		return nil, apperr.ValidationErr(fmt.Sprintf("cannot refund a %s transaction", txn.Status))
	}

	refundCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	// Key derived from the refunded total so a retried call replays the same
	// provider refund instead of issuing a second one.
	_, err = p.gateway.Refund(refundCtx, gateway.RefundRequest{
		GatewayTxnID:   txn.GatewayTxnID,
		AmountCents:    amountCents,
		IdempotencyKey: fmt.Sprintf("%s:refund:%d", txn.ID, txn.RefundedCents),
	})
	if err != nil {
		var ge *gateway.Error
		if errors.As(err, &ge) {
			return nil, apperr.GatewayErr(ge.Reason, ge.Retriable, err)
		}
		return nil, apperr.GatewayErr("refund failed", true, err)
	}

	if err := txn.SetStatus(target); err != nil {
		return nil, apperr.PersistenceErr("transition failed", err)
	}
	txn.RefundedCents += amountCents
	event, err := newOutboxEvent(txn, domain.EventTypePaymentRefunded)
	if err != nil {
		return nil, apperr.PersistenceErr("event encoding failed", err)
	}
	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := p.txns.WithTx(tx).Update(txn); err != nil {
			return err
		}
		if err := p.ledger.WithTx(tx).Append(&models.PaymentLedgerEntry{
			TransactionID: txn.ID,
			AmountCents:   -amountCents,
			EntryType:     domain.EntryRefund,
			Operation:     "donation_refund",
			Metadata:      reason,
		}); err != nil {
			return err
		}
		return p.outbox.WithTx(tx).Create(event)
	})
	if err != nil {
		return nil, apperr.PersistenceErr("refund commit failed", err)
	}
	log.Printf("[PAYMENT] transaction=%s refunded %d cents (%s)", txn.ID, amountCents, txn.Status)
	return resultOf(txn), nil
}

// CancelPayment cancels a transaction parked in Pending or Processing, e.g.
// by operator tooling after a crash. Once the gateway reported success the
// reversal must be a refund, never a cancellation; the transition table
// enforces that.
func (p *Processor) CancelPayment(ctx context.Context, transactionID, reason string) (*PaymentResult, error) {
	probe, err := p.txns.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundErr("transaction not found")
		}
		return nil, apperr.PersistenceErr("transaction lookup failed", err)
	}

	handle, err := p.locker.TryAcquire(ctx, lockKey(probe.DonationID), uuid.NewString(), p.lease)
	if err != nil {
		return nil, apperr.ConflictErr(fmt.Sprintf("donation %d is locked by another operation", probe.DonationID))
	}
	defer p.locker.Release(context.Background(), handle)

	txn, err := p.txns.GetByID(transactionID)
	if err != nil {
		return nil, apperr.PersistenceErr("transaction lookup failed", err)
	}
	if err := txn.SetStatus(domain.StatusCancelled); err != nil {
		return nil, apperr.ValidationErr(err.Error())
	}
	txn.FailureReason = reason

	event, err := newOutboxEvent(txn, domain.EventTypePaymentCancelled)
	if err != nil {
		return nil, apperr.PersistenceErr("event encoding failed", err)
	}
	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := p.txns.WithTx(tx).Update(txn); err != nil {
			return err
		}
		return p.outbox.WithTx(tx).Create(event)
	})
	if err != nil {
		return nil, apperr.PersistenceErr("cancel commit failed", err)
	}
	log.Printf("[PAYMENT] transaction=%s CANCELLED reason=%q", txn.ID, reason)
	return resultOf(txn), nil
}

func validate(req PaymentRequest) error {
	switch {
	case req.DonationID == 0:
		return apperr.ValidationErr("donation_id is required")
	case req.CampaignID == 0:
		return apperr.ValidationErr("campaign_id is required")
	case req.AmountCents <= 0:
		return apperr.ValidationErr("amount must be greater than zero")
	case len(req.Currency) != 3:
		return apperr.ValidationErr("currency must be a 3-letter code")
	case req.DonorEmail == "":
		return apperr.ValidationErr("donor_email is required")
	case req.PaymentMethod == "":
		return apperr.ValidationErr("payment_method is required")
	}
	return nil
}

func resultOf(t *models.PaymentTransaction) *PaymentResult {
	return &PaymentResult{
		TransactionID: t.ID,
		Status:        t.Status,
		GatewayTxnID:  t.GatewayTxnID,
		FailureReason: t.FailureReason,
	}
}
