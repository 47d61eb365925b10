package domain

// Transaction statuses.
const (
	StatusPending           = "PENDING"
	StatusProcessing        = "PROCESSING"
	StatusCompleted         = "COMPLETED"
	StatusFailed            = "FAILED"
	StatusCancelled         = "CANCELLED"
	StatusRefunded          = "REFUNDED"
	StatusPartiallyRefunded = "PARTIALLY_REFUNDED"
)

// Outbox event statuses.
const (
	EventPending    = "PENDING"
	EventProcessing = "PROCESSING"
	EventCompleted  = "COMPLETED"
	EventFailed     = "FAILED"
	EventCancelled  = "CANCELLED"
)

// Outbox event types delivered downstream.
const (
	EventTypePaymentCompleted = "DonationPaymentCompletedEvent"
	EventTypePaymentFailed    = "DonationPaymentFailedEvent"
	EventTypePaymentRefunded  = "DonationPaymentRefundedEvent"
	EventTypePaymentCancelled = "DonationPaymentCancelledEvent"
)

// Ledger entry types.
const (
	EntryPayment    = "PAYMENT"
	EntryRefund     = "REFUND"
	EntryFee        = "FEE"
	EntryChargeback = "CHARGEBACK"
	EntryAdjustment = "ADJUSTMENT"
)

const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)
