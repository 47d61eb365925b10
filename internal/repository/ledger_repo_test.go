package repository

import (
	"testing"

	"givepay/internal/domain"
	"givepay/internal/models"
)

func TestLedgerSumByTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	entries := []*models.PaymentLedgerEntry{
		{TransactionID: "txn-a", AmountCents: 5000, EntryType: domain.EntryPayment, Operation: "donation_payment"},
		{TransactionID: "txn-a", AmountCents: -2000, EntryType: domain.EntryRefund, Operation: "donation_refund"},
		{TransactionID: "txn-b", AmountCents: 990, EntryType: domain.EntryPayment, Operation: "donation_payment"},
	}
	for _, e := range entries {
		if err := repo.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	sum, err := repo.SumByTransaction("txn-a")
	if err != nil {
		t.Fatalf("SumByTransaction: %v", err)
	}
	if sum != 3000 {
		t.Errorf("txn-a net: got %d, want 3000", sum)
	}

	sum, err = repo.SumByTransaction("txn-missing")
	if err != nil {
		t.Fatalf("SumByTransaction: %v", err)
	}
	if sum != 0 {
		t.Errorf("missing transaction net: got %d, want 0", sum)
	}

	list, err := repo.ListByTransaction("txn-a")
	if err != nil {
		t.Fatalf("ListByTransaction: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("txn-a entries: got %d, want 2", len(list))
	}
}
