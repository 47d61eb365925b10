package handler

import (
	"errors"
	"math"
	"net/http"

	"givepay/internal/apperr"
	"givepay/internal/repository"
	"givepay/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	processor *service.Processor
	txns      *repository.TransactionRepository
	ledger    *repository.LedgerRepository
}

func NewPaymentHandler(processor *service.Processor, txns *repository.TransactionRepository, ledger *repository.LedgerRepository) *PaymentHandler {
	return &PaymentHandler{processor: processor, txns: txns, ledger: ledger}
}

type createPaymentRequest struct {
	DonationID    uint    `json:"donation_id"`
	CampaignID    uint    `json:"campaign_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	DonorName     string  `json:"donor_name"`
	DonorEmail    string  `json:"donor_email"`
	PaymentMethod string  `json:"payment_method"`
}

// Create executes a donation payment. A gateway failure still returns the
// recorded transaction so the caller sees the failure reason.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	result, err := h.processor.ProcessPayment(c.Request.Context(), service.PaymentRequest{
		DonationID:    req.DonationID,
		CampaignID:    req.CampaignID,
		AmountCents:   int64(math.Round(req.Amount * 100)),
		Currency:      req.Currency,
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		status := apperr.HTTPStatus(err)
		body := gin.H{"error": errMessage(err)}
		if result != nil {
			body["transaction"] = result
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	t, err := h.txns.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *PaymentHandler) GetByDonation(c *gin.Context) {
	var uri struct {
		DonationID uint `uri:"donationID" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
		return
	}
	t, err := h.txns.GetByDonationID(uri.DonationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no payment for donation"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// Ledger returns the append-only entries and the net financial position for
// a transaction, for audit and reconciliation.
func (h *PaymentHandler) Ledger(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.txns.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	entries, err := h.ledger.ListByTransaction(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger query failed"})
		return
	}
	net, err := h.ledger.SumByTransaction(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "net_cents": net})
}

type refundRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	result, err := h.processor.RefundPayment(c.Request.Context(), c.Param("id"), int64(math.Round(req.Amount*100)), req.Reason)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": errMessage(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *PaymentHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	result, err := h.processor.CancelPayment(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": errMessage(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

func errMessage(err error) string {
	if ae, ok := apperr.As(err); ok {
		return ae.Msg
	}
	return "internal error"
}
