package handler

import (
	"net/http"

	"givepay/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler is a pass-through to relay operations; it holds no business
// logic of its own.
type AdminHandler struct {
	relay *service.Relay
}

func NewAdminHandler(relay *service.Relay) *AdminHandler {
	return &AdminHandler{relay: relay}
}

// FlushOutbox runs one relay sweep immediately.
func (h *AdminHandler) FlushOutbox(c *gin.Context) {
	processed, err := h.relay.Sweep(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed_count": processed})
}

// RetryFailed reschedules retriable failed events.
func (h *AdminHandler) RetryFailed(c *gin.Context) {
	n, err := h.relay.RetryFailedEvents()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rescheduled_count": n})
}

// OutboxStats reports the relay backlog.
func (h *AdminHandler) OutboxStats(c *gin.Context) {
	counts, err := h.relay.Counts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, counts)
}
