package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	checkoutapp "domehouse/internal/app/handlers/checkout"
)

// WebhookHandler receives payment-processor notifications. The body is read
// raw, never through JSON binding, because the signature covers the exact
// bytes on the wire.
type WebhookHandler struct {
	ConfirmPayment *checkoutapp.ConfirmPaymentHandler
}

func (h WebhookHandler) Receive(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}
	signature := c.GetHeader("Stripe-Signature")
	if err := h.ConfirmPayment.Handle(c.Request.Context(), payload, signature); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

var _ WebhookHTTP = WebhookHandler{}
