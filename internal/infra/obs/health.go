package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers answers the probes a deployment points at the booking
// service. Liveness is unconditional; readiness consults the booking store,
// so checkouts stop routing to an instance that lost its database.
type HealthHandlers struct {
	// Ready reports whether the booking store answers. Nil means the
	// in-memory store, which always does.
	Ready func() error
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
