package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	checkoutapp "domehouse/internal/app/handlers/checkout"
	domainbooking "domehouse/internal/domain/booking"
	"domehouse/internal/domain/calendar"
)

type CheckoutHandler struct {
	StartSession *checkoutapp.StartSessionHandler
}

type checkoutRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

func (h CheckoutHandler) Start(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.StartSession.Handle(c.Request.Context(), checkoutapp.StartSessionCommand{
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		c.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, calendar.ErrMalformedDate), errors.Is(err, domainbooking.ErrInvalidDates):
		return http.StatusBadRequest
	case errors.Is(err, checkoutapp.ErrDatesUnavailable):
		return http.StatusConflict
	case errors.Is(err, checkoutapp.ErrPaymentsDown):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var _ CheckoutHTTP = CheckoutHandler{}
