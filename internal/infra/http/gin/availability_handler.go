package ginserver

import (
	"errors"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	availabilityapp "domehouse/internal/app/handlers/availability"
	"domehouse/internal/domain/calendar"
)

type AvailabilityHandler struct {
	MonthView *availabilityapp.MonthViewHandler
	Select    *availabilityapp.SelectionHandler
}

func (h AvailabilityHandler) Month(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad month"})
		return
	}
	view, err := h.MonthView.Handle(c.Request.Context(), year, month)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, availabilityapp.ErrBadMonth) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h AvailabilityHandler) Selection(c *gin.Context) {
	var req availabilityapp.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Select.Handle(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, calendar.ErrMalformedDate) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
