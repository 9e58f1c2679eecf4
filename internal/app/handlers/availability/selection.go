package availability

import (
	"context"
	"fmt"

	domainbooking "domehouse/internal/domain/booking"
	"domehouse/internal/domain/calendar"
	"domehouse/internal/domain/pricing"
)

// SelectionRequest carries the caller's current range plus the day just
// clicked. The selection state travels with every request instead of living
// server-side, so the builder stays a pure function of its input.
type SelectionRequest struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Clicked string `json:"clicked" binding:"required"`
}

type SelectionResult struct {
	Accepted  bool   `json:"accepted"`
	Message   string `json:"message,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Nights    int    `json:"nights"`
	TotalCost int64  `json:"totalCost"`
}

// SelectionHandler folds one click into a date range and prices the result.
// A click that would cover an unavailable day is rejected and the prior
// range is returned unchanged.
type SelectionHandler struct {
	Bookings domainbooking.Repository
	Rules    calendar.Rules
	Rates    pricing.Ratebook
}

func (h *SelectionHandler) Handle(ctx context.Context, req SelectionRequest) (SelectionResult, error) {
	current, err := parseRange(req.From, req.To)
	if err != nil {
		return SelectionResult{}, err
	}
	clicked, err := calendar.ParseDate(req.Clicked)
	if err != nil {
		return SelectionResult{}, err
	}

	all, err := h.Bookings.All(ctx)
	if err != nil {
		return SelectionResult{}, fmt.Errorf("availability: load bookings: %w", err)
	}
	booked := domainbooking.BookedDates(all)

	candidate := calendar.AddDayToRange(clicked, current)
	if err := h.Rules.ValidateRange(candidate, booked); err != nil {
		rejected := h.describe(current)
		rejected.Accepted = false
		rejected.Message = err.Error()
		return rejected, nil
	}

	accepted := h.describe(candidate)
	accepted.Accepted = true
	return accepted, nil
}

func (h *SelectionHandler) describe(r calendar.DateRange) SelectionResult {
	res := SelectionResult{}
	if r.From == nil {
		return res
	}
	res.From = r.From.String()
	end := r.End()
	if r.To != nil {
		res.To = r.To.String()
	}
	res.Nights = calendar.Nights(*r.From, *end)
	if total, err := h.Rates.StayCost(*r.From, *end); err == nil {
		res.TotalCost = total
	}
	return res
}

func parseRange(from, to string) (calendar.DateRange, error) {
	var r calendar.DateRange
	if from == "" {
		return r, nil
	}
	f, err := calendar.ParseDate(from)
	if err != nil {
		return r, err
	}
	r.From = &f
	if to == "" {
		return r, nil
	}
	t, err := calendar.ParseDate(to)
	if err != nil {
		return r, err
	}
	if t.Before(f) {
		return calendar.DateRange{}, fmt.Errorf("%w: to precedes from", calendar.ErrMalformedDate)
	}
	r.To = &t
	return r, nil
}
