package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainbooking "domehouse/internal/domain/booking"
	"domehouse/internal/domain/calendar"
	"domehouse/internal/domain/pricing"
)

var ErrBadMonth = errors.New("availability: month out of range")

// DayView is one calendar cell: the nightly price and whether the day can
// join a stay, with the failing rule named when it cannot.
type DayView struct {
	Date       string `json:"date"`
	Price      int64  `json:"price"`
	Weekend    bool   `json:"weekend"`
	Selectable bool   `json:"selectable"`
	Reason     string `json:"reason,omitempty"`
}

type MonthView struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Days  []DayView `json:"days"`
}

// MonthViewHandler renders availability and prices per night for one month,
// the data the calendar widget draws from.
type MonthViewHandler struct {
	Bookings domainbooking.Repository
	Rules    calendar.Rules
	Rates    pricing.Ratebook
}

func (h *MonthViewHandler) Handle(ctx context.Context, year int, month int) (MonthView, error) {
	if month < 1 || month > 12 {
		return MonthView{}, fmt.Errorf("%w: %d", ErrBadMonth, month)
	}
	all, err := h.Bookings.All(ctx)
	if err != nil {
		return MonthView{}, fmt.Errorf("availability: load bookings: %w", err)
	}
	booked := domainbooking.BookedDates(all)

	key := calendar.MonthKey{Year: year, Month: time.Month(month)}
	view := MonthView{Year: year, Month: month}
	for day := 1; day <= key.DaysIn(); day++ {
		d := calendar.Date{Year: year, Month: time.Month(month), Day: day}
		cell := DayView{
			Date:    d.String(),
			Price:   h.Rates.Nightly(d),
			Weekend: h.Rules.IsWeekend(d),
		}
		if err := h.Rules.Check(d, booked); err != nil {
			cell.Reason = reason(err)
		} else {
			cell.Selectable = true
		}
		view.Days = append(view.Days, cell)
	}
	return view, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, calendar.ErrDayBlocked):
		return "blocked"
	case errors.Is(err, calendar.ErrDayBooked):
		return "booked"
	case errors.Is(err, calendar.ErrDayPast):
		return "past"
	case errors.Is(err, calendar.ErrDayTooFarOut):
		return "too_far_out"
	default:
		return "unavailable"
	}
}
