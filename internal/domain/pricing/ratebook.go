package pricing

import (
	"errors"
	"fmt"

	"domehouse/internal/domain/calendar"
)

var (
	ErrInvalidStay  = errors.New("pricing: stay ends before it starts")
	ErrInvalidRates = errors.New("pricing: malformed rate configuration")
)

// MonthRates overrides pricing for one month. A nil Weekday/Weekend keeps
// the global default; Days wins over both for its exact dates.
type MonthRates struct {
	Weekday *int64
	Weekend *int64
	Days    map[int]int64
}

// Ratebook is the static price configuration: global weekday/weekend base
// rates plus per-month overrides. Prices are whole currency units per night;
// checkout converts to minor units. Loaded once, read-only afterwards.
type Ratebook struct {
	DefaultWeekday int64
	DefaultWeekend int64
	Custom         map[calendar.MonthKey]MonthRates
	Weekend        calendar.WeekendSet
}

// Validate rejects a ratebook no stay could be priced from.
func (rb Ratebook) Validate() error {
	if rb.DefaultWeekday <= 0 || rb.DefaultWeekend <= 0 {
		return fmt.Errorf("%w: default rates must be positive", ErrInvalidRates)
	}
	for key, month := range rb.Custom {
		if month.Weekday != nil && *month.Weekday <= 0 {
			return fmt.Errorf("%w: %s weekday override must be positive", ErrInvalidRates, key)
		}
		if month.Weekend != nil && *month.Weekend <= 0 {
			return fmt.Errorf("%w: %s weekend override must be positive", ErrInvalidRates, key)
		}
		for day, price := range month.Days {
			if day < 1 || day > key.DaysIn() {
				return fmt.Errorf("%w: %s has no day %d", ErrInvalidRates, key, day)
			}
			if price <= 0 {
				return fmt.Errorf("%w: %s day %d price must be positive", ErrInvalidRates, key, day)
			}
		}
	}
	return nil
}

func (rb Ratebook) isWeekend(d calendar.Date) bool {
	weekend := rb.Weekend
	if weekend == (calendar.WeekendSet{}) {
		weekend = calendar.DefaultWeekend
	}
	return weekend.Contains(d.Weekday())
}

// customNightly resolves a month override for the day: exact day first, then
// the month's weekend or weekday rate depending on the day. The boolean
// reports whether any override applied.
func (rb Ratebook) customNightly(d calendar.Date) (int64, bool) {
	month, ok := rb.Custom[calendar.MonthKey{Year: d.Year, Month: d.Month}]
	if !ok {
		return 0, false
	}
	if price, ok := month.Days[d.Day]; ok {
		return price, true
	}
	if rb.isWeekend(d) {
		if month.Weekend != nil {
			return *month.Weekend, true
		}
		return 0, false
	}
	if month.Weekday != nil {
		return *month.Weekday, true
	}
	return 0, false
}

// Nightly prices one night: the month override when present, the global
// weekend or weekday base otherwise.
func (rb Ratebook) Nightly(d calendar.Date) int64 {
	if price, ok := rb.customNightly(d); ok {
		return price
	}
	if rb.isWeekend(d) {
		return rb.DefaultWeekend
	}
	return rb.DefaultWeekday
}

// StayCost sums nightly prices for every day of [from, to], endpoints
// included. A single-day stay costs exactly that day's nightly price.
func (rb Ratebook) StayCost(from, to calendar.Date) (int64, error) {
	if to.Before(from) {
		return 0, fmt.Errorf("%w: %s to %s", ErrInvalidStay, from, to)
	}
	var total int64
	for cur := from; !cur.After(to); cur = cur.AddDays(1) {
		total += rb.Nightly(cur)
	}
	return total, nil
}
