package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrDayBlocked   = errors.New("calendar: day is blocked")
	ErrDayBooked    = errors.New("calendar: day is already booked")
	ErrDayPast      = errors.New("calendar: day is in the past")
	ErrDayTooFarOut = errors.New("calendar: day is beyond the booking horizon")
)

// DefaultHorizonDays caps how far into the future a stay may start.
const DefaultHorizonDays = 180

// DaySet holds the blocked day numbers of one month.
type DaySet map[int]struct{}

func NewDaySet(days ...int) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

func (s DaySet) Contains(day int) bool {
	_, ok := s[day]
	return ok
}

// BlockedSet maps a month to the days the host has taken off the market.
// Owned by configuration, never mutated at runtime.
type BlockedSet map[MonthKey]DaySet

// WeekendSet names the two week positions priced as weekend nights.
// Friday and Saturday by default: the nights preceding and including
// typical weekend occupancy.
type WeekendSet [2]time.Weekday

var DefaultWeekend = WeekendSet{time.Friday, time.Saturday}

func (w WeekendSet) Contains(day time.Weekday) bool {
	return day == w[0] || day == w[1]
}

// Rules classifies calendar days for the booking flow. The reference clock
// and zone are explicit fields so "today" is deterministic under test.
type Rules struct {
	Blocked     BlockedSet
	Weekend     WeekendSet
	HorizonDays int
	Location    *time.Location
	Now         func() time.Time
}

// NewRules applies the stock weekend, horizon, zone and clock, leaving
// callers to override any of them.
func NewRules(blocked BlockedSet) Rules {
	return Rules{
		Blocked:     blocked,
		Weekend:     DefaultWeekend,
		HorizonDays: DefaultHorizonDays,
		Location:    time.Local,
		Now:         time.Now,
	}
}

// Today resolves the current calendar day in the configured location.
func (r Rules) Today() Date {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	return DateOf(now().In(loc))
}

func (r Rules) IsBlocked(d Date) bool {
	return r.Blocked[MonthKey{Year: d.Year, Month: d.Month}].Contains(d.Day)
}

// IsBooked reports whether d matches any entry of the booked-dates sequence
// by calendar identity.
func (r Rules) IsBooked(d Date, booked []Date) bool {
	for _, b := range booked {
		if d.Equal(b) {
			return true
		}
	}
	return false
}

// IsPast compares calendar days, not instants: today is never past.
func (r Rules) IsPast(d Date) bool {
	return d.Before(r.Today())
}

func (r Rules) IsWeekend(d Date) bool {
	return r.Weekend.Contains(d.Weekday())
}

func (r Rules) horizon() int {
	if r.HorizonDays > 0 {
		return r.HorizonDays
	}
	return DefaultHorizonDays
}

// Check classifies a single day, returning nil when it is selectable or the
// first failing rule otherwise.
func (r Rules) Check(d Date, booked []Date) error {
	if r.IsBlocked(d) {
		return fmt.Errorf("%s: %w", d, ErrDayBlocked)
	}
	if r.IsBooked(d, booked) {
		return fmt.Errorf("%s: %w", d, ErrDayBooked)
	}
	if r.IsPast(d) {
		return fmt.Errorf("%s: %w", d, ErrDayPast)
	}
	if Nights(r.Today(), d) > r.horizon() {
		return fmt.Errorf("%s: %w", d, ErrDayTooFarOut)
	}
	return nil
}

// IsDaySelectable reports whether a day may join a stay. A nil day means
// "deselect" and is always allowed.
func (r Rules) IsDaySelectable(d *Date, booked []Date) bool {
	if d == nil {
		return true
	}
	return r.Check(*d, booked) == nil
}

// ValidateRange walks every day of [from, to] inclusive and returns the
// first rule violation, so a candidate selection is rejected as a whole.
func (r Rules) ValidateRange(dr DateRange, booked []Date) error {
	if dr.From == nil {
		return nil
	}
	to := dr.From
	if dr.To != nil {
		to = dr.To
	}
	for cur := *dr.From; !cur.After(*to); cur = cur.AddDays(1) {
		if err := r.Check(cur, booked); err != nil {
			return err
		}
	}
	return nil
}
