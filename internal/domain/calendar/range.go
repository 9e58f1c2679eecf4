package calendar

// DateRange is a guest's candidate selection. A nil From means nothing is
// selected; a set From with nil To is a single selected day. When both ends
// are set, From never sorts after To.
type DateRange struct {
	From *Date
	To   *Date
}

// NewRange builds a closed range, swapping the ends if given out of order.
func NewRange(from, to Date) DateRange {
	if to.Before(from) {
		from, to = to, from
	}
	return DateRange{From: &from, To: &to}
}

// SingleDay selects exactly one day.
func SingleDay(d Date) DateRange {
	return DateRange{From: &d}
}

// IsEmpty reports whether nothing is selected.
func (r DateRange) IsEmpty() bool {
	return r.From == nil
}

// Start and End resolve the effective endpoints; a single-day selection
// starts and ends on its one day. Both return nil on an empty range.
func (r DateRange) Start() *Date { return r.From }

func (r DateRange) End() *Date {
	if r.To != nil {
		return r.To
	}
	return r.From
}

// Days expands the selection into every calendar day it covers, endpoints
// included.
func (r DateRange) Days() []Date {
	if r.From == nil {
		return nil
	}
	end := *r.End()
	var days []Date
	for cur := *r.From; !cur.After(end); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

// AddDayToRange folds one calendar click into the current selection:
//
//   - nothing selected: the click starts a new range
//   - clicking the lone selected day again: deselect
//   - clicking before the range start: restart from the clicked day
//   - clicking the range end: collapse to that single day
//   - anything else: the click becomes the new end, swapping if needed
//
// The result is a candidate only; callers must validate every covered day
// before committing it.
func AddDayToRange(day Date, r DateRange) DateRange {
	if r.From == nil {
		return SingleDay(day)
	}
	from := *r.From
	if (r.To == nil || r.To.Equal(from)) && day.Equal(from) {
		return DateRange{}
	}
	if r.To != nil {
		to := *r.To
		if day.Before(from) {
			return SingleDay(day)
		}
		if day.Equal(to) {
			return NewRange(day, day)
		}
	}
	return NewRange(from, day)
}
