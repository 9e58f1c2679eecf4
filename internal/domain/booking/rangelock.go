package booking

import (
	"sync"

	"domehouse/internal/domain/calendar"
)

// RangeLock serializes checkout attempts per date range. The availability
// read and the pending-booking write are separate store operations, so two
// concurrent checkouts for overlapping dates could otherwise both pass
// validation. Holding the range between the check and the write closes
// that gap within the process.
type RangeLock struct {
	mu   sync.Mutex
	held []heldRange
}

type heldRange struct {
	from, to calendar.Date
}

func (h heldRange) overlaps(from, to calendar.Date) bool {
	return !from.After(h.to) && !h.from.After(to)
}

func NewRangeLock() *RangeLock {
	return &RangeLock{}
}

// Acquire claims [from, to] inclusive. It reports false when any held range
// overlaps; otherwise the caller owns the range until it calls release.
func (l *RangeLock) Acquire(from, to calendar.Date) (release func(), ok bool) {
	if to.Before(from) {
		from, to = to, from
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, h := range l.held {
		if h.overlaps(from, to) {
			return nil, false
		}
	}
	claimed := heldRange{from: from, to: to}
	l.held = append(l.held, claimed)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, h := range l.held {
			if h == claimed {
				l.held = append(l.held[:i], l.held[i+1:]...)
				return
			}
		}
	}, true
}
