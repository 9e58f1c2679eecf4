package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domehouse/internal/domain/calendar"
)

func TestNewPending(t *testing.T) {
	from := calendar.NewDate(2022, time.July, 10)
	to := calendar.NewDate(2022, time.July, 14)
	now := time.Date(2022, time.March, 1, 10, 30, 0, 0, time.UTC)

	b, err := NewPending("bk-1", from, to, 25000, "cs_test_123", now)
	require.NoError(t, err)
	assert.False(t, b.Paid)
	assert.Equal(t, "cs_test_123", b.SessionID)
	assert.Empty(t, b.Email)
	assert.Equal(t, now, b.CreatedAt)

	_, err = NewPending("bk-2", to, from, 25000, "cs_test_123", now)
	assert.ErrorIs(t, err, ErrInvalidDates)

	_, err = NewPending("bk-3", from, to, 25000, "", now)
	assert.ErrorIs(t, err, ErrSessionRequired)

	_, err = NewPending("bk-4", from, to, 0, "cs_test_123", now)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestMarkPaid(t *testing.T) {
	from := calendar.NewDate(2022, time.July, 10)
	b, err := NewPending("bk-1", from, from.AddDays(2), 9000, "cs_test_123", time.Now())
	require.NoError(t, err)

	b.MarkPaid("guest@example.com", time.Now())
	assert.True(t, b.Paid)
	assert.Empty(t, b.SessionID, "confirmation clears the session id")
	assert.Equal(t, "guest@example.com", b.Email)
}

func TestDaysInclusiveOfBothEndpoints(t *testing.T) {
	b := &Booking{
		From: calendar.NewDate(2022, time.July, 30),
		To:   calendar.NewDate(2022, time.August, 2),
	}
	days := b.Days()
	require.Len(t, days, 4)
	assert.True(t, days[0].Equal(b.From))
	assert.True(t, days[3].Equal(b.To))

	single := &Booking{From: b.From, To: b.From}
	assert.Len(t, single.Days(), 1)
	assert.Equal(t, 0, single.Nights())
	assert.Equal(t, 3, b.Nights())
}

func TestBookedDates(t *testing.T) {
	first := &Booking{
		From: calendar.NewDate(2022, time.July, 1),
		To:   calendar.NewDate(2022, time.July, 3),
	}
	second := &Booking{
		From: calendar.NewDate(2022, time.July, 10),
		To:   calendar.NewDate(2022, time.July, 10),
	}

	dates := BookedDates([]*Booking{first, second})
	require.Len(t, dates, 4)
	assert.True(t, dates[0].Equal(calendar.NewDate(2022, time.July, 1)))
	assert.True(t, dates[3].Equal(calendar.NewDate(2022, time.July, 10)))

	assert.Nil(t, BookedDates(nil))
}
