package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "domehouse/internal/domain/booking"
	"domehouse/internal/domain/calendar"
)

func newBooking(t *testing.T, id, sessionID string) *domainbooking.Booking {
	t.Helper()
	b, err := domainbooking.NewPending(id,
		calendar.NewDate(2022, time.July, 10),
		calendar.NewDate(2022, time.July, 12),
		9000, sessionID, time.Now())
	require.NoError(t, err)
	return b
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, repo.Create(ctx, newBooking(t, "bk-1", "cs_1")))
	require.NoError(t, repo.Create(ctx, newBooking(t, "bk-2", "cs_2")))

	all, err = repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "bk-1", all[0].ID, "insertion order preserved")

	found, err := repo.BySession(ctx, "cs_2")
	require.NoError(t, err)
	assert.Equal(t, "bk-2", found.ID)

	_, err = repo.BySession(ctx, "cs_missing")
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)

	_, err = repo.BySession(ctx, "")
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	require.NoError(t, repo.Create(ctx, newBooking(t, "bk-1", "cs_1")))

	matched, err := repo.ConfirmPayment(ctx, "cs_1", "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Paid)
	assert.Empty(t, all[0].SessionID)
	assert.Equal(t, "guest@example.com", all[0].Email)

	// Redelivery: the session id is gone, nothing matches.
	matched, err = repo.ConfirmPayment(ctx, "cs_1", "guest@example.com")
	require.NoError(t, err)
	assert.Zero(t, matched)

	// An empty session id must never match cleared rows.
	matched, err = repo.ConfirmPayment(ctx, "", "guest@example.com")
	require.NoError(t, err)
	assert.Zero(t, matched)
}

func TestRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	require.NoError(t, repo.Create(ctx, newBooking(t, "bk-1", "cs_1")))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	all[0].Paid = true

	again, err := repo.All(ctx)
	require.NoError(t, err)
	assert.False(t, again[0].Paid, "callers cannot mutate stored rows")
}
