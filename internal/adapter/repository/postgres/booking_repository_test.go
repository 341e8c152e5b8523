package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

func TestBuildFilter(t *testing.T) {
	end := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	where, args := buildFilter(domain.BookingFilter{
		Statuses:         domain.BlockingStatuses,
		StartsOnOrBefore: &end,
		CustomerName:     "Ana",
	})

	assert.Equal(t, "WHERE b.status = ANY($1) AND b.start_date <= $2 AND b.customer_name = $3", where)
	if assert.Len(t, args, 3) {
		assert.Equal(t, pq.Array([]string{"confirmed", "picked_up"}), args[0])
		assert.Equal(t, end, args[1])
		assert.Equal(t, "Ana", args[2])
	}
}

func TestBuildFilter_Empty(t *testing.T) {
	where, args := buildFilter(domain.BookingFilter{})

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestStoreErr(t *testing.T) {
	t.Run("exclusion violation becomes a conflict", func(t *testing.T) {
		err := storeErr("insert", &pq.Error{Code: exclusionViolation})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("server errors are passed through", func(t *testing.T) {
		err := storeErr("insert", &pq.Error{Code: "23502", Message: "null value"})
		assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.Contains(t, err.Error(), "insert")
	})

	t.Run("connection failures are retryable", func(t *testing.T) {
		err := storeErr("list bookings", context.DeadlineExceeded)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("not found is kept", func(t *testing.T) {
		err := storeErr("get booking", domain.ErrNotFound)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
