package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

func TestStatusTable(t *testing.T) {
	assert.True(t, domain.StatusConfirmed.IsBlocking())
	assert.True(t, domain.StatusPickedUp.IsBlocking())
	assert.False(t, domain.StatusBudget.IsBlocking())
	assert.False(t, domain.StatusReturned.IsBlocking())
	assert.False(t, domain.StatusCancelled.IsBlocking())

	assert.False(t, domain.StatusCancelled.IsAssignable())
	assert.Equal(t, "Cancelado", domain.StatusCancelled.Label())
	assert.Equal(t, "Reservado", domain.StatusConfirmed.Label())
	assert.Equal(t, "lost", domain.BookingStatus("lost").Label())

	_, ok := domain.BookingStatus("lost").Info()
	assert.False(t, ok)
}

func TestPermissiveLifecycle(t *testing.T) {
	l := domain.PermissiveLifecycle()

	assert.Equal(t, domain.StatusBudget, l.Initial)
	for _, from := range domain.AssignableStatuses {
		for _, to := range domain.AssignableStatuses {
			assert.True(t, l.CanTransition(from, to), "%s -> %s", from, to)
		}
		assert.False(t, l.CanTransition(from, domain.StatusCancelled))
	}
}

func TestStrictLifecycle(t *testing.T) {
	l := domain.StrictLifecycle()

	tests := []struct {
		from, to domain.BookingStatus
		want     bool
	}{
		{domain.StatusBudget, domain.StatusConfirmed, true},
		{domain.StatusBudget, domain.StatusPickedUp, false},
		{domain.StatusConfirmed, domain.StatusBudget, true},
		{domain.StatusConfirmed, domain.StatusPickedUp, true},
		{domain.StatusPickedUp, domain.StatusReturned, true},
		{domain.StatusPickedUp, domain.StatusConfirmed, false},
		{domain.StatusReturned, domain.StatusConfirmed, false},
		{domain.StatusReturned, domain.StatusReturned, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, l.CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRequiresAvailabilityCheck(t *testing.T) {
	l := domain.PermissiveLifecycle()

	assert.True(t, l.RequiresAvailabilityCheck(domain.StatusConfirmed))
	assert.True(t, l.RequiresAvailabilityCheck(domain.StatusPickedUp))
	assert.False(t, l.RequiresAvailabilityCheck(domain.StatusBudget))
	assert.False(t, l.RequiresAvailabilityCheck(domain.StatusReturned))
}

func TestCancelledBookingsCanStillMove(t *testing.T) {
	permissive := domain.PermissiveLifecycle()

	for _, to := range domain.AssignableStatuses {
		assert.True(t, permissive.CanTransition(domain.StatusCancelled, to), "cancelled -> %s", to)
	}
	assert.True(t, permissive.CanTransition(domain.StatusCancelled, domain.StatusCancelled))
	assert.True(t, domain.StrictLifecycle().CanTransition(domain.StatusCancelled, domain.StatusCancelled))
	assert.False(t, domain.StrictLifecycle().CanTransition(domain.StatusCancelled, domain.StatusConfirmed))
}

func TestUnknownStatusIsNeverAllowed(t *testing.T) {
	l := domain.PermissiveLifecycle()

	assert.False(t, domain.BookingStatus("lost").IsKnown())
	assert.True(t, domain.StatusCancelled.IsKnown())
	assert.False(t, l.CanTransition("lost", "lost"))
	assert.False(t, l.CanTransition(domain.StatusBudget, "lost"))
}
