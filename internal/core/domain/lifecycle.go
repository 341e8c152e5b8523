package domain

// Lifecycle holds the permitted status transitions. A status may always be kept as is.
type Lifecycle struct {
	Initial     BookingStatus
	Transitions map[BookingStatus][]BookingStatus
}

// PermissiveLifecycle allows any assignable status to follow any known one,
// legacy cancelled bookings included.
func PermissiveLifecycle() Lifecycle {
	transitions := make(map[BookingStatus][]BookingStatus, len(statusTable))
	for from := range statusTable {
		transitions[from] = append([]BookingStatus(nil), AssignableStatuses...)
	}

	return Lifecycle{Initial: StatusBudget, Transitions: transitions}
}

// StrictLifecycle only moves forward through budget -> confirmed -> picked_up -> returned,
// with a confirmed booking allowed to fall back to a budget.
func StrictLifecycle() Lifecycle {
	return Lifecycle{
		Initial: StatusBudget,
		Transitions: map[BookingStatus][]BookingStatus{
			StatusBudget:    {StatusConfirmed},
			StatusConfirmed: {StatusBudget, StatusPickedUp},
			StatusPickedUp:  {StatusReturned},
			StatusReturned:  {},
		},
	}
}

// CanTransition reports whether a booking in from may be saved with to. Keeping
// a known status is always allowed, even one that can no longer be assigned.
func (l Lifecycle) CanTransition(from, to BookingStatus) bool {
	if !to.IsKnown() {
		return false
	}

	if from == to {
		return true
	}

	if !to.IsAssignable() {
		return false
	}

	for _, allowed := range l.Transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

// RequiresAvailabilityCheck reports whether moving into status must verify the items are free.
func (l Lifecycle) RequiresAvailabilityCheck(to BookingStatus) bool {
	return to.IsBlocking()
}
