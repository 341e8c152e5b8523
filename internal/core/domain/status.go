package domain

type BookingStatus string

const (
	StatusBudget    BookingStatus = "budget"
	StatusConfirmed BookingStatus = "confirmed"
	StatusPickedUp  BookingStatus = "picked_up"
	StatusReturned  BookingStatus = "returned"

	// StatusCancelled only exists for displaying legacy records. It can not be assigned.
	StatusCancelled BookingStatus = "cancelled"
)

type StatusInfo struct {
	Label      string
	Blocking   bool
	Assignable bool
}

var statusTable = map[BookingStatus]StatusInfo{
	StatusBudget:    {Label: "Orçamento", Blocking: false, Assignable: true},
	StatusConfirmed: {Label: "Reservado", Blocking: true, Assignable: true},
	StatusPickedUp:  {Label: "Retirado", Blocking: true, Assignable: true},
	StatusReturned:  {Label: "Finalizado", Blocking: false, Assignable: true},
	StatusCancelled: {Label: "Cancelado", Blocking: false, Assignable: false},
}

// AssignableStatuses lists the lifecycle statuses in workflow order.
var AssignableStatuses = []BookingStatus{StatusBudget, StatusConfirmed, StatusPickedUp, StatusReturned}

// BlockingStatuses are the statuses that reserve physical items.
var BlockingStatuses = []BookingStatus{StatusConfirmed, StatusPickedUp}

func (s BookingStatus) Info() (StatusInfo, bool) {
	info, ok := statusTable[s]
	return info, ok
}

func (s BookingStatus) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.Label
	}
	return string(s)
}

func (s BookingStatus) IsKnown() bool {
	_, ok := statusTable[s]
	return ok
}

func (s BookingStatus) IsBlocking() bool {
	return statusTable[s].Blocking
}

func (s BookingStatus) IsAssignable() bool {
	return statusTable[s].Assignable
}
