package domain

import (
	"sort"
	"time"
)

type Customer struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone,omitempty"`
}

type Booking struct {
	ID         string        `json:"id"`
	Customer   Customer      `json:"customer"`
	Items      []string      `json:"items"`
	StartDate  time.Time     `json:"start_date" validate:"required"`
	EndDate    time.Time     `json:"end_date" validate:"required"`
	TotalValue float64       `json:"total_value" validate:"gte=0"`
	Status     BookingStatus `json:"status"`
	Category   string        `json:"category,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// BookingPatch carries the fields of a partial update. Nil fields are left untouched.
type BookingPatch struct {
	Customer   *Customer
	Items      *[]string
	StartDate  *time.Time
	EndDate    *time.Time
	TotalValue *float64
	Status     *BookingStatus
	Category   *string
}

type BookingFilter struct {
	Statuses         []BookingStatus
	StartsOnOrBefore *time.Time
	EndsOnOrAfter    *time.Time
	CustomerName     string
}

// Overlaps reports whether [s1,e1] and [s2,e2] share at least one instant. Boundaries are inclusive.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

func (b *Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartDate, b.EndDate, start, end)
}

func (b *Booking) HasItem(itemID string) bool {
	for _, id := range b.Items {
		if id == itemID {
			return true
		}
	}
	return false
}

// Patch returns a patch that sets every field to the values of b.
func (b *Booking) Patch() BookingPatch {
	customer := b.Customer
	items := append([]string(nil), b.Items...)
	start, end := b.StartDate, b.EndDate
	total := b.TotalValue
	status := b.Status
	category := b.Category

	return BookingPatch{
		Customer:   &customer,
		Items:      &items,
		StartDate:  &start,
		EndDate:    &end,
		TotalValue: &total,
		Status:     &status,
		Category:   &category,
	}
}

// Apply writes every non-nil patch field onto b.
func (p BookingPatch) Apply(b *Booking) {
	if p.Customer != nil {
		b.Customer = *p.Customer
	}
	if p.Items != nil {
		b.Items = append([]string(nil), (*p.Items)...)
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.TotalValue != nil {
		b.TotalValue = *p.TotalValue
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
}

// NormalizeItems removes empty and duplicate ids and sorts the rest.
func NormalizeItems(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Strings(out)
	return out
}
