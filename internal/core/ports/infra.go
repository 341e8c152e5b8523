package ports

import (
	"context"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

// ItemLocker serializes blocking submissions that touch the same items.
// The returned release func must be called once the write is done.
type ItemLocker interface {
	Lock(ctx context.Context, itemIDs []string) (release func(), err error)
}

// ItemCache keeps the item list used for display names. It is never authoritative.
type ItemCache interface {
	GetItems(ctx context.Context) ([]domain.Item, bool, error)
	SetItems(ctx context.Context, items []domain.Item) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *domain.Booking) error
}
