package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/domain"
	"github.com/srgjo27/party_rental/internal/core/ports"
	"github.com/srgjo27/party_rental/internal/platform/metrics"
)

type DoubleBooking struct {
	ItemID        string `json:"item_id"`
	FirstBooking  string `json:"first_booking"`
	SecondBooking string `json:"second_booking"`
}

// AuditService looks for blocking bookings that ended up sharing an item
// over overlapping periods, which write-time checks are meant to prevent.
type AuditService struct {
	bookingRepo ports.BookingRepository
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewAuditService(bookingRepo ports.BookingRepository, m *metrics.Metrics, log *zap.Logger) *AuditService {
	return &AuditService{bookingRepo: bookingRepo, metrics: m, log: log}
}

func (s *AuditService) FindDoubleBookings(ctx context.Context) ([]DoubleBooking, error) {
	bookings, err := s.bookingRepo.ListBookings(ctx, domain.BookingFilter{Statuses: domain.BlockingStatuses})
	if err != nil {
		return nil, err
	}

	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].StartDate.Equal(bookings[j].StartDate) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].StartDate.Before(bookings[j].StartDate)
	})

	var found []DoubleBooking
	for i := range bookings {
		a := &bookings[i]
		for j := i + 1; j < len(bookings); j++ {
			b := &bookings[j]
			// sorted by start: nothing further can overlap a
			if b.StartDate.After(a.EndDate) {
				break
			}

			for _, itemID := range a.Items {
				if b.HasItem(itemID) {
					found = append(found, DoubleBooking{ItemID: itemID, FirstBooking: a.ID, SecondBooking: b.ID})
				}
			}
		}
	}

	return found, nil
}

func (s *AuditService) RunBackgroundAudit(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("Double-booking audit started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Double-booking audit stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *AuditService) runOnce(ctx context.Context) {
	found, err := s.FindDoubleBookings(ctx)
	if err != nil {
		s.log.Error("Double-booking audit failed", zap.Error(err))
		return
	}

	s.metrics.DoubleBookings.Set(float64(len(found)))

	for _, d := range found {
		s.log.Warn("Item double-booked",
			zap.String("item_id", d.ItemID),
			zap.String("first_booking", d.FirstBooking),
			zap.String("second_booking", d.SecondBooking),
		)
	}
}
