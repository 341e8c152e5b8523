package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/domain"
	"github.com/srgjo27/party_rental/internal/core/ports"
	"github.com/srgjo27/party_rental/internal/platform/metrics"
)

type AvailabilityService struct {
	bookingRepo ports.BookingRepository
	timeout     time.Duration
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewAvailabilityService(bookingRepo ports.BookingRepository, timeout time.Duration, m *metrics.Metrics, log *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		bookingRepo: bookingRepo,
		timeout:     timeout,
		metrics:     m,
		log:         log,
	}
}

// CheckAvailability returns the requested items held by another blocking booking
// that overlaps [start, end]. Boundaries are inclusive, so a booking ending at the
// exact instant the candidate starts still counts. The booking being edited is
// passed as excludeBookingID and never conflicts with itself.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, itemIDs []string, start, end time.Time, excludeBookingID string) ([]string, error) {
	if start.After(end) {
		return nil, domain.NewValidationError("end_date", "must not be before start_date")
	}

	requested := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		requested[id] = struct{}{}
	}

	if len(requested) == 0 {
		return []string{}, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	began := time.Now()
	candidates, err := s.bookingRepo.ListBookings(queryCtx, domain.BookingFilter{
		Statuses:         domain.BlockingStatuses,
		StartsOnOrBefore: &end,
	})
	s.metrics.CheckDuration.Observe(time.Since(began).Seconds())

	if err != nil {
		s.metrics.AvailabilityChecks.WithLabelValues("error").Inc()
		s.log.Error("Availability check could not read bookings", zap.Error(err))

		if !errors.Is(err, domain.ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return nil, err
	}

	busySet := make(map[string]struct{})
	for i := range candidates {
		booking := &candidates[i]
		if excludeBookingID != "" && booking.ID == excludeBookingID {
			continue
		}

		// the store only filtered on start; finish the overlap test here
		if !booking.Status.IsBlocking() || !booking.Overlaps(start, end) {
			continue
		}

		for _, itemID := range booking.Items {
			if _, ok := requested[itemID]; ok {
				busySet[itemID] = struct{}{}
			}
		}
	}

	busy := make([]string, 0, len(busySet))
	for id := range busySet {
		busy = append(busy, id)
	}
	sort.Strings(busy)

	if len(busy) > 0 {
		s.metrics.AvailabilityChecks.WithLabelValues("busy").Inc()
	} else {
		s.metrics.AvailabilityChecks.WithLabelValues("available").Inc()
	}

	return busy, nil
}
