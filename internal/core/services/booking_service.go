package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/domain"
	"github.com/srgjo27/party_rental/internal/core/ports"
	"github.com/srgjo27/party_rental/internal/platform/metrics"
)

type BookingService struct {
	bookingRepo  ports.BookingRepository
	availability *AvailabilityService
	catalog      *CatalogService
	locker       ports.ItemLocker
	publisher    ports.EventPublisher
	lifecycle    domain.Lifecycle
	metrics      *metrics.Metrics
	log          *zap.Logger
	now          func() time.Time
}

func NewBookingService(
	bookingRepo ports.BookingRepository,
	availability *AvailabilityService,
	catalog *CatalogService,
	locker ports.ItemLocker,
	publisher ports.EventPublisher,
	lifecycle domain.Lifecycle,
	m *metrics.Metrics,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		availability: availability,
		catalog:      catalog,
		locker:       locker,
		publisher:    publisher,
		lifecycle:    lifecycle,
		metrics:      m,
		log:          log,
		now:          time.Now,
	}
}

// SubmitBooking creates the candidate when previous is nil and updates previous otherwise.
// Moving into a blocking status checks availability first and fails with a
// *domain.ConflictError, without writing, when any requested item is busy.
func (s *BookingService) SubmitBooking(ctx context.Context, candidate domain.Booking, previous *domain.Booking) (*domain.Booking, error) {
	booking := candidate
	booking.Items = domain.NormalizeItems(candidate.Items)

	from := s.lifecycle.Initial
	if previous != nil {
		from = previous.Status
		booking.ID = previous.ID
		booking.CreatedAt = previous.CreatedAt
	}

	if booking.Status == "" {
		booking.Status = from
	}

	if err := s.validateCandidate(&booking, from); err != nil {
		s.metrics.BookingSubmits.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if s.lifecycle.RequiresAvailabilityCheck(booking.Status) {
		release, err := s.locker.Lock(ctx, booking.Items)
		if err != nil {
			s.metrics.BookingSubmits.WithLabelValues("error").Inc()
			return nil, err
		}
		defer release()

		if err := s.ensureAvailable(ctx, &booking); err != nil {
			return nil, err
		}
	}

	saved, err := s.persist(ctx, &booking, previous)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.BookingSubmits.WithLabelValues("conflict").Inc()
			return nil, s.describeConflict(ctx, &booking)
		}

		s.metrics.BookingSubmits.WithLabelValues("error").Inc()
		return nil, err
	}

	eventType := domain.EventBookingCreated
	if previous != nil {
		s.metrics.BookingSubmits.WithLabelValues("updated").Inc()
		eventType = domain.EventBookingUpdated
		if previous.Status != saved.Status {
			eventType = domain.EventBookingStatusChanged
		}
	} else {
		s.metrics.BookingSubmits.WithLabelValues("created").Inc()
	}

	s.publish(ctx, eventType, saved)

	return saved, nil
}

// ChangeStatus is SubmitBooking with only the status of the stored booking changed.
func (s *BookingService) ChangeStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	previous, err := s.bookingRepo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate := *previous
	candidate.Status = status

	return s.SubmitBooking(ctx, candidate, previous)
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookingRepo.GetBooking(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	return s.bookingRepo.ListBookings(ctx, filter)
}

func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	booking, err := s.bookingRepo.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bookingRepo.DeleteBooking(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, domain.EventBookingDeleted, booking)
	return nil
}

func (s *BookingService) validateCandidate(booking *domain.Booking, from domain.BookingStatus) error {
	verr := &domain.ValidationError{}

	if err := validateStruct(booking); err != nil {
		var fieldErr *domain.ValidationError
		if !errors.As(err, &fieldErr) {
			return err
		}
		verr = fieldErr
	}

	if !booking.StartDate.IsZero() && !booking.EndDate.IsZero() && booking.StartDate.After(booking.EndDate) {
		verr.Add("end_date", "must not be before start_date")
	}

	switch {
	case !booking.Status.IsKnown():
		verr.Add("status", fmt.Sprintf("unknown status %q", booking.Status))
	case !s.lifecycle.CanTransition(from, booking.Status):
		verr.Add("status", fmt.Sprintf("cannot change from %s to %s", from, booking.Status))
	case booking.Status.IsBlocking() && len(booking.Items) == 0:
		verr.Add("items", fmt.Sprintf("are required for %s bookings", booking.Status))
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	return nil
}

func (s *BookingService) ensureAvailable(ctx context.Context, booking *domain.Booking) error {
	busy, err := s.availability.CheckAvailability(ctx, booking.Items, booking.StartDate, booking.EndDate, booking.ID)
	if err != nil {
		s.metrics.BookingSubmits.WithLabelValues("error").Inc()
		return err
	}

	if len(busy) == 0 {
		return nil
	}

	s.metrics.BookingSubmits.WithLabelValues("conflict").Inc()
	s.log.Info("Booking rejected, items busy",
		zap.String("booking_id", booking.ID),
		zap.Strings("busy_items", busy),
	)

	return s.conflictFor(ctx, busy)
}

// describeConflict names the items after the database rejected an overlapping write.
func (s *BookingService) describeConflict(ctx context.Context, booking *domain.Booking) error {
	busy, err := s.availability.CheckAvailability(ctx, booking.Items, booking.StartDate, booking.EndDate, booking.ID)
	if err != nil {
		s.log.Warn("Could not name items after exclusion violation",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
		return &domain.ConflictError{}
	}
	if len(busy) == 0 {
		return &domain.ConflictError{}
	}

	return s.conflictFor(ctx, busy)
}

func (s *BookingService) conflictFor(ctx context.Context, busy []string) error {
	names, err := s.catalog.ItemNames(ctx, busy)
	if err != nil {
		s.log.Warn("Could not resolve busy item names", zap.Error(err))
	}

	conflict := &domain.ConflictError{Items: make([]domain.BusyItem, 0, len(busy))}
	for _, id := range busy {
		conflict.Items = append(conflict.Items, domain.BusyItem{ID: id, Name: names[id]})
	}

	return conflict
}

func (s *BookingService) persist(ctx context.Context, booking *domain.Booking, previous *domain.Booking) (*domain.Booking, error) {
	if previous == nil {
		booking.ID = uuid.NewString()
		booking.CreatedAt = s.now().UTC()
		return s.bookingRepo.InsertBooking(ctx, booking)
	}

	return s.bookingRepo.UpdateBooking(ctx, previous.ID, booking.Patch())
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if err := s.publisher.PublishBookingEvent(ctx, eventType, booking); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.String("event_type", eventType),
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}
