package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

var bookingColumns = []string{
	"id", "customer_name", "customer_phone", "start_date", "end_date",
	"total_value", "status", "category", "created_at", "items",
}

var (
	pickupAt  = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	returnAt  = time.Date(2024, 3, 3, 18, 0, 0, 0, time.UTC)
	createdAt = time.Date(2024, 2, 20, 9, 30, 0, 0, time.UTC)
)

func newMockRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewBookingRepository(db)
	repo.now = func() time.Time { return createdAt }

	return repo, mock
}

func storedBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:         "b1",
		Customer:   domain.Customer{Name: "Carlos Mendes", Phone: "+55 11 98888-0000"},
		Items:      []string{"chair-1", "table-1"},
		StartDate:  pickupAt,
		EndDate:    returnAt,
		TotalValue: 450,
		Status:     status,
		Category:   "Aniversário",
	}
}

func TestInsertBooking_WritesHeaderAndItemRanges(t *testing.T) {
	tests := []struct {
		status   domain.BookingStatus
		blocking bool
	}{
		{domain.StatusConfirmed, true},
		{domain.StatusPickedUp, true},
		{domain.StatusBudget, false},
		{domain.StatusReturned, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			repo, mock := newMockRepo(t)
			booking := storedBooking(tt.status)

			mock.ExpectBegin()
			mock.ExpectExec(`INSERT INTO bookings \(id, customer_name`).
				WithArgs("b1", "Carlos Mendes", "+55 11 98888-0000", pickupAt, returnAt, 450.0, string(tt.status), "Aniversário", createdAt).
				WillReturnResult(sqlmock.NewResult(0, 1))
			prep := mock.ExpectPrepare(`INSERT INTO booking_items .* tstzrange\(\$3, \$4, '\[\]'\)`)
			prep.ExpectExec().WithArgs("b1", "chair-1", pickupAt, returnAt, tt.blocking).WillReturnResult(sqlmock.NewResult(0, 1))
			prep.ExpectExec().WithArgs("b1", "table-1", pickupAt, returnAt, tt.blocking).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			saved, err := repo.InsertBooking(context.Background(), booking)

			require.NoError(t, err)
			assert.Equal(t, createdAt, saved.CreatedAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInsertBooking_WithoutItemsSkipsItemRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	booking := storedBooking(domain.StatusBudget)
	booking.Items = nil

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings \(`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := repo.InsertBooking(context.Background(), booking)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBooking_ExclusionViolationRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings \(`).WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare(`INSERT INTO booking_items`)
	prep.ExpectExec().WithArgs("b1", "chair-1", pickupAt, returnAt, true).
		WillReturnError(&pq.Error{Code: exclusionViolation, Constraint: "booking_items_no_overlap"})
	mock.ExpectRollback()

	saved, err := repo.InsertBooking(context.Background(), storedBooking(domain.StatusConfirmed))

	assert.Nil(t, saved)
	var conflict *domain.ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBooking_ConnectionFailureIsRetryable(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))

	_, err := repo.InsertBooking(context.Background(), storedBooking(domain.StatusConfirmed))

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBooking_LocksRowAndRewritesItems(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM bookings WHERE id = \$1 FOR UPDATE`).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("b1"))
	mock.ExpectQuery(`FROM bookings b\s+LEFT JOIN booking_items bi .*WHERE b.id = \$1`).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow("b1", "Carlos Mendes", "", pickupAt, returnAt, 300.0, "budget", "", createdAt, "{chair-1,table-1}"))
	mock.ExpectExec(`UPDATE bookings\s+SET customer_name = \$1`).
		WithArgs("Carlos Mendes", "", pickupAt, returnAt, 300.0, "confirmed", "", "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM booking_items WHERE booking_id = \$1`).
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	prep := mock.ExpectPrepare(`INSERT INTO booking_items`)
	prep.ExpectExec().WithArgs("b1", "chair-1", pickupAt, returnAt, true).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("b1", "sofa-2", pickupAt, returnAt, true).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status := domain.StatusConfirmed
	items := []string{"chair-1", "sofa-2"}
	updated, err := repo.UpdateBooking(context.Background(), "b1", domain.BookingPatch{Status: &status, Items: &items})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Equal(t, []string{"chair-1", "sofa-2"}, updated.Items)
	assert.Equal(t, createdAt, updated.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBooking_MissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM bookings WHERE id = \$1 FOR UPDATE`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.UpdateBooking(context.Background(), "ghost", domain.BookingPatch{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBooking_ExclusionViolationRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs("b1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("b1"))
	mock.ExpectQuery(`WHERE b.id = \$1`).WithArgs("b1").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow("b1", "Carlos Mendes", "", pickupAt, returnAt, 300.0, "budget", "", createdAt, "{chair-1}"))
	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM booking_items`).WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare(`INSERT INTO booking_items`)
	prep.ExpectExec().WithArgs("b1", "chair-1", pickupAt, returnAt, true).WillReturnError(&pq.Error{Code: exclusionViolation})
	mock.ExpectRollback()

	status := domain.StatusPickedUp
	_, err := repo.UpdateBooking(context.Background(), "b1", domain.BookingPatch{Status: &status})

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookings_ScansItemArrays(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE b.status = ANY\(\$1\) AND b.start_date <= \$2\s+GROUP BY b.id\s+ORDER BY b.start_date ASC`).
		WithArgs(pq.Array([]string{"confirmed", "picked_up"}), returnAt).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow("b1", "Carlos Mendes", "", pickupAt, returnAt, 450.0, "confirmed", "", createdAt, "{chair-1,table-1}").
			AddRow("b2", "Ana Souza", "", pickupAt, returnAt, 0.0, "picked_up", "", createdAt, "{}"))

	bookings, err := repo.ListBookings(context.Background(), domain.BookingFilter{
		Statuses:         domain.BlockingStatuses,
		StartsOnOrBefore: &returnAt,
	})

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, []string{"chair-1", "table-1"}, bookings[0].Items)
	assert.Equal(t, domain.StatusConfirmed, bookings[0].Status)
	assert.Empty(t, bookings[1].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookings_QueryFailureIsRetryable(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM bookings b`).WillReturnError(context.DeadlineExceeded)

	_, err := repo.ListBookings(context.Background(), domain.BookingFilter{})

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestGetBooking_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE b.id = \$1`).WithArgs("ghost").WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetBooking(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBooking(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1`).WithArgs("b1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1`).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteBooking(context.Background(), "b1"))
	assert.ErrorIs(t, repo.DeleteBooking(context.Background(), "ghost"), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
