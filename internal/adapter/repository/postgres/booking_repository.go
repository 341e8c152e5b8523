package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

const exclusionViolation pq.ErrorCode = "23P01"

const selectBookings = `
	SELECT b.id, b.customer_name, b.customer_phone, b.start_date, b.end_date,
		b.total_value, b.status, b.category, b.created_at,
		COALESCE(array_agg(bi.item_id ORDER BY bi.item_id) FILTER (WHERE bi.item_id IS NOT NULL), '{}') AS items
	FROM bookings b
	LEFT JOIN booking_items bi ON bi.booking_id = b.id
`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type BookingRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db, now: time.Now}
}

func (r *BookingRepository) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	where, args := buildFilter(filter)

	query := selectBookings + where + `
	GROUP BY b.id
	ORDER BY b.start_date ASC, b.id ASC
	`

	bookings, err := scanBookings(ctx, r.db, query, args...)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}

	return bookings, nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := getBooking(ctx, r.db, id)
	if err != nil {
		return nil, storeErr("get booking", err)
	}

	return booking, nil
}

func (r *BookingRepository) InsertBooking(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = r.now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin insert booking", err)
	}

	defer tx.Rollback()

	queryHeader := `
	INSERT INTO bookings (id, customer_name, customer_phone, start_date, end_date, total_value, status, category, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.ExecContext(ctx, queryHeader,
		created.ID, created.Customer.Name, created.Customer.Phone, created.StartDate, created.EndDate,
		created.TotalValue, created.Status, created.Category, created.CreatedAt)
	if err != nil {
		return nil, storeErr("insert booking header", err)
	}

	if err := insertItems(ctx, tx, &created); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, storeErr("commit insert booking", err)
	}

	return &created, nil
}

// UpdateBooking applies the patch under a row lock so concurrent partial updates do not interleave.
func (r *BookingRepository) UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin update booking", err)
	}

	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("lock booking", err)
	}

	current, err := getBooking(ctx, tx, id)
	if err != nil {
		return nil, storeErr("load booking for update", err)
	}

	patch.Apply(current)

	query := `
	UPDATE bookings
	SET customer_name = $1, customer_phone = $2, start_date = $3, end_date = $4,
		total_value = $5, status = $6, category = $7
	WHERE id = $8
	`

	_, err = tx.ExecContext(ctx, query,
		current.Customer.Name, current.Customer.Phone, current.StartDate, current.EndDate,
		current.TotalValue, current.Status, current.Category, id)
	if err != nil {
		return nil, storeErr("update booking header", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_items WHERE booking_id = $1`, id); err != nil {
		return nil, storeErr("clear booking items", err)
	}

	if err := insertItems(ctx, tx, current); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, storeErr("commit update booking", err)
	}

	return current, nil
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete booking", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeErr("delete booking", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, booking *domain.Booking) error {
	if len(booking.Items) == 0 {
		return nil
	}

	queryItem := `
	INSERT INTO booking_items (booking_id, item_id, period, blocking)
	VALUES ($1, $2, tstzrange($3, $4, '[]'), $5)
	`

	stmt, err := tx.PrepareContext(ctx, queryItem)
	if err != nil {
		return storeErr("prepare booking item statement", err)
	}

	defer stmt.Close()

	blocking := booking.Status.IsBlocking()
	for _, itemID := range booking.Items {
		_, err := stmt.ExecContext(ctx, booking.ID, itemID, booking.StartDate, booking.EndDate, blocking)
		if err != nil {
			return storeErr(fmt.Sprintf("insert booking item %s", itemID), err)
		}
	}

	return nil
}

func getBooking(ctx context.Context, q queryer, id string) (*domain.Booking, error) {
	query := selectBookings + `
	WHERE b.id = $1
	GROUP BY b.id
	`

	bookings, err := scanBookings(ctx, q, query, id)
	if err != nil {
		return nil, err
	}

	if len(bookings) == 0 {
		return nil, domain.ErrNotFound
	}

	return &bookings[0], nil
}

func scanBookings(ctx context.Context, q queryer, query string, args ...any) ([]domain.Booking, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var items pq.StringArray
		if err := rows.Scan(
			&b.ID,
			&b.Customer.Name,
			&b.Customer.Phone,
			&b.StartDate,
			&b.EndDate,
			&b.TotalValue,
			&b.Status,
			&b.Category,
			&b.CreatedAt,
			&items,
		); err != nil {
			return nil, err
		}

		b.Items = []string(items)
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func buildFilter(filter domain.BookingFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		add("b.status = ANY($%d)", pq.Array(statuses))
	}

	if filter.StartsOnOrBefore != nil {
		add("b.start_date <= $%d", *filter.StartsOnOrBefore)
	}

	if filter.EndsOnOrAfter != nil {
		add("b.end_date >= $%d", *filter.EndsOnOrAfter)
	}

	if filter.CustomerName != "" {
		add("b.customer_name = $%d", filter.CustomerName)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// storeErr separates answers from the server from failures to reach it.
func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == exclusionViolation {
			return &domain.ConflictError{}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
