package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/SiEncan/ArenaKu/internal/entities"
	"github.com/lib/pq"
)

var (
	// ErrSlotTaken surfaces the uniq_active_booking index: another PENDING or
	// PAID booking already holds the (field, slot, date) tuple.
	ErrSlotTaken = errors.New("slot sudah dipesan oleh orang lain")
	// ErrNotUpdatable means the row exists but its status guard rejected the write.
	ErrNotUpdatable = errors.New("booking status can no longer change")
)

type BookingRepository interface {
	CreateBooking(b *db.Booking) error
	GetBookingByID(id string) (*db.Booking, error)
	GetBookingByOrderID(orderID string) (*db.Booking, error)
	GetBookingDetailByID(id string) (*entities.BookingDetail, error)
	GetBookingDetailByOrderID(orderID string) (*entities.BookingDetail, error)
	ListActiveSlotIDs(fieldID string, date time.Time) ([]string, error)
	HasActiveBooking(fieldID, timeSlotID string, date time.Time) (bool, error)
	PromoteToPending(id string, payer entities.Payer, snapToken, orderID string) error
	AttachGatewaySession(id, snapToken, orderID string) error
	UpdateStatus(id, status string) error
	MarkPaid(id string, paidAt time.Time) error
	DeleteBooking(id string) error
	LatestPendingForPayer(userID, guestEmail string) (*db.Booking, error)
	ListForUser(userID string) ([]db.Booking, error)
}

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(database *sql.DB) BookingRepository {
	return &bookingRepository{db: database}
}

func (r *bookingRepository) CreateBooking(b *db.Booking) error {
	query := `
		INSERT INTO bookings (field_id, time_slot_id, date, status, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, b.FieldID, b.TimeSlotID, b.Date.Format("2006-01-02"), b.Status, b.TotalPrice).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

const bookingColumns = `
	id, field_id, COALESCE(time_slot_id::text, ''), date, status, total_price,
	COALESCE(order_id, ''), COALESCE(snap_token, ''), paid_at,
	COALESCE(user_id::text, ''), COALESCE(guest_name, ''), COALESCE(guest_email, ''), COALESCE(guest_phone, ''),
	created_at, updated_at`

func (r *bookingRepository) GetBookingByID(id string) (*db.Booking, error) {
	return r.getBooking(`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *bookingRepository) GetBookingByOrderID(orderID string) (*db.Booking, error) {
	return r.getBooking(`SELECT `+bookingColumns+` FROM bookings WHERE order_id = $1`, orderID)
}

func (r *bookingRepository) getBooking(query string, arg interface{}) (*db.Booking, error) {
	var b db.Booking
	err := r.db.QueryRow(query, arg).Scan(
		&b.ID, &b.FieldID, &b.TimeSlotID, &b.Date, &b.Status, &b.TotalPrice,
		&b.OrderID, &b.SnapToken, &b.PaidAt,
		&b.UserID, &b.GuestName, &b.GuestEmail, &b.GuestPhone,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return &b, nil
}

const bookingDetailQuery = `
	SELECT
		b.id, v.name, f.name, b.field_id, COALESCE(b.time_slot_id::text, ''),
		b.date, COALESCE(ts.start_time, ''), COALESCE(ts.end_time, ''), COALESCE(ts.price, 0),
		b.total_price, b.status, COALESCE(b.snap_token, ''), COALESCE(b.order_id, ''), b.paid_at,
		COALESCE(b.user_id::text, ''), COALESCE(b.guest_name, ''), COALESCE(b.guest_email, ''), COALESCE(b.guest_phone, ''),
		b.created_at
	FROM bookings b
	JOIN fields f ON f.id = b.field_id
	JOIN venues v ON v.id = f.venue_id
	LEFT JOIN time_slots ts ON ts.id = b.time_slot_id`

func (r *bookingRepository) GetBookingDetailByID(id string) (*entities.BookingDetail, error) {
	return r.getDetail(bookingDetailQuery+` WHERE b.id = $1`, id)
}

func (r *bookingRepository) GetBookingDetailByOrderID(orderID string) (*entities.BookingDetail, error) {
	return r.getDetail(bookingDetailQuery+` WHERE b.order_id = $1`, orderID)
}

func (r *bookingRepository) getDetail(query string, arg interface{}) (*entities.BookingDetail, error) {
	var d entities.BookingDetail
	err := r.db.QueryRow(query, arg).Scan(
		&d.ID, &d.VenueName, &d.FieldName, &d.FieldID, &d.TimeSlotID,
		&d.Date, &d.StartTime, &d.EndTime, &d.Price,
		&d.TotalPrice, &d.Status, &d.SnapToken, &d.OrderID, &d.PaidAt,
		&d.UserID, &d.GuestName, &d.GuestEmail, &d.GuestPhone,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking detail: %w", err)
	}
	return &d, nil
}

func (r *bookingRepository) ListActiveSlotIDs(fieldID string, date time.Time) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT time_slot_id FROM bookings
		WHERE field_id = $1 AND date = $2 AND time_slot_id IS NOT NULL
		  AND status IN ('PENDING', 'PAID')`, fieldID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("error querying active bookings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booked slot id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *bookingRepository) HasActiveBooking(fieldID, timeSlotID string, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE field_id = $1 AND time_slot_id = $2 AND date = $3
			  AND status IN ('PENDING', 'PAID')
		)`, fieldID, timeSlotID, date.Format("2006-01-02")).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking active booking: %w", err)
	}
	return exists, nil
}

// PromoteToPending attaches the payer and gateway session and moves a DRAFT
// booking to PENDING. The status predicate keeps PAID and CANCELLED rows
// untouched; the partial unique index turns a lost race into ErrSlotTaken.
func (r *bookingRepository) PromoteToPending(id string, payer entities.Payer, snapToken, orderID string) error {
	var guestName, guestEmail, guestPhone string
	if payer.Guest != nil {
		guestName, guestEmail, guestPhone = payer.Guest.Name, payer.Guest.Email, payer.Guest.Phone
	}
	result, err := r.db.Exec(`
		UPDATE bookings
		SET status = 'PENDING',
			user_id = NULLIF($2, '')::uuid,
			guest_name = NULLIF($3, ''),
			guest_email = NULLIF($4, ''),
			guest_phone = NULLIF($5, ''),
			snap_token = NULLIF($6, ''),
			order_id = NULLIF($7, ''),
			updated_at = NOW()
		WHERE id = $1 AND status = 'DRAFT'`,
		id, payer.UserID, guestName, guestEmail, guestPhone, snapToken, orderID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(result)
}

// AttachGatewaySession records the gateway session on a booking that has not
// reached a terminal state yet.
func (r *bookingRepository) AttachGatewaySession(id, snapToken, orderID string) error {
	result, err := r.db.Exec(`
		UPDATE bookings
		SET snap_token = NULLIF($2, ''), order_id = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1 AND status IN ('DRAFT', 'PENDING')`, id, snapToken, orderID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *bookingRepository) UpdateStatus(id, status string) error {
	result, err := r.db.Exec(`
		UPDATE bookings SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'PAID'`, id, status)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(result)
}

func (r *bookingRepository) MarkPaid(id string, paidAt time.Time) error {
	result, err := r.db.Exec(`
		UPDATE bookings SET status = 'PAID', paid_at = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'PAID'`, id, paidAt)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(result)
}

func (r *bookingRepository) DeleteBooking(id string) error {
	_, err := r.db.Exec(`DELETE FROM bookings WHERE id = $1`, id)
	return err
}

func (r *bookingRepository) LatestPendingForPayer(userID, guestEmail string) (*db.Booking, error) {
	if userID != "" {
		return r.getBooking(`SELECT `+bookingColumns+` FROM bookings
			WHERE user_id = $1 AND status = 'PENDING'
			ORDER BY created_at DESC LIMIT 1`, userID)
	}
	return r.getBooking(`SELECT `+bookingColumns+` FROM bookings
		WHERE guest_email = $1 AND status = 'PENDING'
		ORDER BY created_at DESC LIMIT 1`, guestEmail)
}

func (r *bookingRepository) ListForUser(userID string) ([]db.Booking, error) {
	rows, err := r.db.Query(`SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying user bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		err := rows.Scan(
			&b.ID, &b.FieldID, &b.TimeSlotID, &b.Date, &b.Status, &b.TotalPrice,
			&b.OrderID, &b.SnapToken, &b.PaidAt,
			&b.UserID, &b.GuestName, &b.GuestEmail, &b.GuestPhone,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrSlotTaken
	}
	return err
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotUpdatable
	}
	return nil
}
