package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository interface {
	GetStaleBookingIDs(before time.Time) ([]string, error)
	CancelBookings(ids []string) (int64, error)
}

type jobRepository struct {
	db *sql.DB
}

func NewJobRepository(database *sql.DB) JobRepository {
	return &jobRepository{db: database}
}

// GetStaleBookingIDs returns DRAFT and PENDING bookings created before the
// cutoff that never reached PAID.
func (r *jobRepository) GetStaleBookingIDs(before time.Time) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT id FROM bookings
		WHERE status IN ('DRAFT', 'PENDING') AND created_at < $1`, before)
	if err != nil {
		return nil, fmt.Errorf("error querying stale bookings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *jobRepository) CancelBookings(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.db.Exec(`
		UPDATE bookings SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = ANY($1) AND status <> 'PAID'`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error cancelling stale bookings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
		return 0, nil
	}
	return rowsAffected, nil
}
