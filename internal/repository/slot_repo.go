package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/lib/pq"
)

type SlotRepository interface {
	GetTimeSlot(id string) (*db.TimeSlot, error)
	ListSlotsForDay(fieldID, day string) ([]db.TimeSlot, error)
	ListSlotsForField(fieldID string) ([]db.TimeSlot, error)
	CreateTimeSlot(slot *db.TimeSlot) error
	UpdateTimeSlot(slot *db.TimeSlot) error
	DeleteTimeSlots(ids []string) error
}

type slotRepository struct {
	db *sql.DB
}

func NewSlotRepository(database *sql.DB) SlotRepository {
	return &slotRepository{db: database}
}

func (r *slotRepository) GetTimeSlot(id string) (*db.TimeSlot, error) {
	var ts db.TimeSlot
	err := r.db.QueryRow(`
		SELECT id, field_id, day, start_time, end_time, price
		FROM time_slots WHERE id = $1`, id).
		Scan(&ts.ID, &ts.FieldID, &ts.Day, &ts.StartTime, &ts.EndTime, &ts.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying time slot: %w", err)
	}
	return &ts, nil
}

func (r *slotRepository) ListSlotsForDay(fieldID, day string) ([]db.TimeSlot, error) {
	return r.listSlots(`
		SELECT id, field_id, day, start_time, end_time, price
		FROM time_slots
		WHERE field_id = $1 AND day = $2
		ORDER BY start_time ASC`, fieldID, day)
}

func (r *slotRepository) ListSlotsForField(fieldID string) ([]db.TimeSlot, error) {
	return r.listSlots(`
		SELECT id, field_id, day, start_time, end_time, price
		FROM time_slots
		WHERE field_id = $1
		ORDER BY day, start_time ASC`, fieldID)
}

func (r *slotRepository) listSlots(query string, args ...interface{}) ([]db.TimeSlot, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying time slots: %w", err)
	}
	defer rows.Close()

	var slots []db.TimeSlot
	for rows.Next() {
		var ts db.TimeSlot
		if err := rows.Scan(&ts.ID, &ts.FieldID, &ts.Day, &ts.StartTime, &ts.EndTime, &ts.Price); err != nil {
			return nil, fmt.Errorf("error scanning time slot: %w", err)
		}
		slots = append(slots, ts)
	}
	return slots, rows.Err()
}

func (r *slotRepository) CreateTimeSlot(slot *db.TimeSlot) error {
	query := `
		INSERT INTO time_slots (field_id, day, start_time, end_time, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return r.db.QueryRow(query, slot.FieldID, slot.Day, slot.StartTime, slot.EndTime, slot.Price).Scan(&slot.ID)
}

func (r *slotRepository) UpdateTimeSlot(slot *db.TimeSlot) error {
	_, err := r.db.Exec(`
		UPDATE time_slots SET day = $2, start_time = $3, end_time = $4, price = $5
		WHERE id = $1`, slot.ID, slot.Day, slot.StartTime, slot.EndTime, slot.Price)
	return err
}

func (r *slotRepository) DeleteTimeSlots(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(`DELETE FROM time_slots WHERE id = ANY($1)`, pq.Array(ids))
	return err
}
