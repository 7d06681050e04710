package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/SiEncan/ArenaKu/internal/entities"
	"github.com/SiEncan/ArenaKu/internal/repository"
)

// AvailabilityService resolves which of a field's recurring weekly slots are
// still open on a given calendar date. Read only, safe to call concurrently.
type AvailabilityService struct {
	Slots    repository.SlotRepository
	Bookings repository.BookingRepository
}

func NewAvailabilityService(slots repository.SlotRepository, bookings repository.BookingRepository) *AvailabilityService {
	return &AvailabilityService{Slots: slots, Bookings: bookings}
}

// NormalizeDate strips the time-of-day component so date comparisons happen at
// day granularity.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckAvailability maps the date to its day-of-week, then pairs that day's
// slots with the active bookings for the date. The two reads are independent
// and fetched concurrently. A field with no slots on that day yields an empty
// list, not an error.
func (s *AvailabilityService) CheckAvailability(fieldID string, date time.Time) ([]entities.SlotAvailability, error) {
	date = NormalizeDate(date)
	day := db.DayName(date)

	var (
		wg        sync.WaitGroup
		slots     []db.TimeSlot
		bookedIDs []string
		slotErr   error
		bookErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		slots, slotErr = s.Slots.ListSlotsForDay(fieldID, day)
	}()
	go func() {
		defer wg.Done()
		bookedIDs, bookErr = s.Bookings.ListActiveSlotIDs(fieldID, date)
	}()
	wg.Wait()

	if slotErr != nil {
		log.Printf("Error listing slots for field %s: %v", fieldID, slotErr)
		return nil, fmt.Errorf("internal error checking availability: %w", slotErr)
	}
	if bookErr != nil {
		log.Printf("Error listing active bookings for field %s: %v", fieldID, bookErr)
		return nil, fmt.Errorf("internal error checking availability: %w", bookErr)
	}

	booked := make(map[string]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	availability := make([]entities.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		status := entities.SlotAvailable
		if booked[slot.ID] {
			status = entities.SlotBooked
		}
		availability = append(availability, entities.SlotAvailability{
			ID:        slot.ID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Price:     slot.Price,
			Status:    status,
		})
	}
	return availability, nil
}

// CheckSlot is the advisory conflict-guard probe: true iff no PENDING or PAID
// booking holds the (field, slot, date) tuple. The authoritative check lives
// in the bookings unique index; callers must still handle ErrSlotTaken later.
func (s *AvailabilityService) CheckSlot(fieldID, timeSlotID string, date time.Time) (bool, error) {
	taken, err := s.Bookings.HasActiveBooking(fieldID, timeSlotID, NormalizeDate(date))
	if err != nil {
		log.Printf("Gagal memeriksa ketersediaan slot: %v", err)
		return false, fmt.Errorf("gagal memeriksa ketersediaan slot: %w", err)
	}
	return !taken, nil
}
