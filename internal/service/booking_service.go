package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/SiEncan/ArenaKu/internal/entities"
	httperrors "github.com/SiEncan/ArenaKu/internal/errors"
	"github.com/SiEncan/ArenaKu/internal/repository"
)

// TransactionFee is the flat checkout fee added to every slot price, in rupiah.
const TransactionFee = 5000

// PendingTimeout is how long a DRAFT/PENDING booking may exist before it is
// considered abandoned and cancelled.
const PendingTimeout = 15 * time.Minute

type BookingService struct {
	Bookings repository.BookingRepository
	Slots    repository.SlotRepository
	Venues   repository.VenueRepository
}

func NewBookingService(bookings repository.BookingRepository, slots repository.SlotRepository, venues repository.VenueRepository) *BookingService {
	return &BookingService{Bookings: bookings, Slots: slots, Venues: venues}
}

// ResolvePrice recomputes the authoritative total for a slot. The
// client-submitted total is only ever compared against this, never trusted.
func (s *BookingService) ResolvePrice(fieldID, timeSlotID string) (*db.TimeSlot, int, error) {
	field, err := s.Venues.GetField(fieldID)
	if err != nil {
		return nil, 0, err
	}
	if field == nil {
		return nil, 0, httperrors.NotFound("Lapangan tidak ditemukan")
	}

	slot, err := s.Slots.GetTimeSlot(timeSlotID)
	if err != nil {
		return nil, 0, err
	}
	if slot == nil {
		return nil, 0, httperrors.NotFound("Slot waktu tidak ditemukan")
	}
	if slot.FieldID != fieldID {
		return nil, 0, httperrors.BadRequest("timeSlotId tidak valid untuk lapangan ini")
	}
	return slot, slot.Price + TransactionFee, nil
}

// CreateBooking validates the slot and the client-submitted total, then
// creates a DRAFT reservation. Payer identity is attached later, when the
// draft is promoted to PENDING.
func (s *BookingService) CreateBooking(req entities.CreateBookingRequest) (*entities.BookingDetail, error) {
	if req.FieldID == "" || req.TimeSlotID == "" || req.Date == "" {
		return nil, httperrors.BadRequest("Input tidak lengkap: fieldId, timeSlotId, dan date diperlukan")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, httperrors.BadRequest("Format tanggal tidak valid")
	}

	_, total, err := s.ResolvePrice(req.FieldID, req.TimeSlotID)
	if err != nil {
		return nil, err
	}
	if req.TotalPrice != total {
		return nil, httperrors.BadRequest("Harga tidak valid")
	}

	booking := &db.Booking{
		FieldID:    req.FieldID,
		TimeSlotID: req.TimeSlotID,
		Date:       NormalizeDate(date),
		Status:     db.StatusDraft,
		TotalPrice: total,
	}
	if err := s.Bookings.CreateBooking(booking); err != nil {
		log.Printf("Error creating booking: %v", err)
		return nil, fmt.Errorf("gagal membuat booking: %w", err)
	}
	return s.Bookings.GetBookingDetailByID(booking.ID)
}

// UpdateBooking applies a client-requested transition. Only DRAFT -> PENDING
// (with payer and gateway session) and cancellation are accepted here; PAID is
// reserved for the webhook and the confirm poll.
func (s *BookingService) UpdateBooking(req entities.UpdateBookingRequest) (*db.Booking, error) {
	if req.BookingID == "" {
		return nil, httperrors.BadRequest("bookingId diperlukan")
	}

	booking, err := s.Bookings.GetBookingByID(req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, httperrors.NotFound("Booking tidak ditemukan")
	}

	switch req.Status {
	case db.StatusPending:
		if err := req.Payer.Validate(); err != nil {
			return nil, httperrors.BadRequest("Data user atau guest harus ada")
		}
		if booking.Status != db.StatusDraft {
			return nil, httperrors.BadRequest("Booking ini sudah tidak dapat diperbarui ke status PENDING")
		}
		err = s.Bookings.PromoteToPending(booking.ID, req.Payer, req.SnapToken, req.OrderID)
	case db.StatusCancelled:
		err = s.Bookings.UpdateStatus(booking.ID, db.StatusCancelled)
	default:
		return nil, httperrors.BadRequest("Status tidak valid")
	}

	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, httperrors.Conflict("Slot sudah dipesan oleh orang lain")
		}
		if errors.Is(err, repository.ErrNotUpdatable) {
			return nil, httperrors.BadRequest("Booking ini sudah tidak dapat diperbarui")
		}
		log.Printf("Gagal memperbarui booking %s: %v", booking.ID, err)
		return nil, err
	}
	return s.Bookings.GetBookingByID(booking.ID)
}

// GetBooking looks up by order id when the identifier carries the "order-"
// prefix, by booking id otherwise.
func (s *BookingService) GetBooking(idOrOrderID string) (*entities.BookingDetail, error) {
	var (
		detail *entities.BookingDetail
		err    error
	)
	if strings.Contains(idOrOrderID, "order") {
		detail, err = s.Bookings.GetBookingDetailByOrderID(idOrOrderID)
	} else {
		detail, err = s.Bookings.GetBookingDetailByID(idOrOrderID)
	}
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, httperrors.NotFound("Booking tidak ditemukan.")
	}
	return detail, nil
}

func (s *BookingService) DeleteBooking(id string) error {
	return s.Bookings.DeleteBooking(id)
}

// CheckPendingBooking returns the payer's newest PENDING booking so an
// interrupted checkout can resume. A booking past the timeout is cancelled on
// the spot; the cron sweep covers bookings that are never looked up again.
func (s *BookingService) CheckPendingBooking(userID, guestEmail string) (*entities.BookingDetail, bool, error) {
	if userID == "" && guestEmail == "" {
		return nil, false, httperrors.BadRequest("Missing userId or guestEmail")
	}

	booking, err := s.Bookings.LatestPendingForPayer(userID, guestEmail)
	if err != nil {
		return nil, false, err
	}
	if booking == nil {
		return nil, false, nil
	}

	if time.Since(booking.CreatedAt) > PendingTimeout {
		if err := s.Bookings.UpdateStatus(booking.ID, db.StatusCancelled); err != nil && !errors.Is(err, repository.ErrNotUpdatable) {
			return nil, false, err
		}
		return nil, true, nil
	}

	detail, err := s.Bookings.GetBookingDetailByID(booking.ID)
	if err != nil {
		return nil, false, err
	}
	return detail, false, nil
}

func (s *BookingService) ListBookingsForUser(userID string) ([]db.Booking, error) {
	return s.Bookings.ListForUser(userID)
}
