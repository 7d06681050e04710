package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SiEncan/ArenaKu/internal/entities"
	"github.com/SiEncan/ArenaKu/internal/service"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookings     *service.BookingService
	availability *service.AvailabilityService
}

func NewBookingHandler(bookings *service.BookingService, availability *service.AvailabilityService) *BookingHandler {
	return &BookingHandler{bookings: bookings, availability: availability}
}

// CheckAvailability lists a field's slots for a date with their booked status.
// GET /api/bookings/availability?fieldId=...&date=YYYY-MM-DD
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	fieldID := r.URL.Query().Get("fieldId")
	dateStr := r.URL.Query().Get("date")
	if fieldID == "" || dateStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fieldId dan date diperlukan"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Format tanggal tidak valid"})
		return
	}

	slots, err := h.availability.CheckAvailability(fieldID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.AvailabilityResponse{Slots: slots})
}

// CheckSlot is the advisory pre-payment probe. A taken slot is still a 200;
// only the final promotion enforces the conflict.
func (h *BookingHandler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	var req CheckSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FieldID == "" || req.TimeSlotID == "" || req.Date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fieldId, timeSlotId, dan date diperlukan"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Format tanggal tidak valid"})
		return
	}

	available, err := h.availability.CheckSlot(req.FieldID, req.TimeSlotID, date)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := entities.SlotCheckResponse{Success: true, Available: available, Message: "Slot masih tersedia"}
	if !available {
		resp.Message = "Slot sudah dipesan oleh orang lain"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.bookings.CreateBooking(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.GetBooking(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var body UpdateBookingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req := entities.UpdateBookingRequest{
		BookingID: body.BookingID,
		Status:    body.Status,
		SnapToken: body.SnapToken,
		OrderID:   body.OrderID,
		Payer:     entities.Payer{UserID: body.UserID},
	}
	if body.UserID == "" && (body.GuestName != "" || body.GuestEmail != "" || body.GuestPhone != "") {
		req.Payer.Guest = &entities.GuestContact{
			Name:  body.GuestName,
			Email: body.GuestEmail,
			Phone: body.GuestPhone,
		}
	}

	booking, err := h.bookings.UpdateBooking(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.DeleteBooking(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking berhasil dihapus"})
}

// CheckPending lets an interrupted checkout resume: it returns the payer's
// newest PENDING booking, cancelling it first if the payment window passed.
func (h *BookingHandler) CheckPending(w http.ResponseWriter, r *http.Request) {
	var req CheckPendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, expired, err := h.bookings.CheckPendingBooking(req.UserID, req.GuestEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	if expired {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "booking": nil, "message": "Booking expired and cancelled."})
		return
	}
	if booking == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "booking": nil, "message": "No pending booking found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "booking": booking})
}
