package api

import (
	"encoding/json"
	"net/http"

	"github.com/SiEncan/ArenaKu/internal/entities"
	"github.com/SiEncan/ArenaKu/internal/service"
)

type PaymentHandler struct {
	service *service.PaymentService
}

func NewPaymentHandler(s *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

// CreatePayment opens a hosted checkout session for a booking and returns its
// snap token. The optional bookingId ties the session to the draft row.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		entities.PaymentRequest
		BookingID string `json:"bookingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.CreatePayment(body.PaymentRequest, body.BookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// ConfirmPayment re-checks a transaction against the gateway. Used by the
// finish page as a fallback when the webhook has not landed yet.
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.ConfirmPayment(req.OrderID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment status synced"})
}

// HandleNotification is the gateway webhook. Midtrans retries on non-2xx, so
// anything already handled acknowledges with a 200.
func (h *PaymentHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	var notification entities.PaymentNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		http.Error(w, "Invalid notification payload", http.StatusBadRequest)
		return
	}

	if err := h.service.HandleNotification(notification); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification processed"})
}
