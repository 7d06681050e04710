package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/SiEncan/ArenaKu/internal/entities"
	httperrors "github.com/SiEncan/ArenaKu/internal/errors"
	"github.com/SiEncan/ArenaKu/internal/repository"
	"github.com/google/uuid"
)

// Midtrans transaction statuses the lifecycle reacts to.
const (
	txSettlement = "settlement"
	txCapture    = "capture"
	txPending    = "pending"
	txExpire     = "expire"
	txCancel     = "cancel"
)

// PaymentService bridges bookings to the payment gateway: it creates hosted
// checkout sessions, reconciles their status, and applies webhook transitions.
type PaymentService struct {
	Bookings  repository.BookingRepository
	Users     repository.UserRepository
	Pricing   *BookingService
	Gateway   PaymentGateway
	Sender    Sender
	serverKey string
	baseURL   string
}

func NewPaymentService(bookings repository.BookingRepository, users repository.UserRepository,
	pricing *BookingService, gateway PaymentGateway, sender Sender, serverKey, baseURL string) *PaymentService {
	return &PaymentService{
		Bookings:  bookings,
		Users:     users,
		Pricing:   pricing,
		Gateway:   gateway,
		Sender:    sender,
		serverKey: serverKey,
		baseURL:   baseURL,
	}
}

// CreatePayment validates payer identity and price, creates a Snap session and
// returns its token together with a fresh order id. The session is recorded on
// the draft booking when the caller supplies its id.
func (s *PaymentService) CreatePayment(req entities.PaymentRequest, bookingID string) (*entities.PaymentSessionResponse, error) {
	if req.FieldID == "" || req.Price == 0 || req.VenueName == "" || req.FieldName == "" || req.Date == "" {
		return nil, httperrors.BadRequest("Missing required fields")
	}
	isGuest := req.UserID == ""
	if isGuest && (req.Name == "" || req.Email == "" || req.Phone == "") {
		return nil, httperrors.BadRequest("Data tamu (name, email, phone) wajib diisi")
	}

	slot, total, err := s.Pricing.ResolvePrice(req.FieldID, req.TimeSlotID)
	if err != nil {
		return nil, err
	}
	if req.Price != total {
		return nil, httperrors.BadRequest("Harga tidak valid")
	}

	name, email, phone := req.Name, req.Email, req.Phone
	if !isGuest {
		user, err := s.Users.GetByID(req.UserID)
		if err != nil {
			return nil, fmt.Errorf("gagal mengambil data user: %w", err)
		}
		if user == nil {
			return nil, httperrors.NotFound("User tidak ditemukan")
		}
		if user.Email == "" {
			return nil, httperrors.BadRequest("Email user tidak ditemukan")
		}
		name, email, phone = user.Name, user.Email, user.Phone
	}

	orderID := "order-" + uuid.NewString()
	order := entities.GatewayOrder{
		OrderID:       orderID,
		GrossAmount:   total,
		SlotPrice:     slot.Price,
		Fee:           TransactionFee,
		ItemID:        req.FieldID,
		ItemName:      fmt.Sprintf("%s - %s", req.VenueName, req.FieldName),
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: phone,
		FinishURL:     fmt.Sprintf("%s/payment/status/%s", s.baseURL, orderID),
	}

	snapToken, err := s.Gateway.CreateTransaction(order)
	if err != nil {
		log.Printf("Payment error: %v", err)
		return nil, fmt.Errorf("failed to create payment transaction: %w", err)
	}

	if bookingID != "" {
		if err := s.Bookings.AttachGatewaySession(bookingID, snapToken, orderID); err != nil {
			log.Printf("Gagal menyimpan sesi pembayaran pada booking %s: %v", bookingID, err)
		}
	}

	return &entities.PaymentSessionResponse{Success: true, SnapToken: snapToken, OrderID: orderID}, nil
}

// ConfirmPayment is the client-triggered reconciliation: it asks the gateway
// for the authoritative transaction status and applies the same transitions
// as the webhook.
func (s *PaymentService) ConfirmPayment(orderID string) error {
	if orderID == "" {
		return httperrors.BadRequest("orderId is required")
	}
	booking, err := s.Bookings.GetBookingByOrderID(orderID)
	if err != nil {
		return err
	}
	if booking == nil {
		return httperrors.NotFound("Booking not found")
	}

	status, err := s.Gateway.TransactionStatus(orderID)
	if err != nil {
		log.Printf("Error validating payment for %s: %v", orderID, err)
		return fmt.Errorf("error validating payment: %w", err)
	}

	s.applyTransition(booking, status.TransactionStatus, status.SettlementTime)
	return nil
}

// HandleNotification processes an asynchronous gateway notification. A
// notification for an unknown order id is acknowledged without error, since
// the booking may have been deleted.
func (s *PaymentService) HandleNotification(n entities.PaymentNotification) error {
	if !s.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		log.Printf("Invalid signature key for order %s", n.OrderID)
		return httperrors.Forbidden("Invalid signature key")
	}

	booking, err := s.Bookings.GetBookingByOrderID(n.OrderID)
	if err != nil {
		return err
	}
	if booking == nil {
		log.Printf("Notification received, booking not found for order %s (possibly deleted)", n.OrderID)
		return nil
	}

	var settlement *time.Time
	if t, err := time.Parse("2006-01-02 15:04:05", n.SettlementTime); err == nil {
		settlement = &t
	}
	s.applyTransition(booking, n.TransactionStatus, settlement)
	return nil
}

// VerifySignature recomputes SHA512(order_id + status_code + gross_amount +
// server_key) and compares it to the supplied signature in constant time.
func (s *PaymentService) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + s.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// applyTransition moves the booking according to the gateway status. PAID is
// terminal: the guarded repository writes turn any late regression into a
// no-op. Receipt delivery is best-effort and never fails the transition.
func (s *PaymentService) applyTransition(booking *db.Booking, txStatus string, settlement *time.Time) {
	switch txStatus {
	case txSettlement, txCapture:
		paidAt := time.Now().UTC()
		if settlement != nil {
			paidAt = *settlement
		}
		err := s.Bookings.MarkPaid(booking.ID, paidAt)
		if errors.Is(err, repository.ErrNotUpdatable) {
			return // already PAID, nothing to redo
		}
		if err != nil {
			log.Printf("DB error marking booking %s paid: %v", booking.ID, err)
			return
		}
		s.sendReceipt(booking)
	case txPending:
		err := s.Bookings.UpdateStatus(booking.ID, db.StatusPending)
		if err != nil && !errors.Is(err, repository.ErrNotUpdatable) {
			log.Printf("DB error updating booking %s to PENDING: %v", booking.ID, err)
		}
	case txExpire, txCancel:
		err := s.Bookings.UpdateStatus(booking.ID, db.StatusCancelled)
		if err != nil && !errors.Is(err, repository.ErrNotUpdatable) {
			log.Printf("DB error cancelling booking %s: %v", booking.ID, err)
		}
	default:
		log.Printf("Unhandled transaction status %q for order %s", txStatus, booking.OrderID)
	}
}

func (s *PaymentService) sendReceipt(booking *db.Booking) {
	detail, err := s.Bookings.GetBookingDetailByID(booking.ID)
	if err != nil || detail == nil {
		log.Printf("Could not load booking %s for receipt email: %v", booking.ID, err)
		return
	}

	email, phone := detail.GuestEmail, detail.GuestPhone
	if detail.UserID != "" {
		user, err := s.Users.GetByID(detail.UserID)
		if err != nil || user == nil {
			log.Printf("Could not resolve user %s for receipt email: %v", detail.UserID, err)
			return
		}
		email, phone = user.Email, user.Phone
	}

	s.Sender.SendBookingReceipt(*detail, email)
	if phone != "" {
		s.Sender.SendBookingSMS(*detail, phone)
	}
}
