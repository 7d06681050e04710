package api

import "github.com/SiEncan/ArenaKu/internal/db"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  *db.User `json:"user"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type SendCodeRequest struct {
	Email string `json:"email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type CheckSlotRequest struct {
	FieldID    string `json:"fieldId"`
	TimeSlotID string `json:"timeSlotId"`
	Date       string `json:"date"`
}

type CheckPendingRequest struct {
	UserID     string `json:"userId"`
	GuestEmail string `json:"guestEmail"`
}

// UpdateBookingBody is the wire shape of a booking transition: the target
// status plus, for the PENDING promotion, payer identity and gateway session.
type UpdateBookingBody struct {
	BookingID  string `json:"bookingId"`
	Status     string `json:"status"`
	SnapToken  string `json:"snapToken"`
	OrderID    string `json:"orderId"`
	UserID     string `json:"userId"`
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
	GuestPhone string `json:"guestPhone"`
}

type ConfirmPaymentRequest struct {
	OrderID string `json:"orderId"`
}
