package entities

import "time"

// BookingDetail is the joined view returned to clients: the booking row plus
// the venue/field/slot names the UI renders.
type BookingDetail struct {
	ID         string     `json:"id"`
	VenueName  string     `json:"venueName"`
	FieldName  string     `json:"fieldName"`
	FieldID    string     `json:"fieldId"`
	TimeSlotID string     `json:"timeSlotId"`
	Date       time.Time  `json:"date"`
	StartTime  string     `json:"startTime"`
	EndTime    string     `json:"endTime"`
	Price      int        `json:"price"`
	TotalPrice int        `json:"totalPrice"`
	Status     string     `json:"status"`
	SnapToken  string     `json:"snapToken,omitempty"`
	OrderID    string     `json:"orderId,omitempty"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
	UserID     string     `json:"userId,omitempty"`
	GuestName  string     `json:"guestName,omitempty"`
	GuestEmail string     `json:"guestEmail,omitempty"`
	GuestPhone string     `json:"guestPhone,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ContactEmail resolves the address a receipt should go to.
func (b BookingDetail) ContactEmail(registeredEmail string) string {
	if b.GuestEmail != "" {
		return b.GuestEmail
	}
	return registeredEmail
}

type CreateBookingRequest struct {
	FieldID    string `json:"fieldId"`
	TimeSlotID string `json:"timeSlotId"`
	Date       string `json:"date"`
	TotalPrice int    `json:"totalPrice"`
}

type UpdateBookingRequest struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
	SnapToken string `json:"snapToken"`
	OrderID   string `json:"orderId"`
	Payer     Payer  `json:"-"`
}
