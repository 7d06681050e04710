package entities

import "errors"

// GuestContact holds the identity of an unregistered payer.
type GuestContact struct {
	Name  string `json:"guestName"`
	Email string `json:"guestEmail"`
	Phone string `json:"guestPhone"`
}

// Payer is a tagged variant: a booking is paid for either by a registered
// user (UserID set) or by a guest (Guest set), never both.
type Payer struct {
	UserID string
	Guest  *GuestContact
}

var ErrPayerIncomplete = errors.New("data user atau guest harus ada")

func (p Payer) IsGuest() bool {
	return p.UserID == "" && p.Guest != nil
}

// Validate enforces the exactly-one rule required before a booking leaves DRAFT.
func (p Payer) Validate() error {
	if p.UserID != "" {
		return nil
	}
	if p.Guest == nil || p.Guest.Name == "" || p.Guest.Email == "" || p.Guest.Phone == "" {
		return ErrPayerIncomplete
	}
	return nil
}
