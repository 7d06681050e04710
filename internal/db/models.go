package db

import "time"

// Booking statuses.
const (
	StatusDraft     = "DRAFT"
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
)

// User roles.
const (
	RoleCustomer = "CUSTOMER"
	RoleOwner    = "OWNER"
)

// dayNames is indexed by time.Weekday (Sunday = 0).
var dayNames = [7]string{"SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"}

// DayName returns the day-of-week enum value used by time_slots for a calendar date.
func DayName(date time.Time) string {
	return dayNames[date.Weekday()]
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Venue struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	ImageURLs   []string  `json:"imageUrls"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Field struct {
	ID          string   `json:"id"`
	VenueID     string   `json:"venueId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Surface     string   `json:"surface"`
	ImageURLs   []string `json:"imageUrls"`
}

type TimeSlot struct {
	ID        string `json:"id"`
	FieldID   string `json:"fieldId"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Price     int    `json:"price"`
}

type Booking struct {
	ID         string     `json:"id"`
	FieldID    string     `json:"fieldId"`
	TimeSlotID string     `json:"timeSlotId"`
	Date       time.Time  `json:"date"`
	Status     string     `json:"status"`
	TotalPrice int        `json:"totalPrice"`
	OrderID    string     `json:"orderId,omitempty"`
	SnapToken  string     `json:"snapToken,omitempty"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
	UserID     string     `json:"userId,omitempty"`
	GuestName  string     `json:"guestName,omitempty"`
	GuestEmail string     `json:"guestEmail,omitempty"`
	GuestPhone string     `json:"guestPhone,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type VerificationCode struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsUsed    bool      `json:"isUsed"`
}
