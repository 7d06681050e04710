package entities

// Slot availability statuses returned by GET /api/bookings/availability.
const (
	SlotAvailable = "AVAILABLE"
	SlotBooked    = "BOOKED"
)

type SlotAvailability struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Price     int    `json:"price"`
	Status    string `json:"status"`
}

type AvailabilityResponse struct {
	Slots []SlotAvailability `json:"slots"`
}

type SlotCheckResponse struct {
	Success   bool   `json:"success"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}
