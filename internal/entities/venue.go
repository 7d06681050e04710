package entities

import "github.com/SiEncan/ArenaKu/internal/db"

// FieldTypeSummary is the per-sport minimum price shown on venue cards.
type FieldTypeSummary struct {
	Type     string `json:"type"`
	MinPrice int    `json:"minPrice"`
}

type VenueSummary struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Address     string             `json:"address"`
	Description string             `json:"description"`
	ImageURLs   []string           `json:"imageUrls"`
	FieldTypes  []FieldTypeSummary `json:"fieldTypes"`
}

type VenueDetail struct {
	db.Venue
	Fields []db.Field `json:"fields"`
}

type FieldDetail struct {
	db.Field
	TimeSlots []db.TimeSlot `json:"timeSlots"`
}

type OwnedVenue struct {
	db.Venue
	Fields []FieldDetail `json:"fields"`
}

type TimeSlotInput struct {
	ID        string `json:"id"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Price     int    `json:"price"`
}

type CreateFieldRequest struct {
	VenueID     string          `json:"venueId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Surface     string          `json:"surface"`
	ImageURLs   []string        `json:"imageUrls"`
	TimeSlots   []TimeSlotInput `json:"timeSlots"`
}

type UpdateFieldRequest struct {
	Name      string          `json:"name"`
	TimeSlots []TimeSlotInput `json:"timeSlots"`
}

type CreateVenueRequest struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"imageUrls"`
}
