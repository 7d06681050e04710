package service

import (
	"fmt"
	"log"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/SiEncan/ArenaKu/internal/entities"
	httperrors "github.com/SiEncan/ArenaKu/internal/errors"
	"github.com/SiEncan/ArenaKu/internal/repository"
)

// VenueService covers the owner dashboard: venues, fields and their slot
// catalogs. Every mutation verifies the caller owns the touched venue.
type VenueService struct {
	Venues repository.VenueRepository
	Slots  repository.SlotRepository
}

func NewVenueService(venues repository.VenueRepository, slots repository.SlotRepository) *VenueService {
	return &VenueService{Venues: venues, Slots: slots}
}

func (s *VenueService) ListVenues() ([]entities.VenueSummary, error) {
	return s.Venues.ListVenues()
}

func (s *VenueService) GetVenue(id string) (*entities.VenueDetail, error) {
	venue, err := s.Venues.GetVenue(id)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, httperrors.NotFound("Venue tidak ditemukan")
	}
	return venue, nil
}

func (s *VenueService) ListFieldsForVenue(venueID string) ([]db.Field, error) {
	owner, err := s.Venues.GetVenueOwner(venueID)
	if err != nil {
		return nil, err
	}
	if owner == "" {
		return nil, httperrors.NotFound("Venue tidak ditemukan")
	}
	return s.Venues.ListFieldsForVenue(venueID)
}

func (s *VenueService) ListOwned(ownerID string) ([]entities.OwnedVenue, error) {
	venues, err := s.Venues.ListVenuesByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	owned := make([]entities.OwnedVenue, 0, len(venues))
	for _, venue := range venues {
		fields, err := s.Venues.ListFieldsForVenue(venue.ID)
		if err != nil {
			return nil, err
		}
		details := make([]entities.FieldDetail, 0, len(fields))
		for _, field := range fields {
			slots, err := s.Slots.ListSlotsForField(field.ID)
			if err != nil {
				return nil, err
			}
			details = append(details, entities.FieldDetail{Field: field, TimeSlots: slots})
		}
		owned = append(owned, entities.OwnedVenue{Venue: venue, Fields: details})
	}
	return owned, nil
}

func (s *VenueService) CreateVenue(ownerID string, req entities.CreateVenueRequest) (*db.Venue, error) {
	if req.Name == "" || req.Address == "" || len(req.ImageURLs) == 0 {
		return nil, httperrors.BadRequest("Semua field wajib diisi!")
	}
	venue := &db.Venue{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
		OwnerID:     ownerID,
	}
	if err := s.Venues.CreateVenue(venue); err != nil {
		return nil, fmt.Errorf("gagal menambahkan venue: %w", err)
	}
	return venue, nil
}

func (s *VenueService) UpdateVenue(ownerID, id string, req entities.CreateVenueRequest) (*db.Venue, error) {
	if err := s.requireVenueOwner(ownerID, id); err != nil {
		return nil, err
	}
	venue := &db.Venue{
		ID:          id,
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
	}
	if err := s.Venues.UpdateVenue(venue); err != nil {
		return nil, fmt.Errorf("gagal memperbarui venue: %w", err)
	}
	detail, err := s.Venues.GetVenue(id)
	if err != nil {
		return nil, err
	}
	return &detail.Venue, nil
}

func (s *VenueService) DeleteVenue(ownerID, id string) error {
	if err := s.requireVenueOwner(ownerID, id); err != nil {
		return err
	}
	return s.Venues.DeleteVenue(id)
}

func (s *VenueService) GetFieldDetail(id string) (*entities.FieldDetail, error) {
	field, err := s.Venues.GetField(id)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, httperrors.NotFound("Lapangan tidak ditemukan")
	}
	slots, err := s.Slots.ListSlotsForField(id)
	if err != nil {
		return nil, err
	}
	return &entities.FieldDetail{Field: *field, TimeSlots: slots}, nil
}

func (s *VenueService) CreateField(ownerID string, req entities.CreateFieldRequest) (*entities.FieldDetail, error) {
	if req.Name == "" || req.Type == "" || req.VenueID == "" {
		return nil, httperrors.BadRequest("Nama, jenis lapangan, dan venueId wajib diisi")
	}
	if err := s.requireVenueOwner(ownerID, req.VenueID); err != nil {
		return nil, err
	}

	field := &db.Field{
		VenueID:     req.VenueID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Surface:     req.Surface,
		ImageURLs:   req.ImageURLs,
	}
	if err := s.Venues.CreateField(field); err != nil {
		return nil, fmt.Errorf("gagal menambahkan lapangan: %w", err)
	}

	for _, input := range req.TimeSlots {
		slot := &db.TimeSlot{
			FieldID:   field.ID,
			Day:       input.Day,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			Price:     input.Price,
		}
		if err := s.Slots.CreateTimeSlot(slot); err != nil {
			return nil, fmt.Errorf("gagal menambahkan slot: %w", err)
		}
	}
	return s.GetFieldDetail(field.ID)
}

// UpdateField reconciles the submitted slot list against the stored one:
// slots with a known id are updated in place, slots without one are created,
// and stored slots missing from the submission are deleted.
func (s *VenueService) UpdateField(ownerID, id string, req entities.UpdateFieldRequest) (*entities.FieldDetail, error) {
	if err := s.requireFieldOwner(ownerID, id); err != nil {
		return nil, err
	}

	existing, err := s.Slots.ListSlotsForField(id)
	if err != nil {
		return nil, err
	}
	existingByID := make(map[string]db.TimeSlot, len(existing))
	for _, slot := range existing {
		existingByID[slot.ID] = slot
	}

	incoming := make(map[string]bool, len(req.TimeSlots))
	for _, input := range req.TimeSlots {
		if input.ID == "" {
			slot := &db.TimeSlot{
				FieldID:   id,
				Day:       input.Day,
				StartTime: input.StartTime,
				EndTime:   input.EndTime,
				Price:     input.Price,
			}
			if err := s.Slots.CreateTimeSlot(slot); err != nil {
				return nil, fmt.Errorf("gagal menambahkan slot: %w", err)
			}
			continue
		}

		incoming[input.ID] = true
		prev, ok := existingByID[input.ID]
		if !ok {
			log.Printf("Ignoring unknown slot id %s for field %s", input.ID, id)
			continue
		}
		if prev.Day != input.Day || prev.StartTime != input.StartTime || prev.EndTime != input.EndTime || prev.Price != input.Price {
			slot := &db.TimeSlot{
				ID:        input.ID,
				Day:       input.Day,
				StartTime: input.StartTime,
				EndTime:   input.EndTime,
				Price:     input.Price,
			}
			if err := s.Slots.UpdateTimeSlot(slot); err != nil {
				return nil, fmt.Errorf("gagal memperbarui slot: %w", err)
			}
		}
	}

	var removed []string
	for _, slot := range existing {
		if !incoming[slot.ID] {
			removed = append(removed, slot.ID)
		}
	}
	if err := s.Slots.DeleteTimeSlots(removed); err != nil {
		return nil, fmt.Errorf("gagal menghapus slot: %w", err)
	}

	if req.Name != "" {
		if err := s.Venues.UpdateFieldName(id, req.Name); err != nil {
			return nil, fmt.Errorf("gagal memperbarui lapangan: %w", err)
		}
	}
	return s.GetFieldDetail(id)
}

func (s *VenueService) DeleteField(ownerID, id string) error {
	if err := s.requireFieldOwner(ownerID, id); err != nil {
		return err
	}
	return s.Venues.DeleteField(id)
}

func (s *VenueService) requireVenueOwner(ownerID, venueID string) error {
	owner, err := s.Venues.GetVenueOwner(venueID)
	if err != nil {
		return err
	}
	if owner == "" {
		return httperrors.NotFound("Venue tidak ditemukan")
	}
	if owner != ownerID {
		return httperrors.Forbidden("Unauthorized")
	}
	return nil
}

func (s *VenueService) requireFieldOwner(ownerID, fieldID string) error {
	owner, err := s.Venues.GetFieldOwner(fieldID)
	if err != nil {
		return err
	}
	if owner == "" {
		return httperrors.NotFound("Lapangan tidak ditemukan")
	}
	if owner != ownerID {
		return httperrors.Forbidden("Unauthorized")
	}
	return nil
}
