package service

import (
	"testing"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/SiEncan/ArenaKu/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVenueFixture() (*fakeStore, *VenueService) {
	store := newFakeStore()
	svc := NewVenueService(&fakeVenueRepo{store: store}, &fakeSlotRepo{store: store})
	return store, svc
}

func ownedVenue(store *fakeStore, ownerID string) string {
	store.mu.Lock()
	defer store.mu.Unlock()
	id := store.nextID("venue")
	store.venues[id] = db.Venue{ID: id, Name: "GOR Senayan", Address: "Jakarta", OwnerID: ownerID}
	return id
}

func TestCreateFieldWithSlots(t *testing.T) {
	store, svc := newVenueFixture()
	venueID := ownedVenue(store, "owner-1")

	field, err := svc.CreateField("owner-1", entities.CreateFieldRequest{
		VenueID: venueID,
		Name:    "Lapangan Futsal A",
		Type:    "FUTSAL",
		TimeSlots: []entities.TimeSlotInput{
			{Day: "MONDAY", StartTime: "08:00", EndTime: "09:00", Price: 100000},
			{Day: "MONDAY", StartTime: "09:00", EndTime: "10:00", Price: 100000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lapangan Futsal A", field.Name)
	assert.Len(t, field.TimeSlots, 2)
}

func TestCreateFieldRejectsForeignVenue(t *testing.T) {
	store, svc := newVenueFixture()
	venueID := ownedVenue(store, "owner-1")

	_, err := svc.CreateField("owner-2", entities.CreateFieldRequest{
		VenueID: venueID, Name: "Lapangan B", Type: "FUTSAL",
	})
	require.Error(t, err)
	assert.Equal(t, 403, httpCode(t, err))
}

func TestCreateFieldUnknownVenueIs404(t *testing.T) {
	_, svc := newVenueFixture()

	_, err := svc.CreateField("owner-1", entities.CreateFieldRequest{
		VenueID: "missing", Name: "Lapangan B", Type: "FUTSAL",
	})
	require.Error(t, err)
	assert.Equal(t, 404, httpCode(t, err))
}

func TestUpdateFieldReconcilesSlots(t *testing.T) {
	store, svc := newVenueFixture()
	venueID := ownedVenue(store, "owner-1")

	field, err := svc.CreateField("owner-1", entities.CreateFieldRequest{
		VenueID: venueID, Name: "Lapangan A", Type: "FUTSAL",
		TimeSlots: []entities.TimeSlotInput{
			{Day: "MONDAY", StartTime: "08:00", EndTime: "09:00", Price: 100000},
			{Day: "MONDAY", StartTime: "09:00", EndTime: "10:00", Price: 100000},
		},
	})
	require.NoError(t, err)
	kept, dropped := field.TimeSlots[0], field.TimeSlots[1]

	updated, err := svc.UpdateField("owner-1", field.ID, entities.UpdateFieldRequest{
		Name: "Lapangan A Renovasi",
		TimeSlots: []entities.TimeSlotInput{
			// Keep the first slot but raise its price.
			{ID: kept.ID, Day: kept.Day, StartTime: kept.StartTime, EndTime: kept.EndTime, Price: 150000},
			// Add a new evening slot; the second original slot is dropped.
			{Day: "FRIDAY", StartTime: "19:00", EndTime: "20:00", Price: 200000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lapangan A Renovasi", updated.Name)
	require.Len(t, updated.TimeSlots, 2)

	byID := map[string]db.TimeSlot{}
	for _, slot := range updated.TimeSlots {
		byID[slot.ID] = slot
	}
	require.Contains(t, byID, kept.ID)
	assert.Equal(t, 150000, byID[kept.ID].Price)
	assert.NotContains(t, byID, dropped.ID)
}

func TestUpdateFieldForeignOwnerIsForbidden(t *testing.T) {
	store, svc := newVenueFixture()
	venueID := ownedVenue(store, "owner-1")

	field, err := svc.CreateField("owner-1", entities.CreateFieldRequest{
		VenueID: venueID, Name: "Lapangan A", Type: "FUTSAL",
	})
	require.NoError(t, err)

	_, err = svc.UpdateField("owner-2", field.ID, entities.UpdateFieldRequest{Name: "Dibajak"})
	require.Error(t, err)
	assert.Equal(t, 403, httpCode(t, err))
}

func TestDeleteVenueChecksOwnership(t *testing.T) {
	store, svc := newVenueFixture()
	venueID := ownedVenue(store, "owner-1")

	err := svc.DeleteVenue("owner-2", venueID)
	require.Error(t, err)
	assert.Equal(t, 403, httpCode(t, err))

	require.NoError(t, svc.DeleteVenue("owner-1", venueID))
	_, err = svc.GetVenue(venueID)
	require.Error(t, err)
	assert.Equal(t, 404, httpCode(t, err))
}

func TestListOwnedGroupsFieldsAndSlots(t *testing.T) {
	store, svc := newVenueFixture()
	venueID := ownedVenue(store, "owner-1")
	ownedVenue(store, "owner-2")

	_, err := svc.CreateField("owner-1", entities.CreateFieldRequest{
		VenueID: venueID, Name: "Lapangan A", Type: "FUTSAL",
		TimeSlots: []entities.TimeSlotInput{
			{Day: "MONDAY", StartTime: "08:00", EndTime: "09:00", Price: 100000},
		},
	})
	require.NoError(t, err)

	owned, err := svc.ListOwned("owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Len(t, owned[0].Fields, 1)
	assert.Len(t, owned[0].Fields[0].TimeSlots, 1)
}

func TestCreateVenueValidatesInput(t *testing.T) {
	_, svc := newVenueFixture()

	_, err := svc.CreateVenue("owner-1", entities.CreateVenueRequest{Name: "GOR Baru"})
	require.Error(t, err)
	assert.Equal(t, 400, httpCode(t, err))
}
