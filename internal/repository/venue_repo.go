package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/SiEncan/ArenaKu/internal/entities"
	"github.com/lib/pq"
)

type VenueRepository interface {
	ListVenues() ([]entities.VenueSummary, error)
	GetVenue(id string) (*entities.VenueDetail, error)
	ListFieldsForVenue(venueID string) ([]db.Field, error)
	ListVenuesByOwner(ownerID string) ([]db.Venue, error)
	CreateVenue(venue *db.Venue) error
	UpdateVenue(venue *db.Venue) error
	DeleteVenue(id string) error
	GetVenueOwner(venueID string) (string, error)
	GetField(id string) (*db.Field, error)
	GetFieldOwner(fieldID string) (string, error)
	CreateField(field *db.Field) error
	UpdateFieldName(id, name string) error
	DeleteField(id string) error
}

type venueRepository struct {
	db *sql.DB
}

func NewVenueRepository(database *sql.DB) VenueRepository {
	return &venueRepository{db: database}
}

// ListVenues returns venue cards with the cheapest slot price per sport type.
func (r *venueRepository) ListVenues() ([]entities.VenueSummary, error) {
	rows, err := r.db.Query(`
		SELECT v.id, v.name, v.address, COALESCE(v.description, ''), v.image_urls,
			f.type, MIN(ts.price)
		FROM venues v
		LEFT JOIN fields f ON f.venue_id = v.id
		LEFT JOIN time_slots ts ON ts.field_id = f.id
		GROUP BY v.id, v.name, v.address, v.description, v.image_urls, f.type
		ORDER BY v.name, f.type`)
	if err != nil {
		return nil, fmt.Errorf("error querying venues: %w", err)
	}
	defer rows.Close()

	var venues []entities.VenueSummary
	index := map[string]int{}
	for rows.Next() {
		var (
			summary   entities.VenueSummary
			fieldType sql.NullString
			minPrice  sql.NullInt64
		)
		err := rows.Scan(&summary.ID, &summary.Name, &summary.Address, &summary.Description,
			pq.Array(&summary.ImageURLs), &fieldType, &minPrice)
		if err != nil {
			return nil, fmt.Errorf("error scanning venue: %w", err)
		}
		i, seen := index[summary.ID]
		if !seen {
			venues = append(venues, summary)
			i = len(venues) - 1
			index[summary.ID] = i
		}
		if fieldType.Valid && minPrice.Valid {
			venues[i].FieldTypes = append(venues[i].FieldTypes, entities.FieldTypeSummary{
				Type:     fieldType.String,
				MinPrice: int(minPrice.Int64),
			})
		}
	}
	return venues, rows.Err()
}

func (r *venueRepository) GetVenue(id string) (*entities.VenueDetail, error) {
	var v db.Venue
	err := r.db.QueryRow(`
		SELECT id, name, address, COALESCE(description, ''), image_urls, owner_id, created_at, updated_at
		FROM venues WHERE id = $1`, id).
		Scan(&v.ID, &v.Name, &v.Address, &v.Description, pq.Array(&v.ImageURLs), &v.OwnerID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying venue: %w", err)
	}

	fields, err := r.ListFieldsForVenue(id)
	if err != nil {
		return nil, err
	}
	return &entities.VenueDetail{Venue: v, Fields: fields}, nil
}

func (r *venueRepository) ListFieldsForVenue(venueID string) ([]db.Field, error) {
	rows, err := r.db.Query(`
		SELECT id, venue_id, name, COALESCE(description, ''), type, COALESCE(surface, ''), image_urls
		FROM fields WHERE venue_id = $1 ORDER BY name`, venueID)
	if err != nil {
		return nil, fmt.Errorf("error querying fields: %w", err)
	}
	defer rows.Close()

	var fields []db.Field
	for rows.Next() {
		var f db.Field
		if err := rows.Scan(&f.ID, &f.VenueID, &f.Name, &f.Description, &f.Type, &f.Surface, pq.Array(&f.ImageURLs)); err != nil {
			return nil, fmt.Errorf("error scanning field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func (r *venueRepository) ListVenuesByOwner(ownerID string) ([]db.Venue, error) {
	rows, err := r.db.Query(`
		SELECT id, name, address, COALESCE(description, ''), image_urls, owner_id, created_at, updated_at
		FROM venues WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying owned venues: %w", err)
	}
	defer rows.Close()

	var venues []db.Venue
	for rows.Next() {
		var v db.Venue
		err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Description, pq.Array(&v.ImageURLs), &v.OwnerID, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning venue: %w", err)
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (r *venueRepository) CreateVenue(venue *db.Venue) error {
	query := `
		INSERT INTO venues (name, address, description, image_urls, owner_id)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(query, venue.Name, venue.Address, venue.Description, pq.Array(venue.ImageURLs), venue.OwnerID).
		Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
}

func (r *venueRepository) UpdateVenue(venue *db.Venue) error {
	_, err := r.db.Exec(`
		UPDATE venues SET name = $2, address = $3, description = NULLIF($4, ''), image_urls = $5, updated_at = NOW()
		WHERE id = $1`, venue.ID, venue.Name, venue.Address, venue.Description, pq.Array(venue.ImageURLs))
	return err
}

func (r *venueRepository) DeleteVenue(id string) error {
	_, err := r.db.Exec(`DELETE FROM venues WHERE id = $1`, id)
	return err
}

func (r *venueRepository) GetVenueOwner(venueID string) (string, error) {
	var ownerID string
	err := r.db.QueryRow(`SELECT owner_id FROM venues WHERE id = $1`, venueID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return ownerID, nil
}

func (r *venueRepository) GetField(id string) (*db.Field, error) {
	var f db.Field
	err := r.db.QueryRow(`
		SELECT id, venue_id, name, COALESCE(description, ''), type, COALESCE(surface, ''), image_urls
		FROM fields WHERE id = $1`, id).
		Scan(&f.ID, &f.VenueID, &f.Name, &f.Description, &f.Type, &f.Surface, pq.Array(&f.ImageURLs))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying field: %w", err)
	}
	return &f, nil
}

func (r *venueRepository) GetFieldOwner(fieldID string) (string, error) {
	var ownerID string
	err := r.db.QueryRow(`
		SELECT v.owner_id FROM fields f JOIN venues v ON v.id = f.venue_id
		WHERE f.id = $1`, fieldID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return ownerID, nil
}

func (r *venueRepository) CreateField(field *db.Field) error {
	query := `
		INSERT INTO fields (venue_id, name, description, type, surface, image_urls)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6)
		RETURNING id`
	return r.db.QueryRow(query, field.VenueID, field.Name, field.Description, field.Type, field.Surface, pq.Array(field.ImageURLs)).
		Scan(&field.ID)
}

func (r *venueRepository) UpdateFieldName(id, name string) error {
	_, err := r.db.Exec(`UPDATE fields SET name = $2 WHERE id = $1`, id, name)
	return err
}

func (r *venueRepository) DeleteField(id string) error {
	_, err := r.db.Exec(`DELETE FROM fields WHERE id = $1`, id)
	return err
}
