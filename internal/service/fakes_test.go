package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/SiEncan/ArenaKu/internal/entities"
	"github.com/SiEncan/ArenaKu/internal/repository"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. It
// reproduces the guarded writes and the partial unique index so the state
// machine and the conflict guard can be exercised without a database.
type fakeStore struct {
	mu     sync.Mutex
	seq    int
	slots  map[string]db.TimeSlot
	fields map[string]db.Field
	venues map[string]db.Venue
	rows   map[string]*db.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots:  make(map[string]db.TimeSlot),
		fields: make(map[string]db.Field),
		venues: make(map[string]db.Venue),
		rows:   make(map[string]*db.Booking),
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) addVenue(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("venue")
	f.venues[id] = db.Venue{ID: id, Name: name}
	return id
}

func (f *fakeStore) addField(venueID, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("field")
	f.fields[id] = db.Field{ID: id, VenueID: venueID, Name: name}
	return id
}

func (f *fakeStore) addSlot(fieldID, day, start, end string, price int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("slot")
	f.slots[id] = db.TimeSlot{ID: id, FieldID: fieldID, Day: day, StartTime: start, EndTime: end, Price: price}
	return id
}

// --- SlotRepository ---

type fakeSlotRepo struct{ store *fakeStore }

func (r *fakeSlotRepo) GetTimeSlot(id string) (*db.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if slot, ok := r.store.slots[id]; ok {
		return &slot, nil
	}
	return nil, nil
}

func (r *fakeSlotRepo) ListSlotsForDay(fieldID, day string) ([]db.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []db.TimeSlot
	for _, slot := range r.store.slots {
		if slot.FieldID == fieldID && slot.Day == day {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *fakeSlotRepo) ListSlotsForField(fieldID string) ([]db.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []db.TimeSlot
	for _, slot := range r.store.slots {
		if slot.FieldID == fieldID {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSlotRepo) CreateTimeSlot(slot *db.TimeSlot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slot.ID = r.store.nextID("slot")
	r.store.slots[slot.ID] = *slot
	return nil
}

func (r *fakeSlotRepo) UpdateTimeSlot(slot *db.TimeSlot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.slots[slot.ID]
	if !ok {
		return nil
	}
	existing.Day, existing.StartTime, existing.EndTime, existing.Price = slot.Day, slot.StartTime, slot.EndTime, slot.Price
	r.store.slots[slot.ID] = existing
	return nil
}

func (r *fakeSlotRepo) DeleteTimeSlots(ids []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range ids {
		delete(r.store.slots, id)
	}
	return nil
}

// --- VenueRepository (the slice BookingService and VenueService touch) ---

type fakeVenueRepo struct{ store *fakeStore }

func (r *fakeVenueRepo) ListVenues() ([]entities.VenueSummary, error) { return nil, nil }

func (r *fakeVenueRepo) GetVenue(id string) (*entities.VenueDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if venue, ok := r.store.venues[id]; ok {
		return &entities.VenueDetail{Venue: venue}, nil
	}
	return nil, nil
}

func (r *fakeVenueRepo) ListFieldsForVenue(venueID string) ([]db.Field, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []db.Field
	for _, field := range r.store.fields {
		if field.VenueID == venueID {
			out = append(out, field)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeVenueRepo) ListVenuesByOwner(ownerID string) ([]db.Venue, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []db.Venue
	for _, venue := range r.store.venues {
		if venue.OwnerID == ownerID {
			out = append(out, venue)
		}
	}
	return out, nil
}

func (r *fakeVenueRepo) CreateVenue(venue *db.Venue) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	venue.ID = r.store.nextID("venue")
	r.store.venues[venue.ID] = *venue
	return nil
}

func (r *fakeVenueRepo) UpdateVenue(venue *db.Venue) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.venues[venue.ID]
	if !ok {
		return nil
	}
	existing.Name, existing.Address, existing.Description, existing.ImageURLs = venue.Name, venue.Address, venue.Description, venue.ImageURLs
	r.store.venues[venue.ID] = existing
	return nil
}

func (r *fakeVenueRepo) DeleteVenue(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.venues, id)
	return nil
}

func (r *fakeVenueRepo) GetVenueOwner(venueID string) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if venue, ok := r.store.venues[venueID]; ok {
		return venue.OwnerID, nil
	}
	return "", nil
}

func (r *fakeVenueRepo) GetField(id string) (*db.Field, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if field, ok := r.store.fields[id]; ok {
		return &field, nil
	}
	return nil, nil
}

func (r *fakeVenueRepo) GetFieldOwner(fieldID string) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	field, ok := r.store.fields[fieldID]
	if !ok {
		return "", nil
	}
	venue, ok := r.store.venues[field.VenueID]
	if !ok {
		return "", nil
	}
	return venue.OwnerID, nil
}

func (r *fakeVenueRepo) CreateField(field *db.Field) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	field.ID = r.store.nextID("field")
	r.store.fields[field.ID] = *field
	return nil
}

func (r *fakeVenueRepo) UpdateFieldName(id, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if field, ok := r.store.fields[id]; ok {
		field.Name = name
		r.store.fields[id] = field
	}
	return nil
}

func (r *fakeVenueRepo) DeleteField(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.fields, id)
	return nil
}

// --- BookingRepository ---

type fakeBookingRepo struct{ store *fakeStore }

func (r *fakeBookingRepo) sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// conflictLocked mirrors the uniq_active_booking partial unique index.
func (r *fakeBookingRepo) conflictLocked(exclude, fieldID, timeSlotID string, date time.Time) bool {
	for _, b := range r.store.rows {
		if b.ID == exclude {
			continue
		}
		if b.FieldID == fieldID && b.TimeSlotID == timeSlotID && r.sameDay(b.Date, date) &&
			(b.Status == db.StatusPending || b.Status == db.StatusPaid) {
			return true
		}
	}
	return false
}

func (r *fakeBookingRepo) CreateBooking(b *db.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b.ID = r.store.nextID("booking")
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.store.rows[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetBookingByID(id string) (*db.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if b, ok := r.store.rows[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeBookingRepo) GetBookingByOrderID(orderID string) (*db.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.rows {
		if b.OrderID == orderID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) detailLocked(b *db.Booking) *entities.BookingDetail {
	detail := &entities.BookingDetail{
		ID:         b.ID,
		FieldID:    b.FieldID,
		TimeSlotID: b.TimeSlotID,
		Date:       b.Date,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		SnapToken:  b.SnapToken,
		OrderID:    b.OrderID,
		PaidAt:     b.PaidAt,
		UserID:     b.UserID,
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		GuestPhone: b.GuestPhone,
		CreatedAt:  b.CreatedAt,
	}
	if field, ok := r.store.fields[b.FieldID]; ok {
		detail.FieldName = field.Name
		if venue, ok := r.store.venues[field.VenueID]; ok {
			detail.VenueName = venue.Name
		}
	}
	if slot, ok := r.store.slots[b.TimeSlotID]; ok {
		detail.StartTime = slot.StartTime
		detail.EndTime = slot.EndTime
		detail.Price = slot.Price
	}
	return detail
}

func (r *fakeBookingRepo) GetBookingDetailByID(id string) (*entities.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if b, ok := r.store.rows[id]; ok {
		return r.detailLocked(b), nil
	}
	return nil, nil
}

func (r *fakeBookingRepo) GetBookingDetailByOrderID(orderID string) (*entities.BookingDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.rows {
		if b.OrderID == orderID {
			return r.detailLocked(b), nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) ListActiveSlotIDs(fieldID string, date time.Time) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var ids []string
	for _, b := range r.store.rows {
		if b.FieldID == fieldID && r.sameDay(b.Date, date) &&
			(b.Status == db.StatusPending || b.Status == db.StatusPaid) {
			ids = append(ids, b.TimeSlotID)
		}
	}
	return ids, nil
}

func (r *fakeBookingRepo) HasActiveBooking(fieldID, timeSlotID string, date time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.conflictLocked("", fieldID, timeSlotID, date), nil
}

func (r *fakeBookingRepo) PromoteToPending(id string, payer entities.Payer, snapToken, orderID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.rows[id]
	if !ok || b.Status != db.StatusDraft {
		return repository.ErrNotUpdatable
	}
	if r.conflictLocked(id, b.FieldID, b.TimeSlotID, b.Date) {
		return repository.ErrSlotTaken
	}
	b.Status = db.StatusPending
	b.UserID = payer.UserID
	if payer.Guest != nil {
		b.GuestName, b.GuestEmail, b.GuestPhone = payer.Guest.Name, payer.Guest.Email, payer.Guest.Phone
	}
	b.SnapToken = snapToken
	b.OrderID = orderID
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeBookingRepo) AttachGatewaySession(id, snapToken, orderID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.rows[id]
	if !ok || (b.Status != db.StatusDraft && b.Status != db.StatusPending) {
		return repository.ErrNotUpdatable
	}
	b.SnapToken = snapToken
	b.OrderID = orderID
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(id, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.rows[id]
	if !ok || b.Status == db.StatusPaid {
		return repository.ErrNotUpdatable
	}
	if status == db.StatusPending && r.conflictLocked(id, b.FieldID, b.TimeSlotID, b.Date) {
		return repository.ErrSlotTaken
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeBookingRepo) MarkPaid(id string, paidAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.rows[id]
	if !ok || b.Status == db.StatusPaid {
		return repository.ErrNotUpdatable
	}
	b.Status = db.StatusPaid
	b.PaidAt = &paidAt
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeBookingRepo) DeleteBooking(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.rows, id)
	return nil
}

func (r *fakeBookingRepo) LatestPendingForPayer(userID, guestEmail string) (*db.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var newest *db.Booking
	for _, b := range r.store.rows {
		if b.Status != db.StatusPending {
			continue
		}
		if (userID != "" && b.UserID == userID) || (userID == "" && guestEmail != "" && b.GuestEmail == guestEmail) {
			if newest == nil || b.CreatedAt.After(newest.CreatedAt) {
				newest = b
			}
		}
	}
	if newest == nil {
		return nil, nil
	}
	clone := *newest
	return &clone, nil
}

func (r *fakeBookingRepo) ListForUser(userID string) ([]db.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []db.Booking
	for _, b := range r.store.rows {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- UserRepository ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*db.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*db.User)}
}

func (r *fakeUserRepo) GetByEmail(email string) (*db.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(id string) (*db.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(user *db.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateProfile(id, name, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Name, u.Phone = name, phone
	}
	return nil
}

// --- VerificationRepository ---

type fakeVerificationRepo struct {
	mu    sync.Mutex
	seq   int
	codes []*db.VerificationCode
}

func (r *fakeVerificationRepo) Create(code *db.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	code.ID = fmt.Sprintf("vc-%d", r.seq)
	clone := *code
	r.codes = append(r.codes, &clone)
	return nil
}

func (r *fakeVerificationRepo) FindNewestUnused(email, code string) (*db.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var newest *db.VerificationCode
	for _, vc := range r.codes {
		if vc.Email == email && vc.Code == code && !vc.IsUsed {
			if newest == nil || vc.CreatedAt.After(newest.CreatedAt) {
				newest = vc
			}
		}
	}
	if newest == nil {
		return nil, nil
	}
	clone := *newest
	return &clone, nil
}

func (r *fakeVerificationRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.codes[:0]
	for _, vc := range r.codes {
		if vc.ID != id {
			kept = append(kept, vc)
		}
	}
	r.codes = kept
	return nil
}

func (r *fakeVerificationRepo) PurgeExpired(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.codes[:0]
	for _, vc := range r.codes {
		if !now.After(vc.ExpiresAt) {
			kept = append(kept, vc)
		}
	}
	r.codes = kept
	return nil
}

func (r *fakeVerificationRepo) LatestSendTime(email string) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *time.Time
	for _, vc := range r.codes {
		if vc.Email == email {
			t := vc.CreatedAt
			if latest == nil || t.After(*latest) {
				latest = &t
			}
		}
	}
	return latest, nil
}

func (r *fakeVerificationRepo) CountSendsSince(email string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, vc := range r.codes {
		if vc.Email == email && vc.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

// --- PaymentGateway and Sender ---

type fakeGateway struct {
	mu       sync.Mutex
	orders   []entities.GatewayOrder
	token    string
	err      error
	statuses map[string]entities.GatewayStatus
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{token: "snap-token-1", statuses: make(map[string]entities.GatewayStatus)}
}

func (g *fakeGateway) CreateTransaction(order entities.GatewayOrder) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.orders = append(g.orders, order)
	return g.token, nil
}

func (g *fakeGateway) TransactionStatus(orderID string) (*entities.GatewayStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status, ok := g.statuses[orderID]
	if !ok {
		return nil, fmt.Errorf("unknown order %s", orderID)
	}
	return &status, nil
}

type fakeSender struct {
	mu                 sync.Mutex
	verificationEmails []string
	receiptEmails      []string
	smsNumbers         []string
}

func (s *fakeSender) SendVerificationEmail(toEmail, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verificationEmails = append(s.verificationEmails, toEmail)
}

func (s *fakeSender) SendBookingReceipt(booking entities.BookingDetail, toEmail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receiptEmails = append(s.receiptEmails, toEmail)
}

func (s *fakeSender) SendBookingSMS(booking entities.BookingDetail, toPhone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.smsNumbers = append(s.smsNumbers, toPhone)
}
