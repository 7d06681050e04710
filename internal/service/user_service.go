package service

import (
	"github.com/SiEncan/ArenaKu/internal/db"
	httperrors "github.com/SiEncan/ArenaKu/internal/errors"
	"github.com/SiEncan/ArenaKu/internal/repository"
)

type UserService struct {
	Users    repository.UserRepository
	Bookings repository.BookingRepository
}

func NewUserService(users repository.UserRepository, bookings repository.BookingRepository) *UserService {
	return &UserService{Users: users, Bookings: bookings}
}

// UserProfile is the user row plus, optionally, their booking history.
type UserProfile struct {
	*db.User
	Bookings []db.Booking `json:"bookings,omitempty"`
}

func (s *UserService) GetProfile(id string, includeBookings bool) (*UserProfile, error) {
	user, err := s.Users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, httperrors.NotFound("User tidak ditemukan")
	}

	profile := &UserProfile{User: user}
	if includeBookings {
		bookings, err := s.Bookings.ListForUser(id)
		if err != nil {
			return nil, err
		}
		profile.Bookings = bookings
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(id, name, phone string) (*db.User, error) {
	user, err := s.Users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, httperrors.NotFound("User tidak ditemukan")
	}
	if name == "" {
		name = user.Name
	}
	if err := s.Users.UpdateProfile(id, name, phone); err != nil {
		return nil, err
	}
	return s.Users.GetByID(id)
}
