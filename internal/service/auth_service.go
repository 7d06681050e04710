package service

import (
	"errors"
	"fmt"

	"github.com/SiEncan/ArenaKu/internal/auth"
	"github.com/SiEncan/ArenaKu/internal/db"
	httperrors "github.com/SiEncan/ArenaKu/internal/errors"
	"github.com/SiEncan/ArenaKu/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(name, email, phone, password, role string) (*db.User, error)
	Login(email, password string) (string, *db.User, error)
}

type authService struct {
	repo   repository.UserRepository
	secret string
}

func NewAuthService(repo repository.UserRepository, secret string) AuthService {
	return &authService{repo: repo, secret: secret}
}

func (s *authService) Register(name, email, phone, password, role string) (*db.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, httperrors.BadRequest("Nama, email, dan password diperlukan")
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("error saat registrasi: %w", err)
	}
	if existing != nil {
		return nil, httperrors.BadRequest("Email sudah terdaftar")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if role != db.RoleOwner {
		role = db.RoleCustomer
	}
	user := &db.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("error saat registrasi: %w", err)
	}
	return user, nil
}

func (s *authService) Login(email, password string) (string, *db.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := auth.NewToken(s.secret, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
