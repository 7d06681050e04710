package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SiEncan/ArenaKu/internal/db"
)

type VerificationRepository interface {
	Create(code *db.VerificationCode) error
	FindNewestUnused(email, code string) (*db.VerificationCode, error)
	Delete(id string) error
	PurgeExpired(now time.Time) error
	LatestSendTime(email string) (*time.Time, error)
	CountSendsSince(email string, since time.Time) (int, error)
}

type verificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(database *sql.DB) VerificationRepository {
	return &verificationRepository{db: database}
}

func (r *verificationRepository) Create(code *db.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (email, code, created_at, expires_at, is_used)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id`
	return r.db.QueryRow(query, code.Email, code.Code, code.CreatedAt, code.ExpiresAt).Scan(&code.ID)
}

func (r *verificationRepository) FindNewestUnused(email, code string) (*db.VerificationCode, error) {
	var vc db.VerificationCode
	err := r.db.QueryRow(`
		SELECT id, email, code, created_at, expires_at, is_used
		FROM verification_codes
		WHERE email = $1 AND code = $2 AND is_used = FALSE
		ORDER BY created_at DESC LIMIT 1`, email, code).
		Scan(&vc.ID, &vc.Email, &vc.Code, &vc.CreatedAt, &vc.ExpiresAt, &vc.IsUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying verification code: %w", err)
	}
	return &vc, nil
}

func (r *verificationRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM verification_codes WHERE id = $1`, id)
	return err
}

func (r *verificationRepository) PurgeExpired(now time.Time) error {
	_, err := r.db.Exec(`DELETE FROM verification_codes WHERE expires_at < $1`, now)
	return err
}

func (r *verificationRepository) LatestSendTime(email string) (*time.Time, error) {
	var created time.Time
	err := r.db.QueryRow(`
		SELECT created_at FROM verification_codes
		WHERE email = $1 ORDER BY created_at DESC LIMIT 1`, email).Scan(&created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &created, nil
}

func (r *verificationRepository) CountSendsSince(email string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM verification_codes
		WHERE email = $1 AND created_at >= $2`, email, since).Scan(&count)
	return count, err
}
