package service

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"time"

	"github.com/SiEncan/ArenaKu/internal/db"
	httperrors "github.com/SiEncan/ArenaKu/internal/errors"
	"github.com/SiEncan/ArenaKu/internal/repository"
)

const (
	codeTTL        = 10 * time.Minute
	resendCooldown = 60 * time.Second
	maxSendsPer10m = 3
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// VerificationService implements the guest email gate: short-lived single-use
// numeric codes, generated and rate-limited server-side.
type VerificationService struct {
	Repo   repository.VerificationRepository
	Sender Sender
}

func NewVerificationService(repo repository.VerificationRepository, sender Sender) *VerificationService {
	return &VerificationService{Repo: repo, Sender: sender}
}

// SendCode generates a fresh 6-digit code for the address, stores it with a
// 10-minute expiry and emails it. Sends are limited to one per minute and
// three per rolling ten-minute window per address.
func (s *VerificationService) SendCode(email string) error {
	if email == "" {
		return httperrors.BadRequest("Email diperlukan")
	}
	if !emailPattern.MatchString(email) {
		return httperrors.BadRequest("Format email tidak valid")
	}

	now := time.Now().UTC()
	latest, err := s.Repo.LatestSendTime(email)
	if err != nil {
		return fmt.Errorf("gagal memeriksa riwayat pengiriman: %w", err)
	}
	if latest != nil && now.Sub(*latest) < resendCooldown {
		return httperrors.TooMany("Tunggu 60 detik sebelum meminta kode baru")
	}
	count, err := s.Repo.CountSendsSince(email, now.Add(-codeTTL))
	if err != nil {
		return fmt.Errorf("gagal memeriksa riwayat pengiriman: %w", err)
	}
	if count >= maxSendsPer10m {
		return httperrors.TooMany("Terlalu banyak permintaan kode. Coba lagi nanti.")
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("gagal membuat kode verifikasi: %w", err)
	}

	vc := &db.VerificationCode{
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(codeTTL),
	}
	if err := s.Repo.Create(vc); err != nil {
		log.Printf("Error saving verification code for %s: %v", email, err)
		return fmt.Errorf("gagal menyimpan kode verifikasi: %w", err)
	}

	s.Sender.SendVerificationEmail(email, code)
	return nil
}

// VerifyCode consumes a code: valid exactly once, and only while unexpired.
func (s *VerificationService) VerifyCode(email, code string) error {
	if email == "" || code == "" {
		return httperrors.BadRequest("Email dan kode verifikasi diperlukan")
	}

	now := time.Now().UTC()
	// Cheap housekeeping before the lookup.
	if err := s.Repo.PurgeExpired(now); err != nil {
		log.Printf("Error purging expired verification codes: %v", err)
	}

	vc, err := s.Repo.FindNewestUnused(email, code)
	if err != nil {
		return fmt.Errorf("gagal memverifikasi kode: %w", err)
	}
	if vc == nil {
		return httperrors.BadRequest("Kode verifikasi tidak valid atau sudah digunakan")
	}
	if now.After(vc.ExpiresAt) {
		if err := s.Repo.Delete(vc.ID); err != nil {
			log.Printf("Error deleting expired verification code %s: %v", vc.ID, err)
		}
		return httperrors.BadRequest("Kode verifikasi telah kadaluarsa. Silakan minta kode baru.")
	}

	// Single use: the code is removed the moment it validates.
	if err := s.Repo.Delete(vc.ID); err != nil {
		return fmt.Errorf("gagal memverifikasi kode: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
