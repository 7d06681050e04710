package service

import (
	"log"
	"time"

	"github.com/SiEncan/ArenaKu/internal/repository"
	"github.com/robfig/cron/v3"
)

// JobService runs the background sweep that cancels bookings stuck in
// DRAFT or PENDING past the payment window.
type JobService struct {
	cron *cron.Cron
	repo repository.JobRepository
}

func NewJobService(repo repository.JobRepository) *JobService {
	return &JobService{
		cron: cron.New(),
		repo: repo,
	}
}

func (j *JobService) Start() {
	_, err := j.cron.AddFunc("@every 1m", j.CancelStaleBookings)
	if err != nil {
		log.Printf("Error scheduling stale booking sweep: %v", err)
		return
	}
	j.cron.Start()
	log.Println("Stale booking sweep scheduled every minute")
}

func (j *JobService) Stop() {
	j.cron.Stop()
}

// CancelStaleBookings cancels every unpaid booking older than the pending
// timeout. The guarded UPDATE skips rows a concurrent webhook already paid.
func (j *JobService) CancelStaleBookings() {
	cutoff := time.Now().UTC().Add(-PendingTimeout)
	ids, err := j.repo.GetStaleBookingIDs(cutoff)
	if err != nil {
		log.Printf("Error fetching stale bookings: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	count, err := j.repo.CancelBookings(ids)
	if err != nil {
		log.Printf("Error cancelling stale bookings: %v", err)
		return
	}
	log.Printf("Cancelled %d stale bookings", count)
}
