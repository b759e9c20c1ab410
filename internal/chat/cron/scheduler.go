package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/personalink-ai/go-chat-backend/internal/chat/repository"
)

type Scheduler struct {
	store repository.ProfileStore
	spec  string
	cron  *cron.Cron
}

func NewScheduler(store repository.ProfileStore, spec string) *Scheduler {
	return &Scheduler{store: store, spec: spec}
}

// Start schedules the recurring quota reset. The spec is a six-field
// cron expression, e.g. "0 0 0 * * *" for midnight.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.spec, func() {
		s.resetQuotas()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Printf("Cron scheduler started (quota reset at %q)", s.spec)
	c.Start()
	s.cron = c
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) resetQuotas() {
	log.Println("Quota reset job started...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.store.ResetAllQuotas(ctx); err != nil {
		log.Printf("Quota reset failed: %v", err)
		return
	}

	log.Println("Quota reset completed successfully at:", time.Now().Format(time.RFC1123))
}
