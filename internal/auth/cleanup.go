package auth

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const DefaultCleanupSchedule = "@every 8h"

// NewSessionCleaner returns a started-ready cron scheduler that runs
// ScanAndClean on the given schedule.
func NewSessionCleaner(ctx context.Context, service *Service, schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() {
		log.Debugln("running expired sessions cleanup")
		service.ScanAndClean(ctx)
	}); err != nil {
		return nil, fmt.Errorf("schedule session cleanup: %w", err)
	}

	return c, nil
}
