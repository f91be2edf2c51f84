// Package jobs runs the background cron tasks: a daily plan-expiry sweep
// and an hourly reminder about requests still waiting for the admin.
package jobs

import (
	"context"
	"time"

	"github.com/apexearn/apexearn/internal/notifier"
	"github.com/apexearn/apexearn/internal/service"
	"github.com/apexearn/apexearn/utils"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron     *cron.Cron
	service  *service.Service
	notifier *notifier.TelegramNotifier
	logger   *utils.Logger
}

func NewScheduler(svc *service.Service, n *notifier.TelegramNotifier, logger *utils.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		service:  svc,
		notifier: n,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.cron.AddFunc("0 0 * * *", func() {
		expired, err := s.service.CountExpiredSince(ctx, 24*time.Hour)
		if err != nil {
			s.logger.Errorf("[CRON] Expiry sweep failed: %v", err)
			return
		}
		if expired > 0 {
			s.logger.Infof("[CRON] %d user plan(s) expired in the last 24h", expired)
		}
	})

	s.cron.AddFunc("0 * * * *", func() {
		deposits, withdrawals, err := s.service.CountPendingRequests(ctx)
		if err != nil {
			s.logger.Errorf("[CRON] Pending request check failed: %v", err)
			return
		}
		if s.notifier != nil {
			s.notifier.PendingSummary(deposits, withdrawals)
		}
	})

	s.cron.Start()
	s.logger.Info("Scheduler started")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
