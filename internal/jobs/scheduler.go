package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 30 * time.Second

// PremiumExpirer clears lapsed premium subscriptions.
type PremiumExpirer interface {
	ExpireSubscriptions(ctx context.Context) (int64, error)
}

// LimiterCleaner drops idle rate limiter entries.
type LimiterCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Entry
}

// NewScheduler registers the premium sweep on premiumSchedule and a per-minute limiter cleanup.
// A nil limiter skips the cleanup job.
func NewScheduler(premiumSchedule string, expirer PremiumExpirer, limiter LimiterCleaner, log *logrus.Entry) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	s := &Scheduler{cron: c, log: log.WithField("component", "jobs")}

	if _, err := c.AddFunc(premiumSchedule, s.premiumSweep(expirer)); err != nil {
		return nil, fmt.Errorf("schedule premium sweep %q: %w", premiumSchedule, err)
	}
	if limiter != nil {
		if _, err := c.AddFunc("@every 1m", s.limiterCleanup(limiter)); err != nil {
			return nil, fmt.Errorf("schedule limiter cleanup: %w", err)
		}
	}
	return s, nil
}

func (s *Scheduler) premiumSweep(expirer PremiumExpirer) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		n, err := expirer.ExpireSubscriptions(ctx)
		if err != nil {
			s.log.WithError(err).Error("premium sweep failed")
			return
		}
		s.log.WithField("expired", n).Debug("premium sweep done")
	}
}

func (s *Scheduler) limiterCleanup(limiter LimiterCleaner) func() {
	return func() {
		if removed := limiter.Cleanup(10 * time.Minute); removed > 0 {
			s.log.WithField("removed", removed).Debug("rate limiters cleaned")
		}
	}
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("jobs still running at shutdown")
	}
}
