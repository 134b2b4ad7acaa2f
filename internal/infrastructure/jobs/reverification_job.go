package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"nft-gate.backend/internal/config"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/usecases"
	"nft-gate.backend/pkg/logger"
	"nft-gate.backend/pkg/metrics"
	"nft-gate.backend/pkg/redis"
	"nft-gate.backend/pkg/utils"
)

const lockKey = "nftgate:scheduler:lock"

// Rechecker re-verifies one stored member
type Rechecker interface {
	Recheck(ctx context.Context, state *entities.UserVerificationState) (*usecases.Assessment, error)
}

type candidateSelector interface {
	SelectForReverification(ctx context.Context, policy entities.ReverificationPolicy) ([]entities.ReverificationCandidate, error)
}

type sessionPurger interface {
	DeleteTerminalBefore(ctx context.Context, before time.Time) (int64, error)
}

// LockFunc takes a cross-replica lock. ok is false when another replica holds it.
type LockFunc func(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)

// RedisLock is a LockFunc backed by pkg/redis
func RedisLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	l, ok, err := redis.AcquireLock(ctx, key, ttl)
	if err != nil || !ok {
		return nil, ok, err
	}
	return l.Release, true, nil
}

// CycleReport summarizes one scheduler cycle
type CycleReport struct {
	Selected       int   `json:"selected"`
	Processed      int   `json:"processed"`
	Verified       int   `json:"verified"`
	Errors         int   `json:"errors"`
	PurgedSessions int64 `json:"purgedSessions"`
	Aborted        bool  `json:"aborted"`
}

// ReverificationJob periodically re-checks stored members in priority order
type ReverificationJob struct {
	states   candidateSelector
	sessions sessionPurger
	checker  Rechecker
	cfg      config.SchedulerConfig
	lock     LockFunc

	running  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewReverificationJob(states candidateSelector, sessions sessionPurger, checker Rechecker, cfg config.SchedulerConfig) *ReverificationJob {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Minute
	}
	return &ReverificationJob{
		states:   states,
		sessions: sessions,
		checker:  checker,
		cfg:      cfg,
		stop:     make(chan struct{}),
		now:      time.Now,
		sleep:    utils.SleepContext,
	}
}

// SetLock enables cross-replica exclusion
func (j *ReverificationJob) SetLock(fn LockFunc) {
	j.lock = fn
}

func (j *ReverificationJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting re-verification scheduler", zap.Duration("interval", j.cfg.Interval))

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Re-verification scheduler stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Re-verification scheduler stopped")
			return
		case <-ticker.C:
			if _, err := j.RunCycle(ctx); err != nil && !errors.Is(err, domainerrors.ErrSchedulerBusy) {
				logger.Error(ctx, "Re-verification cycle failed", zap.Error(err))
			}
		}
	}
}

func (j *ReverificationJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// RunCycle runs one selection and re-check pass. It fails fast with
// ErrSchedulerBusy while another cycle is in progress.
func (j *ReverificationJob) RunCycle(ctx context.Context) (*CycleReport, error) {
	if !j.running.CompareAndSwap(false, true) {
		metrics.SchedulerCycles.WithLabelValues("busy").Inc()
		return nil, domainerrors.ErrSchedulerBusy
	}
	defer j.running.Store(false)

	if j.lock != nil {
		release, ok, err := j.lock(ctx, lockKey, j.cfg.LockTTL)
		switch {
		case err != nil:
			// fall back to the in-process guard
			logger.Warn(ctx, "Scheduler lock unavailable", zap.Error(err))
		case !ok:
			metrics.SchedulerCycles.WithLabelValues("busy").Inc()
			return nil, domainerrors.ErrSchedulerBusy
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					logger.Warn(ctx, "Failed to release scheduler lock", zap.Error(err))
				}
			}()
		}
	}

	start := j.now()
	report := &CycleReport{}

	if j.cfg.SessionRetention > 0 {
		purged, err := j.sessions.DeleteTerminalBefore(ctx, start.Add(-j.cfg.SessionRetention).UTC())
		if err != nil {
			logger.Warn(ctx, "Session purge failed", zap.Error(err))
		}
		report.PurgedSessions = purged
	}

	candidates, err := j.states.SelectForReverification(ctx, entities.ReverificationPolicy{
		Now:                 start.UTC(),
		StaleAfter:          j.cfg.StaleAfter,
		HighValueStaleAfter: j.cfg.HighValueStaleAfter,
		HighValueAssetCount: j.cfg.HighValueAssetCount,
		NewAccountWindow:    j.cfg.NewAccountWindow,
		Cooldown:            j.cfg.Cooldown,
		Limit:               j.cfg.MaxUsersPerCycle,
	})
	if err != nil {
		metrics.SchedulerCycles.WithLabelValues("error").Inc()
		return nil, err
	}
	report.Selected = len(candidates)

	err = j.process(ctx, candidates, report)
	if err != nil {
		report.Aborted = true
		metrics.SchedulerCycles.WithLabelValues("aborted").Inc()
	} else {
		metrics.SchedulerCycles.WithLabelValues("ok").Inc()
	}

	logger.Info(ctx, "Re-verification cycle finished",
		zap.Int("selected", report.Selected),
		zap.Int("processed", report.Processed),
		zap.Int("verified", report.Verified),
		zap.Int("errors", report.Errors),
		zap.Int64("purged_sessions", report.PurgedSessions),
		zap.Bool("aborted", report.Aborted),
		zap.Duration("took", j.now().Sub(start)),
	)
	return report, err
}

// process walks candidates in batches, one member at a time inside a batch
func (j *ReverificationJob) process(ctx context.Context, candidates []entities.ReverificationCandidate, report *CycleReport) error {
	for b := 0; b < len(candidates); b += j.cfg.BatchSize {
		if b > 0 {
			if err := j.sleep(ctx, j.cfg.BatchDelay); err != nil {
				return err
			}
		}
		end := min(b+j.cfg.BatchSize, len(candidates))

		for i, c := range candidates[b:end] {
			if i > 0 {
				if err := j.sleep(ctx, j.cfg.UserDelay); err != nil {
					return err
				}
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			j.recheck(ctx, c, report)
		}
	}
	return nil
}

func (j *ReverificationJob) recheck(ctx context.Context, c entities.ReverificationCandidate, report *CycleReport) {
	report.Processed++

	a, err := j.checker.Recheck(ctx, c.State)
	if err != nil {
		report.Errors++
		metrics.SchedulerUsers.WithLabelValues("error").Inc()
		logger.Warn(logger.WithMember(ctx, c.State.CommunityID, c.State.IdentityID), "Re-verification failed",
			zap.Int("priority", int(c.Priority)),
			zap.Error(err),
		)
		return
	}
	if a.IsVerified {
		report.Verified++
	}
	metrics.SchedulerUsers.WithLabelValues("ok").Inc()
}
