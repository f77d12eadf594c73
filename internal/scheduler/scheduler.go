// Package scheduler runs periodic jobs under a cluster-wide lock, so only one
// replica executes a given job at a time.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrLockHeld means another replica is running the job.
var ErrLockHeld = errors.New("job lock held by another instance")

// Locker acquires a named lock for at most expiry.
type Locker interface {
	Acquire(ctx context.Context, name string, expiry time.Duration) (release func(), err error)
}

type redsyncLocker struct {
	rs *redsync.Redsync
}

func NewRedsyncLocker(client *redis.Client) Locker {
	return &redsyncLocker{rs: redsync.New(goredis.NewPool(client))}
}

func (l *redsyncLocker) Acquire(ctx context.Context, name string, expiry time.Duration) (func(), error) {
	mutex := l.rs.NewMutex(name, redsync.WithExpiry(expiry), redsync.WithTries(1))
	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return nil, ErrLockHeld
		}
		return nil, err
	}
	return func() {
		_, _ = mutex.UnlockContext(context.Background())
	}, nil
}

type JobFunc func(ctx context.Context) error

type Scheduler struct {
	cron       *cron.Cron
	locker     Locker
	lockExpiry time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	logger     *zap.Logger
}

func New(locker Locker, lockExpiry time.Duration, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		locker:     locker,
		lockExpiry: lockExpiry,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Register schedules job with a standard cron spec or a descriptor such as "@every 10m".
func (s *Scheduler) Register(spec, lockName string, job JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		_ = s.RunOnce(s.ctx, lockName, job)
	})
	return err
}

// RunOnce runs job if the lock can be taken. A held lock is not an error.
func (s *Scheduler) RunOnce(ctx context.Context, lockName string, job JobFunc) error {
	release, err := s.locker.Acquire(ctx, lockName, s.lockExpiry)
	if errors.Is(err, ErrLockHeld) {
		s.logger.Debug("job skipped, lock held elsewhere", zap.String("lock", lockName))
		return nil
	}
	if err != nil {
		s.logger.Error("job lock failed", zap.String("lock", lockName), zap.Error(err))
		return err
	}
	defer release()

	jobCtx, cancel := context.WithTimeout(ctx, s.lockExpiry)
	defer cancel()

	start := time.Now()
	if err := job(jobCtx); err != nil {
		s.logger.Error("job failed", zap.String("lock", lockName), zap.Duration("took", time.Since(start)), zap.Error(err))
		return err
	}
	s.logger.Debug("job finished", zap.String("lock", lockName), zap.Duration("took", time.Since(start)))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}
