package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/types"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type DashboardServiceInterface interface {
	GetStats(ctx context.Context) (*types.DashboardStats, error)
}

// DashboardService serves the landing page counters from Redis when possible.
// A broken cache never fails the request.
type DashboardService struct {
	repo   repositories.DashboardRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	ttl    time.Duration
	logger *zap.Logger
}

func NewDashboardService(
	repo repositories.DashboardRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (s *DashboardService) GetStats(ctx context.Context) (*types.DashboardStats, error) {
	if _, err := utils.GetActorFromCtx(ctx); err != nil {
		return nil, err
	}

	if cached, err := s.cache.Get(ctx, constants.CacheKeyDashboardStats); err == nil {
		var stats types.DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
		s.logger.Warn("dashboard cache entry is corrupt, recomputing")
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	}

	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, constants.CacheKeyDashboardStats, payload, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}
