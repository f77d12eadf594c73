package listeners

import (
	"context"

	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/events"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/eventbus"
)

// CacheListener drops cached dashboard numbers whenever the underlying data changes.
type CacheListener struct {
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

func NewCacheListener(cache repositories.CacheRepositoryInterface, logger *zap.Logger) *CacheListener {
	return &CacheListener{cache: cache, logger: logger}
}

func (l *CacheListener) Register(bus *eventbus.Bus) {
	for _, name := range []string{
		events.RequestCreated,
		events.RequestUpdated,
		events.RequestDeleted,
		events.EquipmentChanged,
		events.EquipmentScrapped,
	} {
		bus.Subscribe(name, l.invalidate)
	}
}

func (l *CacheListener) invalidate(ctx context.Context, event eventbus.Event) error {
	if err := l.cache.Del(ctx, constants.CacheKeyDashboardStats); err != nil {
		return err
	}
	l.logger.Debug("dashboard cache invalidated", zap.String("event", event.Name()))
	return nil
}
