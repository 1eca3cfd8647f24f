package usecase

import (
	"context"
	"sync"

	"github.com/DankerMu/Digital-earth-sub001/internal/tilecache"
	"github.com/DankerMu/Digital-earth-sub001/pkg/logger"
)

// TileUseCase drives the tile cache for the HTTP surface. It keeps the
// wrapped provider surface around so re-attaching on every frame change
// rebinds the frame key instead of stacking interceptors.
type TileUseCase struct {
	svc    *tilecache.Service
	logger logger.Logger

	mu      sync.Mutex
	surface tilecache.TileProvider
}

func NewTileUseCase(svc *tilecache.Service, provider tilecache.TileProvider, l logger.Logger) *TileUseCase {
	return &TileUseCase{
		svc:     svc,
		logger:  l,
		surface: provider,
	}
}

// GetTile serves a live tile request for the given frame through the
// caching interceptor.
func (uc *TileUseCase) GetTile(ctx context.Context, frameKey string, x, y, z int) ([]byte, error) {
	uc.mu.Lock()
	ic := uc.svc.AttachCache(uc.surface, frameKey)
	uc.surface = ic
	uc.mu.Unlock()

	data, err := ic.RequestImage(ctx, x, y, z)
	if err != nil {
		uc.logger.Error("failed to get tile", "frame", frameKey, "z", z, "x", x, "y", y, "error", err)
		return nil, err
	}
	return data, nil
}

// Prefetch predicts and queues the next frame's tiles.
func (uc *TileUseCase) Prefetch(currentFrame, nextFrame string, maxPrefetch int) int {
	queued := uc.svc.SchedulePrefetch(currentFrame, nextFrame, maxPrefetch)
	uc.logger.Debug("prefetch scheduled", "current", currentFrame, "next", nextFrame, "queued", queued)
	return queued
}

func (uc *TileUseCase) PrefetchAllowed() tilecache.Decision {
	return uc.svc.IsPrefetchAllowed()
}

func (uc *TileUseCase) SetNetworkStatus(status tilecache.NetworkStatus) {
	uc.logger.Info("network status updated",
		"online", status.Online,
		"saveData", status.SaveData,
		"effectiveType", status.EffectiveType,
	)
	uc.svc.SetNetworkStatus(status)
}

func (uc *TileUseCase) SetDegradedPerformance(active bool) {
	uc.logger.Info("performance mode updated", "degraded", active)
	uc.svc.SetDegradedPerformance(active)
}

func (uc *TileUseCase) Stats() tilecache.Stats {
	return uc.svc.Stats()
}

func (uc *TileUseCase) ResetStats() {
	uc.svc.ResetStats()
}

func (uc *TileUseCase) Configure(partial tilecache.Config) tilecache.Config {
	return uc.svc.Configure(partial)
}

func (uc *TileUseCase) ResetConfig() tilecache.Config {
	return uc.svc.ResetConfig()
}

func (uc *TileUseCase) ClearCache() {
	uc.logger.Info("cache cleared on request")
	uc.svc.ClearCache()
}
