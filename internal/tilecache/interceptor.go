package tilecache

import (
	"context"
	"strings"
	"sync"
)

// Interceptor decorates a TileProvider so cache hits short-circuit the
// real fetch and misses populate the cache as a side effect. It is an
// explicit wrapper composed by the caller; the provider itself is never
// mutated.
type Interceptor struct {
	svc      *Service
	provider TileProvider

	mu       sync.Mutex
	frameKey string
}

var _ TileProvider = (*Interceptor)(nil)

// AttachCache wraps a provider for the given animation frame. Passing an
// already-wrapped provider rebinds its frame key and returns it unchanged,
// so repeated attachment never stacks a second interception layer.
func (s *Service) AttachCache(p TileProvider, frameKey string) *Interceptor {
	if ic, ok := p.(*Interceptor); ok {
		ic.SetFrameKey(frameKey)
		return ic
	}
	return &Interceptor{
		svc:      s,
		provider: p,
		frameKey: strings.TrimSpace(frameKey),
	}
}

// SetFrameKey rebinds the interceptor to a new active frame.
func (ic *Interceptor) SetFrameKey(frameKey string) {
	ic.mu.Lock()
	ic.frameKey = strings.TrimSpace(frameKey)
	ic.mu.Unlock()
}

func (ic *Interceptor) activeFrame() string {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.frameKey
}

// Unwrap returns the decorated provider.
func (ic *Interceptor) Unwrap() TileProvider {
	return ic.provider
}

// RequestImage serves a tile for the render surface. Degraded-performance
// mode, a missing URL template or a missing frame key all bypass the cache
// and delegate straight through: the cache must never be the reason a
// frame fails to render. Live fetch errors propagate to the caller.
func (ic *Interceptor) RequestImage(ctx context.Context, x, y, level int) ([]byte, error) {
	if ic.svc.degradedPerformance() {
		return ic.provider.RequestImage(ctx, x, y, level)
	}

	url := BuildTileURL(ic.provider, x, y, level)
	frameKey := ic.activeFrame()
	if url == "" || frameKey == "" {
		return ic.provider.RequestImage(ctx, x, y, level)
	}

	ic.svc.RecordURL(frameKey, url)

	res, hit := ic.svc.leaseLive(url)
	if hit {
		return res.Wait(ctx)
	}

	data, err := ic.provider.RequestImage(ctx, x, y, level)
	ic.svc.completeLive(res, data, err)
	return data, err
}
