package tilecache

import (
	"context"
	"sync"
	"testing"

	"github.com/DankerMu/Digital-earth-sub001/pkg/logger"
)

// stubFetcher records prefetch fetches and can be made to fail or block.
type stubFetcher struct {
	mu      sync.Mutex
	fetched []string
	err     error
	data    []byte
	block   chan struct{}
}

func (f *stubFetcher) FetchURL(ctx context.Context, url string) ([]byte, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	err := f.err
	data := f.data
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte("tile")
	}
	return data, nil
}

func (f *stubFetcher) urls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.fetched))
	copy(out, f.fetched)
	return out
}

func (f *stubFetcher) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// stubProvider is a minimal render surface: a URL template plus a counting
// RequestImage.
type stubProvider struct {
	template string

	mu    sync.Mutex
	calls int
	err   error
	data  []byte
}

func (p *stubProvider) RequestImage(ctx context.Context, x, y, level int) ([]byte, error) {
	p.mu.Lock()
	p.calls++
	err := p.err
	data := p.data
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte("image")
	}
	return data, nil
}

func (p *stubProvider) URLTemplate() string {
	return p.template
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// bareProvider has no URL template capability at all.
type bareProvider struct {
	stub stubProvider
}

func (p *bareProvider) RequestImage(ctx context.Context, x, y, level int) ([]byte, error) {
	return p.stub.RequestImage(ctx, x, y, level)
}

// fullProvider exposes every optional capability.
type fullProvider struct {
	stub     stubProvider
	maxLevel int
	width    int
	height   int
}

func (p *fullProvider) RequestImage(ctx context.Context, x, y, level int) ([]byte, error) {
	return p.stub.RequestImage(ctx, x, y, level)
}

func (p *fullProvider) URLTemplate() string {
	return p.stub.template
}

func (p *fullProvider) XTilesAtLevel(level int) int {
	return 1 << uint(level)
}

func (p *fullProvider) YTilesAtLevel(level int) int {
	return 1 << uint(level)
}

func (p *fullProvider) MaximumLevel() (int, bool) {
	if p.maxLevel <= 0 {
		return 0, false
	}
	return p.maxLevel, true
}

func (p *fullProvider) TileSize() (int, int) {
	return p.width, p.height
}

func newTestService(t *testing.T, cfg Config, fetcher URLFetcher) *Service {
	t.Helper()
	if fetcher == nil {
		fetcher = &stubFetcher{}
	}
	s := New(cfg, fetcher, &logger.NoOpLogger{})
	t.Cleanup(s.Close)
	return s
}
