package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DankerMu/Digital-earth-sub001/internal/tilecache"
	"github.com/DankerMu/Digital-earth-sub001/pkg/config"
	"github.com/DankerMu/Digital-earth-sub001/pkg/logger"
	"github.com/DankerMu/Digital-earth-sub001/pkg/metrics"
)

// Provider fetches tiles from an external slippy-map tile server. It is
// the collaborator the cache layers in front of: it exposes its URL
// template, tiling scheme and tile size so the cache can reconstruct and
// rewrite canonical tile URLs.
type Provider struct {
	template   string
	client     *http.Client
	maxLevel   int
	tileWidth  int
	tileHeight int
	userAgent  string
	referer    string
	log        logger.Logger
}

var (
	_ tilecache.TileProvider   = (*Provider)(nil)
	_ tilecache.URLFetcher     = (*Provider)(nil)
	_ tilecache.URLTemplater   = (*Provider)(nil)
	_ tilecache.TilingScheme   = (*Provider)(nil)
	_ tilecache.MaximumLeveler = (*Provider)(nil)
	_ tilecache.TileSizer      = (*Provider)(nil)
)

func New(cfg config.Upstream, l logger.Logger) *Provider {
	return &Provider{
		template: cfg.TileURLTemplate,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxLevel:   cfg.MaximumLevel,
		tileWidth:  cfg.TileWidth,
		tileHeight: cfg.TileHeight,
		userAgent:  cfg.UserAgent,
		referer:    cfg.Referer,
		log:        l,
	}
}

func (p *Provider) URLTemplate() string {
	return p.template
}

// XTilesAtLevel reports the web-mercator tile count per axis, 2^level.
func (p *Provider) XTilesAtLevel(level int) int {
	return 1 << uint(level)
}

func (p *Provider) YTilesAtLevel(level int) int {
	return 1 << uint(level)
}

func (p *Provider) MaximumLevel() (int, bool) {
	if p.maxLevel <= 0 {
		return 0, false
	}
	return p.maxLevel, true
}

func (p *Provider) TileSize() (int, int) {
	return p.tileWidth, p.tileHeight
}

// RequestImage fetches the tile at (x, y, level) from the tile server.
func (p *Provider) RequestImage(ctx context.Context, x, y, level int) ([]byte, error) {
	url := tilecache.BuildTileURL(p, x, y, level)
	if url == "" {
		return nil, fmt.Errorf("no tile URL template configured")
	}
	return p.FetchURL(ctx, url)
}

// FetchURL performs one HTTP GET for a concrete tile URL.
func (p *Provider) FetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Tile usage policies require identifying headers.
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	if p.referer != "" {
		req.Header.Set("Referer", p.referer)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("upstream fetch failed", "url", url, "error", err)
		return nil, fmt.Errorf("failed to fetch tile from upstream: %w", err)
	}
	defer resp.Body.Close()

	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		p.log.Warn("upstream returned non-200", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	tileData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tile data: %w", err)
	}

	p.log.Debug("fetched tile from upstream", "url", url, "size", len(tileData))

	return tileData, nil
}
