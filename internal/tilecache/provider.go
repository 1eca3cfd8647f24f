package tilecache

import "context"

// TileProvider is the render surface's tile fetch entry point. The cache
// layers in front of any implementation; everything beyond RequestImage is
// discovered through the optional capability interfaces below.
type TileProvider interface {
	RequestImage(ctx context.Context, x, y, level int) ([]byte, error)
}

// URLTemplater exposes the provider's URL template. Without it no
// canonical URL can be derived and caching is bypassed.
type URLTemplater interface {
	URLTemplate() string
}

// TilingScheme reports how many tiles the provider addresses per axis at
// a zoom level, used for the {reverseX}/{reverseY} placeholders.
type TilingScheme interface {
	XTilesAtLevel(level int) int
	YTilesAtLevel(level int) int
}

// MaximumLeveler reports the deepest zoom level, used for {reverseZ}.
type MaximumLeveler interface {
	MaximumLevel() (int, bool)
}

// TileSizer reports the pixel size of one tile, used for {width}/{height}.
type TileSizer interface {
	TileSize() (width, height int)
}

// URLFetcher is the transport the prefetch scheduler uses for predicted
// URLs, where only the concrete URL is known.
type URLFetcher interface {
	FetchURL(ctx context.Context, url string) ([]byte, error)
}
