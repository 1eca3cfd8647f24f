package tilecache

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildTileURL reconstructs the concrete request URL for a tile from the
// provider's URL template. Placeholders that cannot be resolved from the
// provider's capabilities are left verbatim. Returns "" when the provider
// has no usable template.
func BuildTileURL(p TileProvider, x, y, level int) string {
	templater, ok := p.(URLTemplater)
	if !ok {
		return ""
	}
	template := strings.TrimSpace(templater.URLTemplate())
	if template == "" {
		return ""
	}

	pairs := []string{
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
		"{z}", strconv.Itoa(level),
	}

	if scheme, ok := p.(TilingScheme); ok {
		pairs = append(pairs,
			"{reverseX}", strconv.Itoa(scheme.XTilesAtLevel(level)-x-1),
			"{reverseY}", strconv.Itoa(scheme.YTilesAtLevel(level)-y-1),
		)
	} else {
		pairs = append(pairs,
			"{reverseX}", strconv.Itoa(x),
			"{reverseY}", strconv.Itoa(y),
		)
	}

	reverseZ := level
	if leveler, ok := p.(MaximumLeveler); ok {
		if max, known := leveler.MaximumLevel(); known {
			reverseZ = max - level
		}
	}
	pairs = append(pairs, "{reverseZ}", strconv.Itoa(reverseZ))

	if sizer, ok := p.(TileSizer); ok {
		width, height := sizer.TileSize()
		pairs = append(pairs,
			"{width}", strconv.Itoa(width),
			"{height}", strconv.Itoa(height),
		)
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

// PredictFrameURL rewrites the time-key segment of a tile URL from one
// frame key to another. Both keys are percent-encoded before matching; a
// clean path segment match is preferred, with a bare substring replacement
// as fallback. Returns false when the source key does not appear at all.
func PredictFrameURL(rawURL, fromKey, toKey string) (string, bool) {
	from := url.PathEscape(strings.TrimSpace(fromKey))
	to := url.PathEscape(strings.TrimSpace(toKey))
	if rawURL == "" || from == "" || to == "" {
		return "", false
	}

	fromSegment := "/" + from + "/"
	if strings.Contains(rawURL, fromSegment) {
		return strings.Replace(rawURL, fromSegment, "/"+to+"/", 1), true
	}
	if strings.Contains(rawURL, from) {
		return strings.Replace(rawURL, from, to, 1), true
	}
	return "", false
}
