package tilecache

import "time"

// Config holds the tunables for the frame index, the result cache and the
// prefetch scheduler. All values must be positive; anything else falls back
// to the previous (or default) value when applied.
type Config struct {
	MaxFrames             int
	MaxURLsPerFrame       int
	MaxPrefetchPerFrame   int
	MaxQueueSize          int
	MaxConcurrentPrefetch int
	CooldownThreshold     int
	CooldownWindow        time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxFrames:             6,
		MaxURLsPerFrame:       512,
		MaxPrefetchPerFrame:   64,
		MaxQueueSize:          256,
		MaxConcurrentPrefetch: 6,
		CooldownThreshold:     3,
		CooldownWindow:        30 * time.Second,
	}
}

// merged applies c on top of prev field by field. Non-positive fields keep
// the previous value, so a partial or malformed update can never zero out
// a bound.
func (c Config) merged(prev Config) Config {
	out := prev
	if c.MaxFrames > 0 {
		out.MaxFrames = c.MaxFrames
	}
	if c.MaxURLsPerFrame > 0 {
		out.MaxURLsPerFrame = c.MaxURLsPerFrame
	}
	if c.MaxPrefetchPerFrame > 0 {
		out.MaxPrefetchPerFrame = c.MaxPrefetchPerFrame
	}
	if c.MaxQueueSize > 0 {
		out.MaxQueueSize = c.MaxQueueSize
	}
	if c.MaxConcurrentPrefetch > 0 {
		out.MaxConcurrentPrefetch = c.MaxConcurrentPrefetch
	}
	if c.CooldownThreshold > 0 {
		out.CooldownThreshold = c.CooldownThreshold
	}
	if c.CooldownWindow > 0 {
		out.CooldownWindow = c.CooldownWindow
	}
	return out
}
