package tilecache

import (
	"sync"
	"time"

	"github.com/DankerMu/Digital-earth-sub001/pkg/logger"
	"github.com/DankerMu/Digital-earth-sub001/pkg/metrics"
)

// Service owns every piece of tile cache bookkeeping: the frame/URL index,
// the memoized fetch results, the prefetch queue and the policy state.
// Each globe instance gets its own Service; nothing is shared at package
// scope. One mutex guards all state, so invariants hold after every
// mutation regardless of which goroutine drove it.
type Service struct {
	mu sync.Mutex

	cfg     Config
	initial Config

	frames  *frameIndex
	results *resultCache
	queue   *prefetchQueue

	inFlight      int
	consecErrors  int
	cooldownUntil time.Time

	network       NetworkStatus
	degraded      bool
	degradedSwept bool

	stats counters

	fetcher URLFetcher
	log     logger.Logger
	now     func() time.Time

	wake      chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

// New builds a Service around the given prefetch transport and starts its
// scheduler loop. Non-positive config fields fall back to defaults.
func New(cfg Config, fetcher URLFetcher, l logger.Logger) *Service {
	if l == nil {
		l = &logger.NoOpLogger{}
	}
	applied := cfg.merged(DefaultConfig())
	s := &Service{
		cfg:     applied,
		initial: applied,
		frames:  newFrameIndex(),
		results: newResultCache(),
		queue:   newPrefetchQueue(),
		network: defaultNetworkStatus(),
		fetcher: fetcher,
		log:     l,
		now:     time.Now,
		wake:    make(chan struct{}, 1),
		closed:  make(chan struct{}),
	}
	go s.runLoop()
	return s
}

// Close stops the scheduler loop. In-flight fetches finish on their own.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

// Configure applies a partial config update. Fields left non-positive keep
// their current value. Tightened bounds take effect immediately, which may
// evict frames and drop queued predictions.
func (s *Service) Configure(partial Config) Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = partial.merged(s.cfg)
	s.applyBoundsLocked()
	s.log.Info("cache config updated", "config", s.cfg)
	return s.cfg
}

// ResetConfig restores the config the Service was constructed with.
func (s *Service) ResetConfig() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = s.initial
	s.applyBoundsLocked()
	return s.cfg
}

// Config returns the currently applied config.
func (s *Service) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Service) applyBoundsLocked() {
	evicted := s.frames.enforceFrameBound(s.cfg.MaxFrames)
	s.cleanupEvictedLocked(evicted)
	for s.queue.len() > s.cfg.MaxQueueSize {
		if _, ok := s.queue.dropOldest(); !ok {
			break
		}
		s.stats.prefetchSkipped++
		metrics.PrefetchSkipped.Inc()
	}
}

// RecordURL registers a tile URL as belonging to an animation frame and
// enforces the frame/URL bounds. Cache entries whose URL is no longer
// referenced by any surviving frame are dropped.
func (s *Service) RecordURL(frameKey, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordURLLocked(frameKey, url)
}

func (s *Service) recordURLLocked(frameKey, url string) {
	evicted := s.frames.recordURL(frameKey, url, s.cfg.MaxURLsPerFrame, s.cfg.MaxFrames)
	s.cleanupEvictedLocked(evicted)
}

// cleanupEvictedLocked drops result entries for URLs that no frame lists
// anymore. Must run after the index mutation is complete, since
// reachability is recomputed from the post-eviction index.
func (s *Service) cleanupEvictedLocked(urls []string) {
	for _, url := range urls {
		if !s.frames.references(url) {
			s.results.remove(url)
		}
	}
}

// leaseLive serves a live (render-blocking) request. A hit returns the
// memoized outcome; a miss registers a pending attempt the caller must
// complete via completeLive, so concurrent requests for the same URL
// coalesce onto one fetch.
func (s *Service) leaseLive(url string) (*fetchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res, ok := s.results.get(url); ok {
		s.stats.liveHits++
		metrics.LiveHits.Inc()
		return res, true
	}
	s.stats.liveMisses++
	metrics.LiveMisses.Inc()
	return s.results.begin(url), false
}

// completeLive publishes a live fetch outcome. Failed fetches are never
// cached: the entry is removed (generation-checked) so the next request
// retries cleanly.
func (s *Service) completeLive(res *fetchResult, data []byte, err error) {
	if err != nil {
		s.mu.Lock()
		s.results.removeAttempt(res.url, res.gen)
		s.mu.Unlock()
	}
	res.resolve(data, err)
}

// SetNetworkStatus replaces the connectivity signals used by the policy
// gate.
func (s *Service) SetNetworkStatus(status NetworkStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = status
}

// SetDegradedPerformance toggles degraded-performance mode. Entering the
// mode clears the cache exactly once per transition, so a memoized fetch
// from the previous mode cannot leak across.
func (s *Service) SetDegradedPerformance(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.degraded = active
	if !active {
		s.degradedSwept = false
		return
	}
	if !s.degradedSwept {
		s.degradedSwept = true
		s.clearLocked()
		s.log.Info("degraded performance mode entered, cache cleared")
	}
}

func (s *Service) degradedPerformance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// IsPrefetchAllowed evaluates the policy gate. The decision is computed
// fresh on every call; checks are ordered by severity and the first match
// wins.
func (s *Service) IsPrefetchAllowed() Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decideLocked(s.now())
}

func (s *Service) decideLocked(now time.Time) Decision {
	if s.degraded {
		return denied(ReasonPerformanceMode)
	}
	if !s.network.Online {
		return denied(ReasonOffline)
	}
	if !s.cooldownUntil.IsZero() && now.Before(s.cooldownUntil) {
		return denied(ReasonCooldown)
	}
	if s.network.SaveData {
		return denied(ReasonSaveData)
	}
	if tier := s.network.EffectiveType; slowTiers[tier] {
		return denied(reasonLowBandwidthPrefix + tier)
	}
	return allowed()
}

// ClearCache forgets all cached outcomes, frame bookkeeping and queued
// predictions. Fetches already in flight are not cancelled; their attempt
// generations stop them from resurrecting stale entries.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Service) clearLocked() {
	s.results.clear()
	s.frames.clear()
	s.queue.clear()
}

// Stats snapshots the counters and derives the gauges.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		LiveHits:          s.stats.liveHits,
		LiveMisses:        s.stats.liveMisses,
		PrefetchHits:      s.stats.prefetchHits,
		PrefetchMisses:    s.stats.prefetchMisses,
		PrefetchQueued:    s.stats.prefetchQueued,
		PrefetchSkipped:   s.stats.prefetchSkipped,
		PrefetchSucceeded: s.stats.prefetchSucceeded,
		PrefetchFailed:    s.stats.prefetchFailed,
		FramesTracked:     s.frames.frameCount(),
		URLsTracked:       s.frames.urlCount(),
		EntriesCached:     s.results.len(),
		QueueLength:       s.queue.len(),
		InFlight:          s.inFlight,
	}
}

// ResetStats zeroes the counters. Gauges are untouched since they reflect
// live state.
func (s *Service) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = counters{}
}
