package tilecache

import (
	"context"
	"strings"

	"github.com/DankerMu/Digital-earth-sub001/pkg/metrics"
)

// SchedulePrefetch derives the next frame's predicted tile URLs from the
// URLs known for the current frame and queues the ones not already cached
// or queued. maxPrefetch caps how many URLs this call may queue;
// non-positive values use MaxPrefetchPerFrame. When the queue is full the
// oldest queued prediction is dropped in favor of the new one, since the
// newest prediction is the closest to what the user is looking at.
// Returns the number of URLs queued.
func (s *Service) SchedulePrefetch(currentFrame, nextFrame string, maxPrefetch int) int {
	currentFrame = strings.TrimSpace(currentFrame)
	nextFrame = strings.TrimSpace(nextFrame)
	if currentFrame == "" || nextFrame == "" {
		return 0
	}

	s.mu.Lock()
	limit := maxPrefetch
	if limit <= 0 {
		limit = s.cfg.MaxPrefetchPerFrame
	}

	// Oldest first, so the most recently requested tile ends up at the
	// tail of the queue and is serviced first.
	known := s.frames.urls(currentFrame)

	if dec := s.decideLocked(s.now()); !dec.Allowed {
		skipped := 0
		for _, url := range known {
			if _, ok := PredictFrameURL(url, currentFrame, nextFrame); ok {
				skipped++
			}
		}
		s.stats.prefetchSkipped += uint64(skipped)
		metrics.PrefetchSkipped.Add(float64(skipped))
		s.log.Debug("prefetch not allowed", "reason", dec.Reason, "skipped", skipped)
		s.mu.Unlock()
		return 0
	}

	queued := 0
	for _, url := range known {
		if queued >= limit {
			break
		}
		predicted, ok := PredictFrameURL(url, currentFrame, nextFrame)
		if !ok {
			continue
		}
		if s.results.contains(predicted) {
			s.stats.prefetchHits++
			continue
		}
		s.stats.prefetchMisses++
		if s.queue.contains(predicted) {
			continue
		}
		if s.queue.len() >= s.cfg.MaxQueueSize {
			if _, ok := s.queue.dropOldest(); ok {
				s.stats.prefetchSkipped++
				metrics.PrefetchSkipped.Inc()
			}
		}
		s.queue.push(predicted)
		queued++
		s.stats.prefetchQueued++
		metrics.PrefetchQueued.Inc()
		// Track the predicted URL under its frame so the cached result
		// stays reachable and ages out with the frame.
		s.recordURLLocked(nextFrame, predicted)
	}
	s.mu.Unlock()

	if queued > 0 {
		s.kick()
	}
	return queued
}

// kick wakes the scheduler loop. The capacity-1 channel coalesces bursts
// of wakeups into a single pass; the loop is never entered inline from
// SchedulePrefetch or config changes.
func (s *Service) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Service) runLoop() {
	for {
		select {
		case <-s.closed:
			return
		case <-s.wake:
		}
		s.dispatch()
	}
}

// dispatch drains the queue into workers, newest prediction first, while
// the policy gate permits prefetching and a concurrency slot is free. When
// the gate denies, the whole queue is dropped as skipped rather than held
// as stale predictions.
func (s *Service) dispatch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.queue.len() > 0 {
		dec := s.decideLocked(s.now())
		if !dec.Allowed {
			dropped := s.queue.clear()
			s.stats.prefetchSkipped += uint64(dropped)
			metrics.PrefetchSkipped.Add(float64(dropped))
			s.log.Debug("prefetch queue drained", "reason", dec.Reason, "dropped", dropped)
			return
		}
		if s.inFlight >= s.cfg.MaxConcurrentPrefetch {
			return
		}
		url, _ := s.queue.popNewest()
		s.inFlight++
		res := s.results.begin(url)
		go s.prefetch(url, res)
	}
}

// prefetch performs one speculative fetch. Errors are absorbed here, never
// surfaced to a caller: the entry is dropped and the failure feeds the
// cooldown circuit breaker. The in-flight slot is released in a deferred
// path so the counter cannot drift, and the freed slot immediately wakes
// the loop.
func (s *Service) prefetch(url string, res *fetchResult) {
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
		s.kick()
	}()

	data, err := s.fetcher.FetchURL(context.Background(), url)

	s.mu.Lock()
	if err != nil {
		s.stats.prefetchFailed++
		metrics.PrefetchFailed.Inc()
		s.consecErrors++
		s.results.removeAttempt(url, res.gen)
		if s.consecErrors >= s.cfg.CooldownThreshold {
			s.cooldownUntil = s.now().Add(s.cfg.CooldownWindow)
			s.log.Warn("prefetch cooldown armed",
				"consecutiveErrors", s.consecErrors,
				"window", s.cfg.CooldownWindow,
			)
		}
		s.log.Debug("prefetch failed", "url", url, "error", err)
	} else {
		s.stats.prefetchSucceeded++
		metrics.PrefetchSucceeded.Inc()
		s.consecErrors = 0
	}
	s.mu.Unlock()

	res.resolve(data, err)
}
