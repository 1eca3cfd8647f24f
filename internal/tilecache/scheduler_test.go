package tilecache

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 2 * time.Millisecond
)

func TestSchedulePrefetch_QueuesAndFetchesPredictions(t *testing.T) {
	fetcher := &stubFetcher{}
	s := newTestService(t, Config{}, fetcher)

	s.RecordURL("A", "https://t.example/A/TMP/0/0/0.png")
	s.RecordURL("A", "https://t.example/A/TMP/0/1/0.png")

	queued := s.SchedulePrefetch("A", "B", 0)
	assert.Equal(t, 2, queued)

	require.Eventually(t, func() bool {
		return s.Stats().PrefetchSucceeded == 2
	}, waitFor, tick)

	assert.ElementsMatch(t, []string{
		"https://t.example/B/TMP/0/0/0.png",
		"https://t.example/B/TMP/0/1/0.png",
	}, fetcher.urls())

	stats := s.Stats()
	assert.Equal(t, uint64(2), stats.PrefetchQueued)
	assert.Zero(t, stats.PrefetchSkipped)
	assert.Zero(t, stats.QueueLength)
	assert.Zero(t, stats.InFlight)
}

func TestSchedulePrefetch_EmptyKeysNoOp(t *testing.T) {
	fetcher := &stubFetcher{}
	s := newTestService(t, Config{}, fetcher)

	s.RecordURL("A", "https://t.example/A/0.png")
	assert.Zero(t, s.SchedulePrefetch("", "B", 0))
	assert.Zero(t, s.SchedulePrefetch("A", "  ", 0))
	assert.Zero(t, s.Stats().PrefetchQueued)
}

func TestSchedulePrefetch_QueueOverflowKeepsNewest(t *testing.T) {
	fetcher := &stubFetcher{}
	s := newTestService(t, Config{MaxQueueSize: 1}, fetcher)

	s.RecordURL("A", "https://t.example/A/TMP/0/0/0.png")
	s.RecordURL("A", "https://t.example/A/TMP/0/1/0.png")

	queued := s.SchedulePrefetch("A", "B", 0)
	assert.Equal(t, 2, queued)

	require.Eventually(t, func() bool {
		return s.Stats().PrefetchSucceeded == 1
	}, waitFor, tick)

	// The most recently queued prediction wins; the older one is skipped.
	assert.Equal(t, []string{"https://t.example/B/TMP/0/1/0.png"}, fetcher.urls())
	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.PrefetchSkipped)
	assert.Equal(t, uint64(2), stats.PrefetchQueued)
}

func TestSchedulePrefetch_DeduplicatesCachedAndQueued(t *testing.T) {
	fetcher := &stubFetcher{}
	s := newTestService(t, Config{}, fetcher)

	s.RecordURL("A", "https://t.example/A/TMP/0/0/0.png")

	queued := s.SchedulePrefetch("A", "B", 0)
	assert.Equal(t, 1, queued)
	require.Eventually(t, func() bool {
		return s.Stats().PrefetchSucceeded == 1
	}, waitFor, tick)

	// A second schedule finds the prediction already cached.
	queued = s.SchedulePrefetch("A", "B", 0)
	assert.Zero(t, queued)
	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.PrefetchHits)
	assert.Equal(t, uint64(1), stats.PrefetchQueued)
	assert.Len(t, fetcher.urls(), 1)
}

func TestSchedulePrefetch_LimitCapsQueued(t *testing.T) {
	fetcher := &stubFetcher{}
	s := newTestService(t, Config{}, fetcher)

	for i := 0; i < 5; i++ {
		s.RecordURL("A", fmt.Sprintf("https://t.example/A/TMP/0/%d/0.png", i))
	}

	queued := s.SchedulePrefetch("A", "B", 2)
	assert.Equal(t, 2, queued)

	require.Eventually(t, func() bool {
		return s.Stats().PrefetchSucceeded == 2
	}, waitFor, tick)
	assert.Len(t, fetcher.urls(), 2)
}

func TestSchedulePrefetch_GateDeniedCountsSkipped(t *testing.T) {
	fetcher := &stubFetcher{}
	s := newTestService(t, Config{}, fetcher)
	s.SetNetworkStatus(NetworkStatus{Online: false})

	s.RecordURL("A", "https://t.example/A/TMP/0/0/0.png")
	s.RecordURL("A", "https://t.example/A/TMP/0/1/0.png")

	queued := s.SchedulePrefetch("A", "B", 0)
	assert.Zero(t, queued)

	stats := s.Stats()
	assert.Equal(t, uint64(2), stats.PrefetchSkipped)
	assert.Zero(t, stats.PrefetchQueued)
	assert.Empty(t, fetcher.urls())
}

func TestScheduler_CooldownAfterConsecutiveFailures(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("upstream down")}
	s := newTestService(t, Config{CooldownThreshold: 1}, fetcher)

	s.RecordURL("A", "https://t.example/A/TMP/0/0/0.png")
	require.Equal(t, 1, s.SchedulePrefetch("A", "B", 0))

	require.Eventually(t, func() bool {
		return s.IsPrefetchAllowed().Reason == ReasonCooldown
	}, waitFor, tick)

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.PrefetchFailed)
	assert.Zero(t, stats.EntriesCached, "failed prefetches must not be cached")
}

func TestScheduler_SuccessResetsConsecutiveErrors(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("flaky")}
	s := newTestService(t, Config{CooldownThreshold: 3}, fetcher)

	s.RecordURL("A", "https://t.example/A/TMP/0/0/0.png")
	require.Equal(t, 1, s.SchedulePrefetch("A", "B", 0))
	require.Eventually(t, func() bool {
		return s.Stats().PrefetchFailed == 1
	}, waitFor, tick)

	fetcher.setErr(nil)
	require.Equal(t, 1, s.SchedulePrefetch("A", "B", 0))
	require.Eventually(t, func() bool {
		return s.Stats().PrefetchSucceeded == 1
	}, waitFor, tick)

	s.mu.Lock()
	consec := s.consecErrors
	s.mu.Unlock()
	assert.Zero(t, consec)
	assert.True(t, s.IsPrefetchAllowed().Allowed)
}

func TestScheduler_ConcurrencyBound(t *testing.T) {
	fetcher := &stubFetcher{block: make(chan struct{})}
	s := newTestService(t, Config{MaxConcurrentPrefetch: 2}, fetcher)

	for i := 0; i < 4; i++ {
		s.RecordURL("A", fmt.Sprintf("https://t.example/A/TMP/0/%d/0.png", i))
	}
	require.Equal(t, 4, s.SchedulePrefetch("A", "B", 0))

	require.Eventually(t, func() bool {
		return s.Stats().InFlight == 2
	}, waitFor, tick)
	assert.Equal(t, 2, s.Stats().QueueLength)

	close(fetcher.block)

	require.Eventually(t, func() bool {
		return s.Stats().PrefetchSucceeded == 4
	}, waitFor, tick)
	assert.Zero(t, s.Stats().InFlight)
}

func TestScheduler_DrainsQueueWhenGateCloses(t *testing.T) {
	fetcher := &stubFetcher{block: make(chan struct{})}
	s := newTestService(t, Config{MaxConcurrentPrefetch: 1}, fetcher)

	for i := 0; i < 3; i++ {
		s.RecordURL("A", fmt.Sprintf("https://t.example/A/TMP/0/%d/0.png", i))
	}
	require.Equal(t, 3, s.SchedulePrefetch("A", "B", 0))

	require.Eventually(t, func() bool {
		return s.Stats().InFlight == 1
	}, waitFor, tick)
	require.Equal(t, 2, s.Stats().QueueLength)

	s.SetNetworkStatus(NetworkStatus{Online: false})
	close(fetcher.block)

	// The freed slot wakes the loop, which now drops the stale queue.
	require.Eventually(t, func() bool {
		stats := s.Stats()
		return stats.QueueLength == 0 && stats.PrefetchSkipped == 2
	}, waitFor, tick)
}

func TestScheduler_PredictionsStayReachable(t *testing.T) {
	fetcher := &stubFetcher{}
	s := newTestService(t, Config{}, fetcher)

	s.RecordURL("A", "https://t.example/A/TMP/0/0/0.png")
	require.Equal(t, 1, s.SchedulePrefetch("A", "B", 0))
	require.Eventually(t, func() bool {
		return s.Stats().PrefetchSucceeded == 1
	}, waitFor, tick)

	// The predicted URL is tracked under frame B, keeping its entry alive.
	s.mu.Lock()
	referenced := s.frames.references("https://t.example/B/TMP/0/0/0.png")
	s.mu.Unlock()
	assert.True(t, referenced)
	assert.Equal(t, 2, s.Stats().FramesTracked)
}
