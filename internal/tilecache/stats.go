package tilecache

// Stats is a point-in-time snapshot of the cache counters and gauges.
// Counters only ever grow until ResetStats; gauges are derived from the
// current state of the frame index, the result cache and the scheduler.
type Stats struct {
	LiveHits          uint64 `json:"liveHits"`
	LiveMisses        uint64 `json:"liveMisses"`
	PrefetchHits      uint64 `json:"prefetchHits"`
	PrefetchMisses    uint64 `json:"prefetchMisses"`
	PrefetchQueued    uint64 `json:"prefetchQueued"`
	PrefetchSkipped   uint64 `json:"prefetchSkipped"`
	PrefetchSucceeded uint64 `json:"prefetchSucceeded"`
	PrefetchFailed    uint64 `json:"prefetchFailed"`

	FramesTracked int `json:"framesTracked"`
	URLsTracked   int `json:"urlsTracked"`
	EntriesCached int `json:"entriesCached"`
	QueueLength   int `json:"queueLength"`
	InFlight      int `json:"inFlight"`
}

type counters struct {
	liveHits          uint64
	liveMisses        uint64
	prefetchHits      uint64
	prefetchMisses    uint64
	prefetchQueued    uint64
	prefetchSkipped   uint64
	prefetchSucceeded uint64
	prefetchFailed    uint64
}
