package tilecache

// prefetchQueue is a bounded deque of predicted tile URLs with a
// companion membership set. New URLs are pushed at the tail; the runner
// pops from the tail as well, so the newest prediction is serviced first.
// On overflow the caller drops the oldest item at the head.
type prefetchQueue struct {
	items  []string
	member map[string]struct{}
}

func newPrefetchQueue() *prefetchQueue {
	return &prefetchQueue{
		member: make(map[string]struct{}),
	}
}

func (q *prefetchQueue) contains(url string) bool {
	_, ok := q.member[url]
	return ok
}

func (q *prefetchQueue) push(url string) {
	q.items = append(q.items, url)
	q.member[url] = struct{}{}
}

// dropOldest removes the head of the queue to free capacity for a newer
// prediction.
func (q *prefetchQueue) dropOldest() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	url := q.items[0]
	q.items = q.items[1:]
	delete(q.member, url)
	return url, true
}

// popNewest removes and returns the tail of the queue.
func (q *prefetchQueue) popNewest() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	url := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	delete(q.member, url)
	return url, true
}

func (q *prefetchQueue) len() int {
	return len(q.items)
}

func (q *prefetchQueue) clear() int {
	n := len(q.items)
	q.items = nil
	q.member = make(map[string]struct{})
	return n
}
