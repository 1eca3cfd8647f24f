package tilecache

import (
	"container/list"
	"context"
)

// fetchResult is the in-flight-or-completed outcome of one tile fetch
// attempt. It starts pending; resolve publishes the data or error and
// closes done. The generation number identifies the attempt, so a stale
// completion can never clobber bookkeeping for a newer attempt on the
// same URL.
type fetchResult struct {
	url  string
	gen  uint64
	done chan struct{}
	data []byte
	err  error
}

func (r *fetchResult) resolve(data []byte, err error) {
	r.data = data
	r.err = err
	close(r.done)
}

// Wait blocks until the fetch completes or ctx is cancelled.
func (r *fetchResult) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-r.done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resultCache memoizes fetch outcomes per URL with LRU touch-on-read.
// Failed outcomes are removed by the owning service; an entry is only kept
// while some frame still references its URL.
type resultCache struct {
	order *list.List
	items map[string]*list.Element
	gen   uint64
}

func newResultCache() *resultCache {
	return &resultCache{
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

// get returns the entry for url, marking it most recently used.
func (c *resultCache) get(url string) (*fetchResult, bool) {
	elem, ok := c.items[url]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*fetchResult), true
}

func (c *resultCache) contains(url string) bool {
	_, ok := c.items[url]
	return ok
}

// begin registers a fresh pending attempt for url, replacing any previous
// entry for the same URL.
func (c *resultCache) begin(url string) *fetchResult {
	c.remove(url)
	c.gen++
	res := &fetchResult{
		url:  url,
		gen:  c.gen,
		done: make(chan struct{}),
	}
	c.items[url] = c.order.PushFront(res)
	return res
}

func (c *resultCache) remove(url string) {
	if elem, ok := c.items[url]; ok {
		c.order.Remove(elem)
		delete(c.items, url)
	}
}

// removeAttempt removes the entry for url only while it still belongs to
// the given attempt; a newer attempt for the same URL is left alone.
func (c *resultCache) removeAttempt(url string, gen uint64) {
	elem, ok := c.items[url]
	if !ok {
		return
	}
	if elem.Value.(*fetchResult).gen != gen {
		return
	}
	c.order.Remove(elem)
	delete(c.items, url)
}

func (c *resultCache) len() int {
	return c.order.Len()
}

func (c *resultCache) clear() {
	c.order.Init()
	c.items = make(map[string]*list.Element)
}
