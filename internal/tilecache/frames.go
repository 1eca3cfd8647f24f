package tilecache

import (
	"container/list"
	"strings"
)

// urlSet is an ordered set of URL strings with LRU discipline.
// Front = most recently touched, back = least recently touched.
type urlSet struct {
	order *list.List
	items map[string]*list.Element
}

func newURLSet() *urlSet {
	return &urlSet{
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

// touch inserts url at the front, or moves it there if already present.
func (s *urlSet) touch(url string) {
	if elem, ok := s.items[url]; ok {
		s.order.MoveToFront(elem)
		return
	}
	s.items[url] = s.order.PushFront(url)
}

func (s *urlSet) contains(url string) bool {
	_, ok := s.items[url]
	return ok
}

// removeOldest evicts the least recently touched URL.
func (s *urlSet) removeOldest() (string, bool) {
	oldest := s.order.Back()
	if oldest == nil {
		return "", false
	}
	url := oldest.Value.(string)
	s.order.Remove(oldest)
	delete(s.items, url)
	return url, true
}

func (s *urlSet) len() int {
	return s.order.Len()
}

// oldestFirst returns the URLs from least to most recently touched.
func (s *urlSet) oldestFirst() []string {
	urls := make([]string, 0, s.order.Len())
	for elem := s.order.Back(); elem != nil; elem = elem.Prev() {
		urls = append(urls, elem.Value.(string))
	}
	return urls
}

type frameEntry struct {
	key  string
	urls *urlSet
}

// frameIndex remembers which tile URLs belong to which animation frame.
// Both the frames and the URLs within a frame follow the same
// touch-moves-to-front LRU discipline.
type frameIndex struct {
	order  *list.List
	frames map[string]*list.Element
}

func newFrameIndex() *frameIndex {
	return &frameIndex{
		order:  list.New(),
		frames: make(map[string]*list.Element),
	}
}

// recordURL registers url under frameKey, touching both, and enforces the
// per-frame and frame-count bounds. It returns the URLs evicted in the
// process so the caller can re-check cache reachability for them.
// Empty keys and URLs (after trimming) are ignored.
func (ix *frameIndex) recordURL(frameKey, url string, maxURLs, maxFrames int) []string {
	frameKey = strings.TrimSpace(frameKey)
	url = strings.TrimSpace(url)
	if frameKey == "" || url == "" {
		return nil
	}

	var entry *frameEntry
	if elem, ok := ix.frames[frameKey]; ok {
		ix.order.MoveToFront(elem)
		entry = elem.Value.(*frameEntry)
	} else {
		entry = &frameEntry{key: frameKey, urls: newURLSet()}
		ix.frames[frameKey] = ix.order.PushFront(entry)
	}
	entry.urls.touch(url)

	var evicted []string
	for entry.urls.len() > maxURLs {
		old, ok := entry.urls.removeOldest()
		if !ok {
			break
		}
		evicted = append(evicted, old)
	}
	evicted = append(evicted, ix.enforceFrameBound(maxFrames)...)
	return evicted
}

// enforceFrameBound evicts least-recently-touched frames until the frame
// count is within maxFrames, returning every URL they held.
func (ix *frameIndex) enforceFrameBound(maxFrames int) []string {
	var evicted []string
	for ix.order.Len() > maxFrames {
		oldest := ix.order.Back()
		if oldest == nil {
			break
		}
		entry := oldest.Value.(*frameEntry)
		ix.order.Remove(oldest)
		delete(ix.frames, entry.key)
		for url, ok := entry.urls.removeOldest(); ok; url, ok = entry.urls.removeOldest() {
			evicted = append(evicted, url)
		}
	}
	return evicted
}

// urls returns the URLs recorded for frameKey, least recently touched first.
func (ix *frameIndex) urls(frameKey string) []string {
	elem, ok := ix.frames[strings.TrimSpace(frameKey)]
	if !ok {
		return nil
	}
	return elem.Value.(*frameEntry).urls.oldestFirst()
}

// references reports whether any tracked frame still lists url.
func (ix *frameIndex) references(url string) bool {
	for elem := ix.order.Front(); elem != nil; elem = elem.Next() {
		if elem.Value.(*frameEntry).urls.contains(url) {
			return true
		}
	}
	return false
}

func (ix *frameIndex) frameCount() int {
	return ix.order.Len()
}

func (ix *frameIndex) urlCount() int {
	total := 0
	for elem := ix.order.Front(); elem != nil; elem = elem.Next() {
		total += elem.Value.(*frameEntry).urls.len()
	}
	return total
}

func (ix *frameIndex) clear() {
	ix.order.Init()
	ix.frames = make(map[string]*list.Element)
}
