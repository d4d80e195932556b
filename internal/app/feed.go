package app

import "sync"

// Feed is the ordered content stream the scroll gesture pages through.
// Position is clamped at the ends rather than wrapping.
type Feed struct {
	keys []string
	pos  int
	mu   sync.RWMutex
}

// NewFeed creates a feed over the given content keys, positioned at the
// first entry. A nil or empty key list yields an empty feed; Advance and
// Current are safe no-ops until keys are set.
func NewFeed(keys []string) *Feed {
	return &Feed{keys: keys}
}

// SetKeys replaces the feed contents and resets the position.
func (f *Feed) SetKeys(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = keys
	f.pos = 0
}

// Advance moves the feed position by delta whole steps, clamped to the
// feed's ends.
func (f *Feed) Advance(delta int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.keys) == 0 {
		return
	}
	f.pos += delta
	if f.pos < 0 {
		f.pos = 0
	}
	if f.pos >= len(f.keys) {
		f.pos = len(f.keys) - 1
	}
}

// Current returns the key at the current position, ok=false for an empty
// feed.
func (f *Feed) Current() (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.keys) == 0 {
		return "", false
	}
	return f.keys[f.pos], true
}

// Position returns the current index and feed length.
func (f *Feed) Position() (pos, total int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pos, len(f.keys)
}
