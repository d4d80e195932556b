package gesture

import "time"

// Debouncer smooths noisy per-frame boolean signals. Each signal, keyed by
// a string identifier, keeps a fixed-length ring of raw samples; the
// smoothed value is "majority true" (at least 60% of the window). A
// smoothed transition away from the committed value must then survive a
// settle duration before the committed value flips; single-frame flicker
// resets the settle timer instead of emitting a transition.
type Debouncer struct {
	window  int
	settle  time.Duration
	signals map[string]*signalState
}

// majorityNum/majorityDen is the fraction of the window that must be true
// for the smoothed value to read true.
const (
	majorityNum = 3
	majorityDen = 5
)

type signalState struct {
	samples []bool
	idx     int
	filled  int

	committed      bool
	candidate      bool
	candidateSince time.Time // zero when no pending transition
}

// NewDebouncer creates a Debouncer with the given ring length and settle
// duration. Non-positive arguments select the defaults (4 samples, 100ms).
func NewDebouncer(window int, settle time.Duration) *Debouncer {
	if window <= 0 {
		window = 4
	}
	if settle <= 0 {
		settle = 100 * time.Millisecond
	}
	return &Debouncer{
		window:  window,
		settle:  settle,
		signals: make(map[string]*signalState),
	}
}

// Update feeds one raw sample for the signal identified by key and returns
// the committed value plus whether it changed on this call.
func (d *Debouncer) Update(key string, raw bool, now time.Time) (value, changed bool) {
	st := d.signals[key]
	if st == nil {
		st = &signalState{samples: make([]bool, d.window)}
		d.signals[key] = st
	}

	st.samples[st.idx] = raw
	st.idx = (st.idx + 1) % d.window
	if st.filled < d.window {
		st.filled++
	}

	smoothed := st.majority()

	if smoothed == st.committed {
		// No transition pending; discard any candidate.
		st.candidateSince = time.Time{}
		return st.committed, false
	}

	if st.candidateSince.IsZero() || st.candidate != smoothed {
		st.candidate = smoothed
		st.candidateSince = now
		return st.committed, false
	}

	if now.Sub(st.candidateSince) >= d.settle {
		st.committed = smoothed
		st.candidateSince = time.Time{}
		return st.committed, true
	}

	return st.committed, false
}

// Value returns the committed value for key without feeding a sample.
func (d *Debouncer) Value(key string) bool {
	if st := d.signals[key]; st != nil {
		return st.committed
	}
	return false
}

// Reset discards all state for key.
func (d *Debouncer) Reset(key string) {
	delete(d.signals, key)
}

func (st *signalState) majority() bool {
	trues := 0
	for i := 0; i < st.filled; i++ {
		if st.samples[i] {
			trues++
		}
	}
	return trues*majorityDen >= majorityNum*st.filled && st.filled > 0
}
