package browse

import "time"

const DefaultDebounce = 500 * time.Millisecond

// Debouncer holds back rapid input until it has been stable for one window.
// The caller schedules a timer for each sequence returned by Input and
// hands it back to Fire when it expires; only the latest one emits.
type Debouncer struct {
	window  time.Duration
	seq     uint64
	pending string
	armed   bool
	last    string
}

// NewDebouncer starts with initial as the last emitted value, so settling
// back on it emits nothing.
func NewDebouncer(window time.Duration, initial string) *Debouncer {
	if window < 0 {
		window = 0
	}
	return &Debouncer{window: window, last: initial}
}

func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Input records a new value and returns the sequence its timer must carry.
// Any earlier timer is implicitly cancelled.
func (d *Debouncer) Input(value string) uint64 {
	d.seq++
	d.pending = value
	d.armed = true
	return d.seq
}

// Fire is called when the timer for seq expires. It returns the settled
// value and true if seq is still the latest and the value changed.
func (d *Debouncer) Fire(seq uint64) (string, bool) {
	if !d.armed || seq != d.seq {
		return "", false
	}
	d.armed = false
	if d.pending == d.last {
		return "", false
	}
	d.last = d.pending
	return d.pending, true
}

// Flush emits the pending value immediately, as on an explicit submit.
func (d *Debouncer) Flush() (string, bool) {
	return d.Fire(d.seq)
}
