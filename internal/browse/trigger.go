package browse

// Trigger turns sentinel visibility into load-more signals. It fires on
// the hidden to visible edge only, so a sentinel that stays in view while
// a page is loading does not produce a burst of requests.
type Trigger struct {
	visible bool
}

// Observe records the sentinel visibility and reports whether it just
// became visible.
func (t *Trigger) Observe(visible bool) bool {
	fire := visible && !t.visible
	t.visible = visible
	return fire
}

// Rearm forgets the last observation. Call it after the list has grown
// so a still-visible sentinel counts as newly visible.
func (t *Trigger) Rearm() {
	t.visible = false
}

// SentinelVisible reports whether the cursor is within margin rows of the
// last of n rows.
func SentinelVisible(cursor, n, margin int) bool {
	if n == 0 {
		return false
	}
	if margin < 0 {
		margin = 0
	}
	return cursor >= n-1-margin
}
