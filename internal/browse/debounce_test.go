package browse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_OnlyLatestFires(t *testing.T) {
	d := NewDebouncer(500*time.Millisecond, "")

	// keystrokes at t=0, 100ms and 200ms; each schedules its own timer
	s1 := d.Input("d")
	s2 := d.Input("du")
	s3 := d.Input("dune")

	_, ok := d.Fire(s1)
	assert.False(t, ok, "timer for t=0 was superseded")
	_, ok = d.Fire(s2)
	assert.False(t, ok, "timer for t=100ms was superseded")

	v, ok := d.Fire(s3)
	assert.True(t, ok)
	assert.Equal(t, "dune", v)

	_, ok = d.Fire(s3)
	assert.False(t, ok, "a sequence fires at most once")
}

func TestDebouncer_SettlingOnSameValue(t *testing.T) {
	d := NewDebouncer(DefaultDebounce, "")

	s := d.Input("x")
	s = d.Input("")
	_, ok := d.Fire(s)
	assert.False(t, ok, "value returned to the last emitted one")

	s = d.Input("tolkien")
	v, ok := d.Fire(s)
	assert.True(t, ok)
	assert.Equal(t, "tolkien", v)

	s = d.Input("tolkien")
	_, ok = d.Fire(s)
	assert.False(t, ok)
}

func TestDebouncer_Flush(t *testing.T) {
	d := NewDebouncer(DefaultDebounce, "")

	_, ok := d.Flush()
	assert.False(t, ok, "nothing pending")

	s := d.Input("austen")
	v, ok := d.Flush()
	assert.True(t, ok)
	assert.Equal(t, "austen", v)
	_, ok = d.Fire(s)
	assert.False(t, ok, "flushed timer does not fire again")

	s = d.Input("bronte")
	d.Input("austen")
	_, ok = d.Fire(s)
	assert.False(t, ok)
	_, ok = d.Flush()
	assert.False(t, ok, "austen was already emitted")
}

func TestDebouncer_Window(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, NewDebouncer(DefaultDebounce, "").Window())
	assert.Equal(t, time.Duration(0), NewDebouncer(-time.Second, "").Window())
}
