package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigger_EdgeOnly(t *testing.T) {
	var tr Trigger

	assert.False(t, tr.Observe(false))
	assert.True(t, tr.Observe(true), "hidden to visible fires")
	assert.False(t, tr.Observe(true), "staying visible does not fire")
	assert.False(t, tr.Observe(true))
	assert.False(t, tr.Observe(false))
	assert.True(t, tr.Observe(true), "a new edge fires again")
}

func TestTrigger_Rearm(t *testing.T) {
	var tr Trigger
	assert.True(t, tr.Observe(true))
	assert.False(t, tr.Observe(true))

	tr.Rearm()
	assert.True(t, tr.Observe(true), "rearmed sentinel counts as newly visible")
}

func TestSentinelVisible(t *testing.T) {
	tests := []struct {
		name   string
		cursor int
		n      int
		margin int
		want   bool
	}{
		{name: "empty list", cursor: 0, n: 0, margin: 2, want: false},
		{name: "top of long list", cursor: 0, n: 12, margin: 2, want: false},
		{name: "just outside margin", cursor: 8, n: 12, margin: 2, want: false},
		{name: "inside margin", cursor: 9, n: 12, margin: 2, want: true},
		{name: "last row", cursor: 11, n: 12, margin: 0, want: true},
		{name: "second to last without margin", cursor: 10, n: 12, margin: 0, want: false},
		{name: "negative margin", cursor: 11, n: 12, margin: -3, want: true},
		{name: "short list", cursor: 0, n: 2, margin: 2, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SentinelVisible(tt.cursor, tt.n, tt.margin))
		})
	}
}
