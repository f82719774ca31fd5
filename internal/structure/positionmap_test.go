package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPositionMap_MergesAndClamps(t *testing.T) {
	m := NewPositionMap(20, []Span{
		{Start: 5, End: 8},
		{Start: 7, End: 10},  // overlaps previous
		{Start: 15, End: 30}, // clamped to text end
		{Start: 12, End: 12}, // empty, dropped
		{Start: -3, End: 2},  // clamped to zero
	})

	assert.Equal(t, []Span{{Start: 0, End: 2}, {Start: 5, End: 10}, {Start: 15, End: 20}}, m.Removed())
	assert.Equal(t, 20, m.OriginalLen())
	assert.Equal(t, 8, m.CleanLen())
}

func TestPositionMap_Empty(t *testing.T) {
	m := NewPositionMap(10, nil)

	assert.Equal(t, 10, m.CleanLen())
	for off := 0; off <= 10; off++ {
		assert.Equal(t, off, m.ToClean(off))
		assert.Equal(t, off, m.ToOriginal(off))
	}
	assert.Equal(t, "hello", m.Apply("hello"))
}

func TestPositionMap_ToClean(t *testing.T) {
	// "aaaaaXXXbbbb" with XXX removed at [5,8)
	m := NewPositionMap(12, []Span{{Start: 5, End: 8}})

	tests := []struct {
		name string
		orig int
		want int
	}{
		{"before removal", 3, 3},
		{"at removal start", 5, 5},
		{"inside removal snaps to start", 6, 5},
		{"just past removal", 8, 5},
		{"after removal", 10, 7},
		{"text end", 12, 9},
		{"negative clamps", -1, 0},
		{"past end clamps", 99, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ToClean(tt.orig))
		})
	}
}

func TestPositionMap_RoundTrip(t *testing.T) {
	m := NewPositionMap(30, []Span{{Start: 4, End: 7}, {Start: 12, End: 20}})

	// Every offset outside a removed interval survives the round trip.
	for orig := 0; orig < 30; orig++ {
		inRemoved := (orig >= 4 && orig < 7) || (orig >= 12 && orig < 20)
		if inRemoved {
			continue
		}
		clean := m.ToClean(orig)
		require.Equal(t, orig, m.ToOriginal(clean), "round trip for offset %d", orig)
	}
}

func TestPositionMap_Apply(t *testing.T) {
	text := "The 42 quick fox"
	m := NewPositionMap(len(text), []Span{{Start: 4, End: 7}})

	cleaned := m.Apply(text)
	assert.Equal(t, "The quick fox", cleaned)
	assert.Equal(t, len(cleaned), m.CleanLen())
}

func TestPositionMap_SpanMapping(t *testing.T) {
	text := "header\nbody text here"
	m := NewPositionMap(len(text), []Span{{Start: 0, End: 7}})

	clean := m.SpanToClean(Span{Start: 7, End: 11})
	assert.Equal(t, Span{Start: 0, End: 4}, clean)

	back := m.SpanToOriginal(clean)
	assert.Equal(t, Span{Start: 7, End: 11}, back)
}

func TestSpan_Basics(t *testing.T) {
	s := Span{Start: 3, End: 7}

	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Contains(3))
	assert.True(t, s.Contains(6))
	assert.False(t, s.Contains(7))
	assert.True(t, s.Overlaps(Span{Start: 6, End: 9}))
	assert.False(t, s.Overlaps(Span{Start: 7, End: 9}))
}
