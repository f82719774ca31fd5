package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBBoxEdges(t *testing.T) {
	b := BBox{X: 10, Y: 20, W: 30, H: 40}
	assert.Equal(t, 40.0, b.Right())
	assert.Equal(t, 60.0, b.Bottom())
	assert.Equal(t, 40.0, b.CenterY())
}

func TestBBoxVerticalOverlap(t *testing.T) {
	a := BBox{Y: 100, H: 12}
	assert.Equal(t, 12.0, a.VerticalOverlap(BBox{Y: 100, H: 12}))
	assert.Equal(t, 4.0, a.VerticalOverlap(BBox{Y: 108, H: 12}))
	assert.Zero(t, a.VerticalOverlap(BBox{Y: 112, H: 12}))
	assert.Zero(t, a.VerticalOverlap(BBox{Y: 200, H: 12}))
}

func TestBBoxSameRow(t *testing.T) {
	a := BBox{Y: 100, H: 12}
	assert.True(t, a.SameRow(BBox{Y: 100, H: 12}))
	assert.True(t, a.SameRow(BBox{Y: 100, H: 6}))
	assert.False(t, a.SameRow(BBox{Y: 108, H: 12}))
	assert.False(t, a.SameRow(BBox{Y: 114, H: 12}))
	assert.False(t, a.SameRow(BBox{Y: 100, H: 0}))
}

func TestBBoxUnion(t *testing.T) {
	a := BBox{X: 72, Y: 100, W: 100, H: 12}
	b := BBox{X: 80, Y: 114, W: 200, H: 12}

	u := a.Union(b)
	assert.Equal(t, BBox{X: 72, Y: 100, W: 208, H: 26}, u)
}

func TestBBoxIsValid(t *testing.T) {
	assert.True(t, BBox{X: 0, Y: 0, W: 0, H: 0}.IsValid())
	assert.True(t, BBox{X: 72, Y: 100, W: 400, H: 12}.IsValid())
	assert.False(t, BBox{W: -1, H: 12}.IsValid())
	assert.False(t, BBox{X: math.NaN()}.IsValid())
	assert.False(t, BBox{Y: math.Inf(1)}.IsValid())
}
