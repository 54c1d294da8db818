package segment

import (
	"testing"

	errors "github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestBitmapOps(t *testing.T) {
	b := NewBitmap(10)
	b.Set(0)
	b.Set(1)
	b.Set(9)
	assert.Equal(t, 3, b.Cardinality())
	assert.Equal(t, 2, b.NextClearBit(0))
	assert.Equal(t, 10, b.NextClearBit(9), "no clear bit after the last one")

	b.Invert()
	assert.Equal(t, 7, b.Cardinality(), "invert should not count tail bits")
	assert.Equal(t, 0, b.NextClearBit(0))

	o := NewBitmap(10)
	o.Set(0)
	b.Or(o)
	assert.True(t, b.Get(0))
	assert.Equal(t, 8, b.Cardinality())

	b.ClearAll()
	assert.Equal(t, 0, b.Cardinality())
	assert.False(t, b.AllSet())
}

func TestBitmapBytes(t *testing.T) {
	b := NewBitmap(12)
	b.Set(2)
	b.Set(11)

	c, err := BitmapFromBytes(12, b.Bytes())
	assert.NoError(t, err)
	assert.True(t, b.Equal(c))
	assert.Equal(t, "001000000001", c.String())

	_, err = BitmapFromBytes(12, []byte{0})
	assert.True(t, errors.IsNotValid(err), "wrong length should be rejected")
}

func TestBitmapPanics(t *testing.T) {
	b := NewBitmap(3)
	assert.Panics(t, func() { b.Set(3) })
	assert.Panics(t, func() { b.NextClearBit(-1) })
	assert.Panics(t, func() { b.Or(NewBitmap(4)) })
}
