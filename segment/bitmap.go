package segment

import (
	"fmt"
	"strings"

	errors "github.com/juju/errors"
)

// Bitmap is a fixed-size single plane bit vector, one bit per page.
type Bitmap struct {
	nbits int
	bf    []byte
}

func NewBitmap(nbits int) *Bitmap {
	if nbits < 0 {
		panic(fmt.Sprintf("negative bitmap size %d", nbits))
	}
	return &Bitmap{
		nbits: nbits,
		bf:    make([]byte, byteLen(nbits)),
	}
}

// BitmapFromBytes loads nbits bits packed LSB first, as written by Bytes.
func BitmapFromBytes(nbits int, buf []byte) (*Bitmap, error) {
	if nbits < 0 || len(buf) != byteLen(nbits) {
		return nil, errors.NotValidf("bitmap of %d bytes for %d bits", len(buf), nbits)
	}
	b := NewBitmap(nbits)
	copy(b.bf, buf)
	b.maskTail()
	return b, nil
}

func (b *Bitmap) Len() int {
	return b.nbits
}

func (b *Bitmap) check(i int) uint {
	if i < 0 || i >= b.nbits {
		panic(fmt.Sprintf("bitmap index %d out of range [0, %d)", i, b.nbits))
	}
	return uint(i)
}

func (b *Bitmap) Get(i int) bool {
	return getBit(b.bf, b.check(i))
}

func (b *Bitmap) Set(i int) {
	setBit(b.bf, b.check(i))
}

func (b *Bitmap) Clear(i int) {
	clearBit(b.bf, b.check(i))
}

func (b *Bitmap) ClearAll() {
	for i := range b.bf {
		b.bf[i] = 0
	}
}

// NextClearBit returns the first clear index at or after from, or Len() if
// every remaining bit is set.
func (b *Bitmap) NextClearBit(from int) int {
	if from < 0 {
		panic(fmt.Sprintf("bitmap index %d out of range [0, %d)", from, b.nbits))
	}
	if from >= b.nbits {
		return b.nbits
	}
	return int(nextClear(b.bf, uint(from), uint(b.nbits)))
}

func (b *Bitmap) Cardinality() int {
	return countRange(b.bf, 0, uint(b.nbits))
}

func (b *Bitmap) AllSet() bool {
	return b.Cardinality() == b.nbits
}

// Or sets every bit that is set in other. Both bitmaps must have the same size.
func (b *Bitmap) Or(other *Bitmap) {
	if other.nbits != b.nbits {
		panic(fmt.Sprintf("or of bitmaps with %d and %d bits", b.nbits, other.nbits))
	}
	for i := range b.bf {
		b.bf[i] |= other.bf[i]
	}
}

func (b *Bitmap) Invert() {
	for i := range b.bf {
		b.bf[i] = ^b.bf[i]
	}
	b.maskTail()
}

// maskTail keeps the unused bits of the last byte zero.
func (b *Bitmap) maskTail() {
	if rem := uint(b.nbits % 8); rem != 0 {
		b.bf[len(b.bf)-1] &= byte(1<<rem) - 1
	}
}

func (b *Bitmap) Bytes() []byte {
	out := make([]byte, len(b.bf))
	copy(out, b.bf)
	return out
}

func (b *Bitmap) Equal(other *Bitmap) bool {
	if other == nil || b.nbits != other.nbits {
		return false
	}
	for i := range b.bf {
		if b.bf[i] != other.bf[i] {
			return false
		}
	}
	return true
}

func (b *Bitmap) String() string {
	return formatBits(b.bf, 0, uint(b.nbits))
}

func formatBits(bf []byte, from, end uint) string {
	var sb strings.Builder
	sb.Grow(int(end - from))
	for i := from; i < end; i++ {
		if getBit(bf, i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
