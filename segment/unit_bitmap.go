package segment

import (
	binenc "encoding/binary"
	"fmt"

	errors "github.com/juju/errors"
)

var (
	binary binenc.ByteOrder = binenc.LittleEndian
)

// Plane selects one of the two bit planes of a UnitBitmap.
type Plane int

const (
	// Data marks pages that have been written at least once.
	Data Plane = iota
	// Migration marks pages that still have to be copied in, either from a
	// clone parent or from another segment unit member.
	Migration
)

func (p Plane) String() string {
	switch p {
	case Data:
		return "data"
	case Migration:
		return "migration"
	}
	return fmt.Sprintf("plane(%d)", int(p))
}

const pageCountPrefixSize = 4

// BitmapLength is the serialized size of a UnitBitmap for pageCount pages:
// the page count prefix followed by both planes packed together.
func BitmapLength(pageCount int) int {
	return pageCountPrefixSize + (pageCount+3)/4
}

// UnitBitmap tracks the Data and Migration state of every page of a segment
// unit. Both planes share one bit vector: Data holds bits [0, pageCount) and
// Migration holds bits [pageCount, 2*pageCount).
//
// UnitBitmap does no locking, the owning segment unit serializes access.
type UnitBitmap struct {
	pageCount int
	bf        []byte
}

func NewUnitBitmap(pageCount int) *UnitBitmap {
	if pageCount < 0 {
		panic(fmt.Sprintf("negative page count %d", pageCount))
	}
	return &UnitBitmap{
		pageCount: pageCount,
		bf:        make([]byte, byteLen(2*pageCount)),
	}
}

// UnitBitmapFromBytes decodes the output of Bytes. The buffer length must
// match BitmapLength of the page count it carries.
func UnitBitmapFromBytes(buf []byte) (*UnitBitmap, error) {
	if len(buf) < pageCountPrefixSize {
		return nil, errors.Trace(ErrBitmapTooShort)
	}
	pageCount := int(binary.Uint32(buf[:pageCountPrefixSize]))
	if pageCount < 0 || len(buf) != BitmapLength(pageCount) {
		return nil, errors.NotValidf("unit bitmap of %d bytes for %d pages", len(buf), pageCount)
	}

	u := NewUnitBitmap(pageCount)
	copy(u.bf, buf[pageCountPrefixSize:])
	if rem := uint(2 * pageCount % 8); rem != 0 {
		u.bf[len(u.bf)-1] &= byte(1<<rem) - 1
	}
	return u, nil
}

// DecodeUnitBitmap is UnitBitmapFromBytes for a caller that knows how many
// pages the unit has.
func DecodeUnitBitmap(buf []byte, pageCount int) (*UnitBitmap, error) {
	if len(buf) != BitmapLength(pageCount) {
		return nil, errors.NotValidf("unit bitmap of %d bytes, expected %d",
			len(buf), BitmapLength(pageCount))
	}
	u, err := UnitBitmapFromBytes(buf)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if u.pageCount != pageCount {
		return nil, errors.NotValidf("unit bitmap for %d pages, expected %d",
			u.pageCount, pageCount)
	}
	return u, nil
}

func (u *UnitBitmap) PageCount() int {
	return u.pageCount
}

func (u *UnitBitmap) planeStart(p Plane) uint {
	switch p {
	case Data:
		return 0
	case Migration:
		return uint(u.pageCount)
	}
	panic(fmt.Sprintf("unknown bitmap %v", p))
}

func (u *UnitBitmap) index(i int, p Plane) uint {
	if i < 0 || i >= u.pageCount {
		panic(fmt.Sprintf("page index %d out of range [0, %d)", i, u.pageCount))
	}
	return u.planeStart(p) + uint(i)
}

func (u *UnitBitmap) Get(i int, p Plane) bool {
	return getBit(u.bf, u.index(i, p))
}

func (u *UnitBitmap) Set(i int, p Plane) {
	setBit(u.bf, u.index(i, p))
}

func (u *UnitBitmap) Clear(i int, p Plane) {
	clearBit(u.bf, u.index(i, p))
}

// ClearPlane clears every bit of p and leaves the other plane alone.
func (u *UnitBitmap) ClearPlane(p Plane) {
	start := u.planeStart(p)
	end := start + uint(u.pageCount)
	i := start
	for i < end {
		if i%8 == 0 && i+8 <= end {
			u.bf[i/8] = 0
			i += 8
			continue
		}
		clearBit(u.bf, i)
		i++
	}
}

// NextClearBit returns the smallest page index >= from whose bit in p is
// clear, or PageCount() when there is none.
func (u *UnitBitmap) NextClearBit(from int, p Plane) int {
	if from < 0 {
		panic(fmt.Sprintf("page index %d out of range [0, %d)", from, u.pageCount))
	}
	if from >= u.pageCount {
		return u.pageCount
	}
	start := u.planeStart(p)
	return int(nextClear(u.bf, start+uint(from), start+uint(u.pageCount)) - start)
}

func (u *UnitBitmap) Cardinality(p Plane) int {
	start := u.planeStart(p)
	return countRange(u.bf, start, start+uint(u.pageCount))
}

func (u *UnitBitmap) AllSet(p Plane) bool {
	return u.Cardinality(p) == u.pageCount
}

// Plane returns a copy of one plane.
func (u *UnitBitmap) Plane(p Plane) *Bitmap {
	b := NewBitmap(u.pageCount)
	start := u.planeStart(p)
	for i := 0; i < u.pageCount; i++ {
		if getBit(u.bf, start+uint(i)) {
			setBit(b.bf, uint(i))
		}
	}
	return b
}

// InitForClone splits the pages of a cloned unit by the parent's data
// bitmap: pages with inherited data get Data, the rest get Migration.
func (u *UnitBitmap) InitForClone(src *Bitmap) {
	if src.Len() != u.pageCount {
		panic(fmt.Sprintf("clone source has %d bits, unit has %d pages", src.Len(), u.pageCount))
	}
	for i := 0; i < u.pageCount; i++ {
		if src.Get(i) {
			u.Set(i, Data)
			u.Clear(i, Migration)
		} else {
			u.Set(i, Migration)
			u.Clear(i, Data)
		}
	}
}

func (u *UnitBitmap) Bytes() []byte {
	out := make([]byte, BitmapLength(u.pageCount))
	binary.PutUint32(out[:pageCountPrefixSize], uint32(u.pageCount))
	copy(out[pageCountPrefixSize:], u.bf)
	return out
}

func (u *UnitBitmap) Equal(other *UnitBitmap) bool {
	if other == nil || u.pageCount != other.pageCount {
		return false
	}
	for i := range u.bf {
		if u.bf[i] != other.bf[i] {
			return false
		}
	}
	return true
}

func (u *UnitBitmap) String() string {
	n := uint(u.pageCount)
	return "data:" + formatBits(u.bf, 0, n) + " migration:" + formatBits(u.bf, n, 2*n)
}
