package unitdesc

import (
	errors "github.com/juju/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/pyd/go-sbs/consts"
	"github.com/pyd/go-sbs/segment"
)

// Writer allows to modify a descriptor block, it doesn't check anything
type Writer struct {
	blk []byte
}

// NewWriter creates new Writer instance
func NewWriter(blk []byte) *Writer {
	return &Writer{
		blk: blk,
	}
}

func (w *Writer) SetMagic() {
	binary.PutUint64(w.blk[magicStart:magicEnd], consts.SegmentUnitMagic)
}

func (w *Writer) SetVersion(v uint16) {
	binary.PutUint16(w.blk[versionStart:versionEnd], v)
}

func (w *Writer) SetFlags(f uint16) {
	binary.PutUint16(w.blk[flagsStart:flagsEnd], f)
}

// SetUUID writes both Primary and Secondary UUID
func (w *Writer) SetUUID(u uuid.UUID) {
	copy(w.blk[uuidStart:uuidEnd], u[:])
	copy(w.blk[uuidCopyStart:uuidCopyEnd], u[:])
}

func (w *Writer) SetSegID(id segment.SegId) {
	id.PutBytes(w.blk[segIDStart:segIDEnd])
}

func (w *Writer) SetPageCount(n uint32) {
	binary.PutUint32(w.blk[pageCountStart:pageCountEnd], n)
}

// SetBitmap stores bm in the bitmap region and zeroes the padding after it.
func (w *Writer) SetBitmap(bm *segment.UnitBitmap) error {
	region := NewAccessor(w.blk).BitmapRegion()
	buf := bm.Bytes()
	if len(buf) > len(region) {
		return errors.NotValidf("bitmap of %d bytes for a %d byte region", len(buf), len(region))
	}
	n := copy(region, buf)
	for i := range region[n:] {
		region[n+i] = byte(0)
	}
	w.SetPageCount(uint32(bm.PageCount()))
	return nil
}

func (w *Writer) ZeroOutZeros() {
	for i := zeroStart; i < zeroEnd; i++ {
		w.blk[i] = byte(0)
	}
}
