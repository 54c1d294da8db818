package unitdesc

import (
	"bytes"

	errors "github.com/juju/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/pyd/go-sbs/consts"
	"github.com/pyd/go-sbs/geometry"
	"github.com/pyd/go-sbs/segment"
)

// Descriptor is a checked segment unit descriptor block. The bitmap
// persisted in it is the one the segment unit owns.
type Descriptor struct {
	*Accessor
	geo *geometry.Geometry
}

// Open checks blk and wraps it. The blk has to be geo.UnitDescDataLength in
// size.
func Open(blk []byte, geo *geometry.Geometry) (*Descriptor, error) {
	if int64(len(blk)) != geo.UnitDescDataLength {
		return nil, errors.Trace(errBlockSizeDifferent)
	}

	d := &Descriptor{
		Accessor: NewAccessor(blk),
		geo:      geo,
	}
	if err := d.checks(); err != nil {
		return nil, errors.Trace(err)
	}
	return d, nil
}

func (d *Descriptor) checks() error {
	if d.Magic() != consts.SegmentUnitMagic {
		return errMagicMissMatch
	}
	if d.Version() != version {
		return errWrongVersion
	}
	if d.Flags()&reservedMask != 0 {
		return errFlagsReserved
	}

	u := d.UUID()
	if uuid.Equal(u, uuid.Nil) {
		return errUUIDNil
	}
	if !uuid.Equal(u, d.SecondaryUUID()) {
		return errUUIDCopyMissMatch
	}

	if int(d.PageCount()) != d.geo.PagesPerSegment {
		return errPageCountDifferent
	}

	if !isJustZero(d.blk[zeroStart:zeroEnd]) {
		return errZeroPartIsNotZeroed
	}
	return nil
}

func isJustZero(buf []byte) bool {
	return len(bytes.TrimLeft(buf, "\x00")) == 0
}

func (d *Descriptor) IsCloned() bool {
	return d.Flags()&FlagCloned != 0
}

// Bitmap decodes the persisted unit bitmap.
func (d *Descriptor) Bitmap() (*segment.UnitBitmap, error) {
	n := int(d.PageCount())
	region := d.BitmapRegion()
	l := segment.BitmapLength(n)
	if l > len(region) {
		return nil, errors.NotValidf("bitmap of %d bytes in a %d byte region", l, len(region))
	}
	if !isJustZero(region[l:]) {
		return nil, errors.Trace(errZeroPartIsNotZeroed)
	}
	bm, err := segment.DecodeUnitBitmap(region[:l], n)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return bm, nil
}

// SaveBitmap writes bm back into the block.
func (d *Descriptor) SaveBitmap(bm *segment.UnitBitmap) error {
	if bm.PageCount() != d.geo.PagesPerSegment {
		return errors.Trace(errPageCountDifferent)
	}
	return errors.Trace(NewWriter(d.blk).SetBitmap(bm))
}

// SetFlags replaces the non reserved flags.
func (d *Descriptor) SetFlags(f uint16) error {
	if f&reservedMask != 0 {
		return errors.Trace(errFlagsReserved)
	}
	NewWriter(d.blk).SetFlags(f)
	return nil
}
