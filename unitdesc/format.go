package unitdesc

import (
	errors "github.com/juju/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/pyd/go-sbs/geometry"
	"github.com/pyd/go-sbs/segment"
)

// Format writes a fresh descriptor for a unit with no written pages.
func Format(blk []byte, geo *geometry.Geometry, archive uuid.UUID, id segment.SegId) error {
	return format(blk, geo, archive, id, 0, segment.NewUnitBitmap(geo.PagesPerSegment))
}

// FormatClone writes the descriptor of a unit cloned from a parent whose
// written pages are given by parentData.
func FormatClone(blk []byte, geo *geometry.Geometry, archive uuid.UUID, id segment.SegId,
	parentData *segment.Bitmap) error {
	if parentData.Len() != geo.PagesPerSegment {
		return errors.NotValidf("clone parent bitmap of %d pages", parentData.Len())
	}
	bm := segment.NewUnitBitmap(geo.PagesPerSegment)
	bm.InitForClone(parentData)
	return format(blk, geo, archive, id, FlagCloned, bm)
}

func format(blk []byte, geo *geometry.Geometry, archive uuid.UUID, id segment.SegId,
	flags uint16, bm *segment.UnitBitmap) error {
	if int64(len(blk)) != geo.UnitDescDataLength {
		return errors.Trace(errBlockSizeDifferent)
	}
	if uuid.Equal(archive, uuid.Nil) {
		return errors.Trace(errUUIDNil)
	}

	for i := range blk {
		blk[i] = byte(0)
	}

	w := NewWriter(blk)
	w.SetMagic()
	w.SetVersion(version)
	w.SetFlags(flags)
	w.SetUUID(archive)
	w.SetSegID(id)
	if err := w.SetBitmap(bm); err != nil {
		return errors.Trace(err)
	}
	w.ZeroOutZeros()

	return nil
}
