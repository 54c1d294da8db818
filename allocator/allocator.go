package allocator

import (
	"github.com/chzyer/logex"
	errors "github.com/juju/errors"

	"github.com/pyd/go-sbs/geometry"
	"github.com/pyd/go-sbs/page"
	"github.com/pyd/go-sbs/segment"
)

// Placement says where a segment unit lives.
type Placement struct {
	SegID               segment.SegId
	UnitOffsetInArchive int64
	Storage             page.Storage
}

// Allocator hands out runs of unwritten pages of one segment unit, using the
// Data plane of the unit's bitmap as the free map. It is owned by a single
// writer, like the bitmap.
type Allocator struct {
	unit Placement
	bm   *segment.UnitBitmap
	geo  *geometry.Geometry

	tip int
}

func Open(unit Placement, bm *segment.UnitBitmap, geo *geometry.Geometry) *Allocator {
	return &Allocator{
		unit: unit,
		bm:   bm,
		geo:  geo,
	}
}

func (a *Allocator) ResetTip() {
	a.tip = 0
}

// PageAddress returns the address of page index in the unit.
func (a *Allocator) PageAddress(index int) *page.Real {
	return page.NewReal(a.unit.SegID, a.unit.UnitOffsetInArchive,
		int64(index)*a.geo.PhysicalPageSize, a.unit.Storage)
}

// PageIndex maps an address of this unit back to its page index.
func (a *Allocator) PageIndex(addr page.Address) (int, error) {
	r, ok := addr.(*page.Real)
	if !ok || r == nil {
		return 0, errors.NotValidf("page index of %v", addr)
	}
	if r.UnitOffsetInArchive() != a.unit.UnitOffsetInArchive || !page.SameStorage(r.Storage(), a.unit.Storage) {
		return 0, errors.NotValidf("page %v outside unit %v", addr, a.unit.SegID)
	}
	if r.OffsetInSegment()%a.geo.PhysicalPageSize != 0 {
		return 0, errors.NotValidf("unaligned page offset %d", r.OffsetInSegment())
	}
	idx := r.OffsetInSegment() / a.geo.PhysicalPageSize
	if idx < 0 || idx >= int64(a.bm.PageCount()) {
		return 0, errors.NotValidf("page offset %d beyond unit", r.OffsetInSegment())
	}
	return int(idx), nil
}

// Allocate marks count consecutive unwritten pages as written and returns
// them as one run. The scan starts at the tip and wraps to the start of the
// unit once.
func (a *Allocator) Allocate(count int) (page.MultiAddress, error) {
	if count < 1 {
		return page.MultiAddress{}, errors.NotValidf("allocation of %d pages", count)
	}

	start, ok := a.find(a.tip, count)
	if !ok && a.tip != 0 {
		start, ok = a.find(0, count)
	}
	if !ok {
		logex.Info("segment unit ", a.unit.SegID, " has no run of ", count, " free pages")
		return page.MultiAddress{}, errors.Trace(ErrOutOfSpace)
	}

	b := page.NewBuilder(a.PageAddress(start), a.geo.PhysicalPageSize)
	a.bm.Set(start, segment.Data)
	for i := start + 1; i < start+count; i++ {
		if !b.Append(a.PageAddress(i)) {
			panic("consecutive pages not adjacent, this SHOULD NOT happen")
		}
		a.bm.Set(i, segment.Data)
	}
	a.tip = start + count
	return b.Build(), nil
}

func (a *Allocator) find(from, count int) (int, bool) {
	n := a.bm.PageCount()
outer:
	for from < n {
		start := a.bm.NextClearBit(from, segment.Data)
		if start+count > n {
			return 0, false
		}
		for i := start + 1; i < start+count; i++ {
			if a.bm.Get(i, segment.Data) {
				from = i + 1
				continue outer
			}
		}
		return start, true
	}
	return 0, false
}

// Free clears the Data bits of a run allocated from this unit.
func (a *Allocator) Free(run page.MultiAddress) error {
	start, err := a.PageIndex(run.Start())
	if err != nil {
		return errors.Trace(err)
	}
	if start+run.Count() > a.bm.PageCount() {
		return errors.NotValidf("run %v beyond unit", run)
	}
	for i := start; i < start+run.Count(); i++ {
		a.bm.Clear(i, segment.Data)
	}
	if start < a.tip {
		a.tip = start
	}
	return nil
}
