package page

import (
	"fmt"
	"math"
	"sync/atomic"

	errors "github.com/juju/errors"

	"github.com/pyd/go-sbs/geometry"
	"github.com/pyd/go-sbs/segment"
)

// Address is the location of a page. It is implemented by *Real for pages
// placed in an archive, *Bogus for pages that have no place yet and
// *Garbage for shadow pages whose source was never written.
//
// Operations a variant cannot support return an error satisfying
// errors.IsNotSupported.
type Address interface {
	SegID() segment.SegId
	SetSegID(segment.SegId) error
	Storage() Storage

	// UnitOffsetInArchive is the byte offset of the owning segment unit in
	// its archive.
	UnitOffsetInArchive() int64
	// OffsetInSegment is the physical byte offset of the page from the start
	// of its segment unit.
	OffsetInSegment() int64
	PhysicalOffsetInArchive() int64
	LogicalOffsetInSegment(g *geometry.Geometry) (int64, error)

	// Compare orders addresses: nil first, then bogus addresses by creation,
	// then real addresses by physical offset.
	Compare(other Address) (int, error)
	IsAdjacentTo(other Address, physicalPageSize int64) bool

	String() string

	address()
}

func isNil(a Address) bool {
	switch v := a.(type) {
	case nil:
		return true
	case *Real:
		return v == nil
	case *Bogus:
		return v == nil
	case *Garbage:
		return v == nil
	}
	return false
}

// Equal reports whether a and b denote the same page. Sentinels are equal
// only to themselves.
func Equal(a, b Address) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	switch x := a.(type) {
	case *Real:
		y, ok := b.(*Real)
		return ok && x.unitOffset == y.unitOffset && x.offset == y.offset &&
			SameStorage(x.storage, y.storage)
	case *Bogus:
		y, ok := b.(*Bogus)
		return ok && x.id == y.id
	case *Garbage:
		y, ok := b.(*Garbage)
		return ok && x.id == y.id
	}
	return false
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Real is the address of a page placed in an archive.
type Real struct {
	segID      segment.SegId
	unitOffset int64
	offset     int64
	storage    Storage
}

// NewReal creates the address of the page at offsetInSegment, which has to be
// physical page aligned, inside the segment unit at unitOffsetInArchive.
func NewReal(segID segment.SegId, unitOffsetInArchive, offsetInSegment int64, storage Storage) *Real {
	return &Real{
		segID:      segID,
		unitOffset: unitOffsetInArchive,
		offset:     offsetInSegment,
		storage:    storage,
	}
}

// NewRealFrom copies the fields of any address into a Real.
func NewRealFrom(a Address) *Real {
	return NewReal(a.SegID(), a.UnitOffsetInArchive(), a.OffsetInSegment(), a.Storage())
}

func (r *Real) address() {}

func (r *Real) SegID() segment.SegId {
	return r.segID
}

// SetSegID relabels the page. Only the owner of the address may call it.
func (r *Real) SetSegID(id segment.SegId) error {
	r.segID = id
	return nil
}

func (r *Real) Storage() Storage {
	return r.storage
}

func (r *Real) UnitOffsetInArchive() int64 {
	return r.unitOffset
}

func (r *Real) OffsetInSegment() int64 {
	return r.offset
}

func (r *Real) PhysicalOffsetInArchive() int64 {
	return r.unitOffset + r.offset
}

// LogicalOffsetInSegment converts the physical offset to the offset of the
// page as seen by volume I/O. An unaligned offset is truncated to its page.
func (r *Real) LogicalOffsetInSegment(g *geometry.Geometry) (int64, error) {
	pageNo := r.offset / g.PhysicalPageSize
	return pageNo * g.PageSize, nil
}

func (r *Real) Compare(other Address) (int, error) {
	if isNil(other) {
		return 1, nil
	}
	switch o := other.(type) {
	case *Bogus:
		return 1, nil
	case *Garbage:
		return 0, errGarbage("compare")
	case *Real:
		if !SameStorage(r.storage, o.storage) {
			return 0, errors.NotValidf("comparing %v and %v on different storages", r, o)
		}
		return cmpInt64(r.PhysicalOffsetInArchive(), o.PhysicalOffsetInArchive()), nil
	}
	return 0, errors.NotSupportedf("compare with %T", other)
}

// IsAdjacentTo reports whether other is exactly one physical page before or
// after r on the same storage.
func (r *Real) IsAdjacentTo(other Address, physicalPageSize int64) bool {
	if isNil(other) {
		return false
	}
	o, ok := other.(*Real)
	if !ok || !SameStorage(r.storage, o.storage) {
		return false
	}
	diff := r.PhysicalOffsetInArchive() - o.PhysicalOffsetInArchive()
	if diff < 0 {
		diff = -diff
	}
	return diff == physicalPageSize
}

func (r *Real) String() string {
	return fmt.Sprintf("PageAddress [segId=%v, segUnitOffsetInArchive=%d, offsetInSegment=%d, storage=%v]",
		r.segID, r.unitOffset, r.offset, r.storage)
}

// Magic field values of a bogus address.
const (
	BogusVolumeID        int64 = 0
	BogusSegmentIndex    int32 = -1
	BogusUnitOffset      int64 = -1
	BogusOffsetInSegment int64 = -1
)

var (
	bogusSegID = segment.NewSegId(BogusVolumeID, BogusSegmentIndex)
	nextBogus  atomic.Int64

	// DefaultBogus is a shared bogus address for callers that need any
	// placeholder.
	DefaultBogus = NewBogus()
)

// Bogus stands in for a page that has no address yet, such as a newly
// allocated page not yet durably placed. Every Bogus gets its own id.
type Bogus struct {
	id int64
}

func NewBogus() *Bogus {
	return &Bogus{id: nextBogus.Add(1) - 1}
}

func (b *Bogus) address() {}

func (b *Bogus) ID() int64 {
	return b.id
}

func (b *Bogus) SegID() segment.SegId {
	return bogusSegID
}

func (b *Bogus) SetSegID(segment.SegId) error {
	return errBogus("set segment id")
}

func (b *Bogus) Storage() Storage {
	return nil
}

func (b *Bogus) UnitOffsetInArchive() int64 {
	return BogusUnitOffset
}

func (b *Bogus) OffsetInSegment() int64 {
	return BogusOffsetInSegment
}

// PhysicalOffsetInArchive is negative for every bogus address, so it never
// collides with a real one.
func (b *Bogus) PhysicalOffsetInArchive() int64 {
	return -b.id - 1
}

func (b *Bogus) LogicalOffsetInSegment(*geometry.Geometry) (int64, error) {
	return 0, errBogus("logical offset")
}

func (b *Bogus) Compare(other Address) (int, error) {
	if isNil(other) {
		return 1, nil
	}
	o, ok := other.(*Bogus)
	if !ok {
		return -1, nil
	}
	return cmpInt64(b.id, o.id), nil
}

func (b *Bogus) IsAdjacentTo(Address, int64) bool {
	return false
}

func (b *Bogus) String() string {
	return fmt.Sprintf("BogusPageAddress(id:%d)", b.id)
}

// IsBogusFields reports whether raw address fields carry the bogus magic
// combination.
func IsBogusFields(volumeID int64, segIndex int32, unitOffset, offsetInSegment int64) bool {
	return volumeID == BogusVolumeID && segIndex == BogusSegmentIndex &&
		unitOffset == BogusUnitOffset && offsetInSegment == BogusOffsetInSegment
}

// IsBogus reports whether a is a Bogus or carries the bogus magic fields.
func IsBogus(a Address) bool {
	if isNil(a) {
		return false
	}
	if _, ok := a.(*Bogus); ok {
		return true
	}
	id := a.SegID()
	return IsBogusFields(id.VolumeID, id.Index, a.UnitOffsetInArchive(), a.OffsetInSegment())
}

// Magic field values of a garbage address.
const (
	GarbageVolumeID                int64 = math.MinInt64
	GarbageSegmentIndex            int32 = math.MinInt32
	GarbageUnitOffset              int64 = 1 << 50
	GarbageOffsetInSegment         int64 = 0
	GarbagePhysicalOffsetInArchive       = GarbageUnitOffset + GarbageOffsetInSegment
)

var (
	garbageSegID = segment.NewSegId(GarbageVolumeID, GarbageSegmentIndex)
	nextGarbage  atomic.Int64
)

// Garbage marks a shadow page whose source page was never written, so no
// copy on write shadow is needed. It is only ever checked for, never sorted.
type Garbage struct {
	id int64
}

func NewGarbage() *Garbage {
	return &Garbage{id: nextGarbage.Add(1) - 1}
}

func (g *Garbage) address() {}

func (g *Garbage) SegID() segment.SegId {
	return garbageSegID
}

func (g *Garbage) SetSegID(segment.SegId) error {
	return errGarbage("set segment id")
}

func (g *Garbage) Storage() Storage {
	return nil
}

func (g *Garbage) UnitOffsetInArchive() int64 {
	return GarbageUnitOffset
}

func (g *Garbage) OffsetInSegment() int64 {
	return GarbageOffsetInSegment
}

func (g *Garbage) PhysicalOffsetInArchive() int64 {
	return GarbagePhysicalOffsetInArchive
}

func (g *Garbage) LogicalOffsetInSegment(*geometry.Geometry) (int64, error) {
	return 0, errGarbage("logical offset")
}

func (g *Garbage) Compare(Address) (int, error) {
	return 0, errGarbage("compare")
}

func (g *Garbage) IsAdjacentTo(Address, int64) bool {
	return false
}

func (g *Garbage) String() string {
	return fmt.Sprintf("GarbagePageAddress(id:%d)", g.id)
}

func IsGarbage(a Address) bool {
	if isNil(a) {
		return false
	}
	_, ok := a.(*Garbage)
	return ok
}

// IsGarbageOffset reports whether a raw stored archive offset is the garbage
// marker.
func IsGarbageOffset(offset int64) bool {
	return offset == GarbagePhysicalOffsetInArchive
}
