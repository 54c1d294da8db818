package unitdesc

import (
	binenc "encoding/binary"

	uuid "github.com/satori/go.uuid"

	"github.com/pyd/go-sbs/segment"
)

var (
	binary binenc.ByteOrder = binenc.LittleEndian
)

// Accessor gives raw read access to a descriptor block (no checks)
type Accessor struct {
	blk []byte
}

// NewAccessor creates new Accessor instance with backing buffer
func NewAccessor(blk []byte) *Accessor {
	return &Accessor{
		blk: blk,
	}
}

func (a *Accessor) Magic() uint64 {
	return binary.Uint64(a.blk[magicStart:magicEnd])
}

func (a *Accessor) Version() uint16 {
	return binary.Uint16(a.blk[versionStart:versionEnd])
}

func (a *Accessor) Flags() uint16 {
	return binary.Uint16(a.blk[flagsStart:flagsEnd])
}

// UUID returns the UUID of the archive the unit lives in
func (a *Accessor) UUID() uuid.UUID {
	u := uuid.UUID{}
	copy(u[:], a.blk[uuidStart:uuidEnd])
	return u
}

// SecondaryUUID returns backup (recovery) UUID of the archive
func (a *Accessor) SecondaryUUID() uuid.UUID {
	u := uuid.UUID{}
	copy(u[:], a.blk[uuidCopyStart:uuidCopyEnd])
	return u
}

func (a *Accessor) SegID() segment.SegId {
	return segment.SegId{
		VolumeID: int64(binary.Uint64(a.blk[segIDStart : segIDStart+8])),
		Index:    int32(binary.Uint32(a.blk[segIDStart+8 : segIDEnd])),
	}
}

func (a *Accessor) PageCount() uint32 {
	return binary.Uint32(a.blk[pageCountStart:pageCountEnd])
}

// BitmapRegion is the sector aligned area holding the serialized unit bitmap.
func (a *Accessor) BitmapRegion() []byte {
	return a.blk[bitmapStart : len(a.blk)-acceptorLength]
}

// AcceptorRegion belongs to the replication layer and is never interpreted
// here.
func (a *Accessor) AcceptorRegion() []byte {
	return a.blk[len(a.blk)-acceptorLength:]
}
