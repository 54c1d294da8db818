package segment

import (
	"fmt"

	errors "github.com/juju/errors"
)

// SegIdLength is the encoded size of a SegId: volume id then index.
const SegIdLength = 8 + 4

// SegId is the logical location of a segment: the volume and the segment's
// index in it.
type SegId struct {
	VolumeID int64
	Index    int32
}

func NewSegId(volumeID int64, index int32) SegId {
	return SegId{VolumeID: volumeID, Index: index}
}

// Compare orders by volume first, then index.
func (s SegId) Compare(o SegId) int {
	switch {
	case s.VolumeID < o.VolumeID:
		return -1
	case s.VolumeID > o.VolumeID:
		return 1
	case s.Index < o.Index:
		return -1
	case s.Index > o.Index:
		return 1
	}
	return 0
}

func (s SegId) String() string {
	return fmt.Sprintf("[volumeId=%d, index=%d]", s.VolumeID, s.Index)
}

func (s SegId) PutBytes(buf []byte) {
	binary.PutUint64(buf[0:8], uint64(s.VolumeID))
	binary.PutUint32(buf[8:12], uint32(s.Index))
}

func SegIdFromBytes(buf []byte) (SegId, error) {
	if len(buf) < SegIdLength {
		return SegId{}, errors.NotValidf("segment id of %d bytes", len(buf))
	}
	return SegId{
		VolumeID: int64(binary.Uint64(buf[0:8])),
		Index:    int32(binary.Uint32(buf[8:12])),
	}, nil
}
