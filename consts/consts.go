package consts

// SectorSize is the alignment unit for page, segment and metadata sizes.
const SectorSize = 512

// SegmentUnitMagic is written at the start of a segment unit descriptor.
const SegmentUnitMagic uint64 = 0x1847EBD7F527BC2

const (
	SegmentUnitMetadataLength = 2048
	SegmentUnitAcceptorLength = 512

	DefaultMaxFlexibleCount = 1500
)
