package unitdesc

import (
	"github.com/pyd/go-sbs/consts"
	"github.com/pyd/go-sbs/segment"
)

// Descriptor block layout. The metadata region is followed by the bitmap
// region and the acceptor region, whose length is fixed.
const (
	magicStart     = 0
	magicEnd       = magicStart + 8
	versionStart   = magicEnd
	versionEnd     = versionStart + 2
	flagsStart     = versionEnd
	flagsEnd       = flagsStart + 2
	uuidStart      = flagsEnd
	uuidEnd        = uuidStart + 16
	segIDStart     = uuidEnd
	segIDEnd       = segIDStart + segment.SegIdLength
	pageCountStart = segIDEnd
	pageCountEnd   = pageCountStart + 4
	zeroStart      = pageCountEnd
	zeroEnd        = uuidCopyStart
	uuidCopyStart  = metadataEnd - 16
	uuidCopyEnd    = metadataEnd
	metadataEnd    = consts.SegmentUnitMetadataLength

	bitmapStart    = metadataEnd
	acceptorLength = consts.SegmentUnitAcceptorLength
)

const version = 1

const (
	// FlagCloned marks a unit created from a clone parent; its Migration
	// plane lists the pages still to copy.
	FlagCloned = 1 << iota
	// FlagMigrating marks a unit receiving pages from another member.
	FlagMigrating
	// insert flags here

	lastFlag
)

const (
	reservedMask = (1<<16 - 1) & ^(lastFlag - 1)
)
