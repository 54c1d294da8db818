package geometry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/chzyer/logex"
	humanize "github.com/dustin/go-humanize"
	"github.com/ghodss/yaml"
	errors "github.com/juju/errors"

	"github.com/pyd/go-sbs/consts"
	"github.com/pyd/go-sbs/segment"
)

// Config is the datanode configuration the archive geometry is derived from.
type Config struct {
	PageSize           int64 `json:"page_size"`
	SegmentSize        int64 `json:"segment_size"`
	PageMetadataSize   int64 `json:"page_metadata_size"`
	MaxFlexibleCount   int   `json:"max_flexible_count"`
	PageMetadataOnDisk bool  `json:"page_metadata_on_disk"`
}

// DefaultConfig returns 8K pages in 16G segments with one sector of page metadata.
func DefaultConfig() Config {
	return Config{
		PageSize:           8 << 10,
		SegmentSize:        16 << 30,
		PageMetadataSize:   consts.SectorSize,
		MaxFlexibleCount:   consts.DefaultMaxFlexibleCount,
		PageMetadataOnDisk: true,
	}
}

// ParseConfig reads a yaml (or json) document on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Annotate(err, "parse geometry config")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.PageSize <= 0 || c.PageSize%consts.SectorSize != 0:
		return errors.NotValidf("page size %d", c.PageSize)
	case c.SegmentSize <= 0 || c.SegmentSize%consts.SectorSize != 0:
		return errors.NotValidf("segment size %d", c.SegmentSize)
	case c.SegmentSize%c.PageSize != 0:
		return errors.NotValidf("segment size %d not a multiple of page size %d",
			c.SegmentSize, c.PageSize)
	case c.PageMetadataSize < 0 || c.PageMetadataSize%consts.SectorSize != 0:
		return errors.NotValidf("page metadata size %d", c.PageMetadataSize)
	}
	return nil
}

// Geometry holds the sizes every offset computation depends on. It must not
// be modified after New returns it.
type Geometry struct {
	Config

	// PhysicalPageSize is the space one page takes on disk, metadata included
	// when it is flushed with the page.
	PhysicalPageSize    int64
	PageSizeInManager   int64
	PagesPerSegment     int
	SegmentPhysicalSize int64

	UnitBitmapLength   int
	UnitDescDataLength int64
	AllFlexibleLength  int64
}

// New validates cfg and derives the geometry. A non-positive
// MaxFlexibleCount falls back to the default.
func New(cfg Config) (*Geometry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.MaxFlexibleCount <= 0 {
		cfg.MaxFlexibleCount = consts.DefaultMaxFlexibleCount
	}

	g := &Geometry{Config: cfg}
	g.PageSizeInManager = cfg.PageSize + cfg.PageMetadataSize
	if cfg.PageMetadataOnDisk {
		g.PhysicalPageSize = g.PageSizeInManager
	} else {
		g.PhysicalPageSize = cfg.PageSize
	}

	g.PagesPerSegment = int(cfg.SegmentSize / cfg.PageSize)
	g.SegmentPhysicalSize = g.PhysicalPageSize * int64(g.PagesPerSegment)
	g.UnitBitmapLength = alignSector(segment.BitmapLength(g.PagesPerSegment))
	g.UnitDescDataLength = consts.SegmentUnitMetadataLength +
		int64(g.UnitBitmapLength) + consts.SegmentUnitAcceptorLength
	g.AllFlexibleLength = int64(cfg.MaxFlexibleCount) * g.UnitDescDataLength
	return g, nil
}

func alignSector(n int) int {
	if n%consts.SectorSize != 0 {
		n = (n/consts.SectorSize + 1) * consts.SectorSize
	}
	return n
}

func (g *Geometry) String() string {
	return fmt.Sprintf("page %s (physical %s), segment %s (physical %s), "+
		"%d pages per segment, bitmap %d, unit desc data %d, flexible space %s",
		humanize.IBytes(uint64(g.PageSize)), humanize.IBytes(uint64(g.PhysicalPageSize)),
		humanize.IBytes(uint64(g.SegmentSize)), humanize.IBytes(uint64(g.SegmentPhysicalSize)),
		g.PagesPerSegment, g.UnitBitmapLength, g.UnitDescDataLength,
		humanize.IBytes(uint64(g.AllFlexibleLength)))
}

var (
	initMu  sync.Mutex
	current atomic.Pointer[Geometry]
)

// Init publishes the process-wide geometry. Calling it again with the same
// config returns the published geometry; a different config is rejected.
func Init(cfg Config) (*Geometry, error) {
	g, err := New(cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}

	initMu.Lock()
	defer initMu.Unlock()

	if cur := current.Load(); cur != nil {
		if cur.Config != g.Config {
			return nil, errors.Trace(ErrAlreadyInitialized)
		}
		return cur, nil
	}
	current.Store(g)
	logex.Info("archive geometry: ", g)
	return g, nil
}

// Current returns the geometry published by Init, or nil before Init.
func Current() *Geometry {
	return current.Load()
}
