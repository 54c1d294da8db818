package geometry

import (
	"testing"

	errors "github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tConfig(pageSize, segmentSize int64, flexible int) Config {
	cfg := DefaultConfig()
	cfg.PageSize = pageSize
	cfg.SegmentSize = segmentSize
	cfg.MaxFlexibleCount = flexible
	return cfg
}

func expectedFlexible(pageSize, segmentSize int64, flexible int) int64 {
	bitmap := int64(4 + (segmentSize/pageSize)/4)
	if bitmap%512 != 0 {
		bitmap = (bitmap/512 + 1) * 512
	}
	return int64(flexible) * (2048 + bitmap + 512)
}

func TestMaxFlexible(t *testing.T) {
	for _, c := range []struct {
		segmentSize int64
		flexible    int
	}{
		{16 << 30, 4000},
		{32 << 30, 8000},
	} {
		g, err := New(tConfig(8192, c.segmentSize, c.flexible))
		require.NoError(t, err)
		assert.Equal(t, expectedFlexible(8192, c.segmentSize, c.flexible), g.AllFlexibleLength)
		assert.True(t, g.AllFlexibleLength > 0)
	}
}

func TestDerivedSizes(t *testing.T) {
	g, err := New(tConfig(8192, 500*8192, 500))
	require.NoError(t, err)

	assert.EqualValues(t, 8192+512, g.PhysicalPageSize)
	assert.EqualValues(t, 8192+512, g.PageSizeInManager)
	assert.Equal(t, 500, g.PagesPerSegment)
	assert.EqualValues(t, 500*(8192+512), g.SegmentPhysicalSize)
	assert.Equal(t, 512, g.UnitBitmapLength, "bitmap is aligned to a sector")
	assert.EqualValues(t, 2048+512+512, g.UnitDescDataLength)

	cfg := tConfig(8192, 500*8192, 0)
	cfg.PageMetadataOnDisk = false
	g, err = New(cfg)
	require.NoError(t, err)
	assert.EqualValues(t, 8192, g.PhysicalPageSize, "metadata kept in memory takes no disk space")
	assert.Equal(t, 1500, g.MaxFlexibleCount, "default flexible count")
	assert.NotEmpty(t, g.String())
}

func TestValidate(t *testing.T) {
	for _, cfg := range []Config{
		tConfig(0, 8192, 1),
		tConfig(1000, 8192, 1),
		tConfig(8192, 8192*3+512, 1),
		tConfig(8192, -8192, 1),
		func() Config { c := tConfig(8192, 8192, 1); c.PageMetadataSize = 100; return c }(),
		func() Config { c := tConfig(8192, 8192, 1); c.PageMetadataSize = -512; return c }(),
	} {
		_, err := New(cfg)
		assert.True(t, errors.IsNotValid(err), "config %+v should be rejected", cfg)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("page_size: 16384\nsegment_size: 1073741824\npage_metadata_on_disk: false\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 16384, cfg.PageSize)
	assert.EqualValues(t, 1<<30, cfg.SegmentSize)
	assert.False(t, cfg.PageMetadataOnDisk)
	assert.EqualValues(t, 512, cfg.PageMetadataSize, "unset fields keep defaults")

	_, err = ParseConfig([]byte("page_size: [1"))
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	defer current.Store(nil)
	current.Store(nil)

	assert.Nil(t, Current())

	cfg := tConfig(8192, 500*8192, 500)
	g, err := Init(cfg)
	require.NoError(t, err)
	assert.Equal(t, g, Current())

	again, err := Init(cfg)
	assert.NoError(t, err, "same config can be initialized again")
	assert.True(t, g == again, "published geometry should be reused")

	_, err = Init(tConfig(16384, 500*16384, 500))
	assert.EqualError(t, err, ErrAlreadyInitialized.Error())
	assert.True(t, g == Current(), "geometry should not change")
}
