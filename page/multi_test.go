package page

import (
	"testing"

	errors "github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyd/go-sbs/segment"
)

const myPageSize = 4096

func TestBuilder(t *testing.T) {
	pageCount := 10
	id := segment.NewSegId(1, 0)
	dev := NewDevice("d")

	addrs := make([]Address, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		addrs = append(addrs, NewReal(id, 0, int64(i*myPageSize), dev))
	}

	b := NewBuilder(addrs[0], myPageSize)
	for i := 1; i < pageCount; i++ {
		assert.True(t, b.Append(addrs[i]), "page %d should extend the run", i)
	}

	multi := b.Build()
	assert.Equal(t, pageCount, multi.Count())
	assert.True(t, Equal(addrs[0], multi.Start()), "run should start at page 0")

	bad := NewReal(id, 0, int64(pageCount*2*myPageSize), dev)
	assert.False(t, b.Append(bad), "distant page should be rejected")
	assert.True(t, multi.Equal(b.Build()), "rejected page should not change the run")

	assert.True(t, b.Append(NewReal(id, 0, int64(pageCount*myPageSize), dev)))
	assert.Equal(t, pageCount+1, b.Build().Count(), "build should reflect later appends")
	assert.Equal(t, pageCount, multi.Count(), "built runs are immutable")
}

func TestBuilderRejects(t *testing.T) {
	id := segment.NewSegId(1, 0)
	dev := NewDevice("d")
	start := NewReal(id, 0, myPageSize, dev)

	b := NewBuilder(start, myPageSize)
	assert.False(t, b.Append(NewReal(id, 0, 0, dev)), "backward page is not appended")
	assert.False(t, b.Append(start), "same page is not appended")
	assert.False(t, b.Append(NewReal(id, 0, 2*myPageSize, NewDevice("e"))), "other storage")
	assert.False(t, b.Append(NewBogus()))
	assert.False(t, b.Append(nil))
	assert.Equal(t, 1, b.Build().Count())

	sb := NewBuilder(NewGarbage(), myPageSize)
	assert.False(t, sb.Append(NewReal(id, 0, 0, dev)), "sentinel runs never grow")
}

func TestMultiComparing(t *testing.T) {
	id := segment.NewSegId(1, 0)
	dev := NewDevice("d")
	a := NewReal(id, 0, 0, dev)
	b := NewReal(id, 0, myPageSize, dev)

	less := func(x, y MultiAddress) bool {
		c, err := x.Compare(y)
		require.NoError(t, err)
		return c < 0
	}

	assert.True(t, less(NewMultiAddress(a, 1), NewMultiAddress(b, 1)))
	assert.True(t, less(NewMultiAddress(a, 100), NewMultiAddress(b, 1)))
	assert.True(t, less(NewMultiAddress(a, 1), NewMultiAddress(b, 100)))
	assert.True(t, less(NewMultiAddress(a, 1), NewMultiAddress(a, 100)))
	assert.False(t, less(NewMultiAddress(a, 100), NewMultiAddress(a, 1)))

	_, err := NewMultiAddress(NewGarbage(), 1).Compare(NewMultiAddress(a, 1))
	assert.True(t, errors.IsNotSupported(err))
}

func TestAddresses(t *testing.T) {
	id := segment.NewSegId(1, 0)
	dev := NewDevice("d")
	m := NewMultiAddress(NewReal(id, 8192, myPageSize, dev), 3)

	addrs := m.Addresses(myPageSize)
	require.Len(t, addrs, 3)
	for i, a := range addrs {
		assert.EqualValues(t, 8192+(i+1)*myPageSize, a.PhysicalOffsetInArchive())
		assert.Equal(t, id, a.SegID())
	}

	g := NewGarbage()
	for _, a := range NewMultiAddress(g, 2).Addresses(myPageSize) {
		assert.True(t, Equal(g, a), "sentinel runs repeat the sentinel")
	}
}

func TestCoalesce(t *testing.T) {
	id := segment.NewSegId(1, 0)
	d1 := NewDevice("1")
	d2 := NewDevice("2")
	page := func(n int, d Storage) Address {
		return NewReal(id, 0, int64(n*myPageSize), d)
	}

	bogus := NewBogus()
	runs := Coalesce([]Address{
		page(5, d1), page(0, d1), bogus, page(1, d1), page(2, d2),
		page(6, d1), page(3, d2), nil, page(2, d1),
	}, myPageSize)

	require.Len(t, runs, 4)
	assert.True(t, Equal(bogus, runs[0].Start()))
	assert.Equal(t, 1, runs[0].Count())

	assert.EqualValues(t, 0, runs[1].Start().PhysicalOffsetInArchive())
	assert.Equal(t, 3, runs[1].Count())
	assert.EqualValues(t, 5*myPageSize, runs[2].Start().PhysicalOffsetInArchive())
	assert.Equal(t, 2, runs[2].Count())

	assert.True(t, SameStorage(d2, runs[3].Start().Storage()))
	assert.Equal(t, 2, runs[3].Count())
}

func TestMultiComparingZero(t *testing.T) {
	var zero MultiAddress
	run := NewMultiAddress(NewBogus(), 1)

	c, err := zero.Compare(run)
	require.NoError(t, err)
	assert.Equal(t, -1, c, "a run without start sorts first")

	c, err = run.Compare(zero)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = zero.Compare(MultiAddress{})
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = zero.Compare(NewMultiAddress(NewGarbage(), 1))
	require.NoError(t, err)
	assert.Equal(t, -1, c)
}

func TestCoalesceDuplicates(t *testing.T) {
	id := segment.NewSegId(1, 0)
	dev := NewDevice("d")
	page := func(n int) Address {
		return NewReal(id, 0, int64(n*myPageSize), dev)
	}

	runs := Coalesce([]Address{page(0), page(0), page(1), page(3), page(1), page(3)}, myPageSize)
	require.Len(t, runs, 2, "every page should be covered once")
	assert.EqualValues(t, 0, runs[0].Start().PhysicalOffsetInArchive())
	assert.Equal(t, 2, runs[0].Count())
	assert.EqualValues(t, 3*myPageSize, runs[1].Start().PhysicalOffsetInArchive())
	assert.Equal(t, 1, runs[1].Count())
}
