package page

import (
	"fmt"
	"sort"

	errors "github.com/juju/errors"
	uuid "github.com/satori/go.uuid"
)

// MultiAddress is a run of count physically consecutive pages starting at
// start.
type MultiAddress struct {
	start Address
	count int
}

func NewMultiAddress(start Address, count int) MultiAddress {
	if count < 1 {
		panic(fmt.Sprintf("page run of %d pages", count))
	}
	return MultiAddress{start: start, count: count}
}

func (m MultiAddress) Start() Address {
	return m.start
}

func (m MultiAddress) Count() int {
	return m.count
}

// Compare orders runs by start address; runs sharing a start are ordered by
// length, shorter first.
// A zero MultiAddress has no start and sorts first.
func (m MultiAddress) Compare(o MultiAddress) (int, error) {
	switch {
	case isNil(m.start) && !isNil(o.start):
		return -1, nil
	case !isNil(m.start) && isNil(o.start):
		return 1, nil
	case !isNil(m.start):
		c, err := m.start.Compare(o.start)
		if err != nil {
			return 0, errors.Trace(err)
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case m.count < o.count:
		return -1, nil
	case m.count > o.count:
		return 1, nil
	}
	return 0, nil
}

func (m MultiAddress) Equal(o MultiAddress) bool {
	return m.count == o.count && Equal(m.start, o.start)
}

// Addresses expands the run into one address per page. A run starting at a
// sentinel repeats the sentinel.
func (m MultiAddress) Addresses(physicalPageSize int64) []Address {
	out := make([]Address, 0, m.count)
	r, ok := m.start.(*Real)
	if !ok {
		for i := 0; i < m.count; i++ {
			out = append(out, m.start)
		}
		return out
	}
	for i := 0; i < m.count; i++ {
		out = append(out, NewReal(r.segID, r.unitOffset, r.offset+int64(i)*physicalPageSize, r.storage))
	}
	return out
}

func (m MultiAddress) String() string {
	return fmt.Sprintf("MultiPageAddress{startPageAddress=%v, pageCount=%d}", m.start, m.count)
}

// Builder grows a run one page at a time while the pages stay consecutive.
// A Builder must not be shared between goroutines.
type Builder struct {
	start    Address
	pageSize int64
	count    int
}

func NewBuilder(start Address, physicalPageSize int64) *Builder {
	return &Builder{
		start:    start,
		pageSize: physicalPageSize,
		count:    1,
	}
}

// Append adds next to the run if it is the page right after the run's last
// page on the same storage. A rejected page leaves the builder unchanged.
func (b *Builder) Append(next Address) bool {
	start, ok := b.start.(*Real)
	if !ok || start == nil {
		return false
	}
	n, ok := next.(*Real)
	if !ok || n == nil || !SameStorage(start.storage, n.storage) {
		return false
	}
	if n.PhysicalOffsetInArchive() != start.PhysicalOffsetInArchive()+int64(b.count)*b.pageSize {
		return false
	}
	b.count++
	return true
}

func (b *Builder) Build() MultiAddress {
	return MultiAddress{start: b.start, count: b.count}
}

// Coalesce groups addresses into runs of consecutive pages. Sentinel
// addresses come first as single page runs, then the real addresses of each
// storage in ascending order, storages in order of first appearance. A page
// named more than once is covered by a single run.
func Coalesce(addrs []Address, physicalPageSize int64) []MultiAddress {
	var (
		out      []MultiAddress
		storages []uuid.UUID
		groups   = make(map[uuid.UUID][]*Real)
	)
	for _, a := range addrs {
		if isNil(a) {
			continue
		}
		r, ok := a.(*Real)
		if !ok {
			out = append(out, NewMultiAddress(a, 1))
			continue
		}
		id := storageID(r.storage)
		if _, seen := groups[id]; !seen {
			storages = append(storages, id)
		}
		groups[id] = append(groups[id], r)
	}

	for _, id := range storages {
		group := groups[id]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PhysicalOffsetInArchive() < group[j].PhysicalOffsetInArchive()
		})

		b := NewBuilder(group[0], physicalPageSize)
		for i, r := range group[1:] {
			if r.PhysicalOffsetInArchive() == group[i].PhysicalOffsetInArchive() {
				continue
			}
			if !b.Append(r) {
				out = append(out, b.Build())
				b = NewBuilder(r, physicalPageSize)
			}
		}
		out = append(out, b.Build())
	}
	return out
}
