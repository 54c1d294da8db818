package segment

import (
	"math/bits"
)

func setBit(bf []byte, i uint) {
	ix := i / 8
	pos := i % 8
	bf[ix] = bf[ix] | (1 << pos)
}

func getBit(bf []byte, i uint) bool {
	ix := i / 8
	pos := i % 8
	return bf[ix]&(1<<pos) != 0
}

func clearBit(bf []byte, i uint) {
	ix := i / 8
	pos := i % 8
	bf[ix] &^= (1 << pos)
}

// nextClear scans [from, end) for a clear bit, skipping full bytes, and
// returns end when there is none.
func nextClear(bf []byte, from, end uint) uint {
	i := from
	for i < end {
		if i%8 == 0 && i+8 <= end && bf[i/8] == 0xff {
			i += 8
			continue
		}
		if !getBit(bf, i) {
			return i
		}
		i++
	}
	return end
}

func countRange(bf []byte, from, end uint) int {
	n := 0
	i := from
	for i < end {
		if i%8 == 0 && i+8 <= end {
			n += bits.OnesCount8(bf[i/8])
			i += 8
			continue
		}
		if getBit(bf, i) {
			n++
		}
		i++
	}
	return n
}

func byteLen(nbits int) int {
	return (nbits + 7) / 8
}
