package keys

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// feistelRounds is the number of Feistel rounds applied per permutation
// step. A Feistel network is a bijection for any round function and any
// round count >= 1; more rounds only improve how well-mixed the resulting
// order looks, which is not a correctness requirement here.
const feistelRounds = 4

// Permutation is a dense, O(1)-memory pseudo-random permutation of
// [0, n), realized as a balanced Feistel network over the smallest
// power-of-two domain with an even bit-width that covers n, with
// cycle-walking to discard outputs >= n. It never materializes an
// n-element array.
type Permutation struct {
	n       int
	seed    uint64
	half    uint
	mask    uint64
}

// NewPermutation builds a permutation of [0, n) keyed by seed. Two
// Permutation values built with the same (n, seed) produce identical
// sequences.
func NewPermutation(n int, seed uint64) *Permutation {
	if n < 1 {
		n = 1
	}
	totalBits := evenBitWidth(n)
	half := totalBits / 2
	return &Permutation{
		n:    n,
		seed: seed,
		half: half,
		mask: (uint64(1) << half) - 1,
	}
}

// evenBitWidth returns the smallest even b such that 2^b >= n. Rounding up
// to an even width keeps the two Feistel halves the same size, which keeps
// the round structure a plain, always-invertible balanced Feistel network
// instead of requiring width bookkeeping between unequal halves.
func evenBitWidth(n int) uint {
	if n <= 1 {
		return 2
	}
	b := uint(bits.Len(uint(n - 1)))
	if b == 0 {
		b = 1
	}
	if b%2 == 1 {
		b++
	}
	if b == 0 {
		b = 2
	}
	return b
}

// At returns the sample index dispatched at position i, for i in [0, n).
// At is a bijection on [0, n): every i in [0, n) maps to a distinct
// j in [0, n), and every j is hit exactly once.
func (p *Permutation) At(i int) int {
	x := uint64(i)
	for {
		x = p.round(x)
		if x < uint64(p.n) {
			return int(x)
		}
	}
}

// round applies the full feistelRounds-round Feistel network to x, which
// must be a value in [0, 2^(2*half)). The network is a bijection on that
// domain regardless of the round function used.
func (p *Permutation) round(x uint64) uint64 {
	l := x >> p.half
	r := x & p.mask
	for rnd := 0; rnd < feistelRounds; rnd++ {
		f := p.roundFunc(r, rnd)
		l, r = r, l^f
	}
	return (l << p.half) | r
}

// roundFunc is the Feistel round function: a fast, non-cryptographic hash
// of (right half, round index, seed) truncated to half bits. It need not
// resist adversarial analysis -- this permutation exists to give
// reproducible dispatch order to a benchmarking harness, not to hide
// anything.
func (p *Permutation) roundFunc(r uint64, round int) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], r)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(round))
	binary.LittleEndian.PutUint64(buf[16:24], p.seed)
	return xxhash.Sum64(buf[:]) & p.mask
}
