package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermutationDenseAcrossSizes(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 16, 17, 100, 1000, 12345} {
		p := NewPermutation(n, 99)
		seen := make([]bool, n)
		for i := 0; i < n; i++ {
			j := p.At(i)
			require.GreaterOrEqual(t, j, 0)
			require.Less(t, j, n)
			require.False(t, seen[j], "n=%d: index %d dispatched twice", n, j)
			seen[j] = true
		}
	}
}

func TestPermutationDifferentSeedsDiffer(t *testing.T) {
	a := NewPermutation(5000, 1)
	b := NewPermutation(5000, 2)
	differs := false
	for i := 0; i < 5000; i++ {
		if a.At(i) != b.At(i) {
			differs = true
			break
		}
	}
	require.True(t, differs)
}

func TestEvenBitWidthCoversN(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 1000, 1 << 20} {
		b := evenBitWidth(n)
		require.Zero(t, b%2, "bit width must be even")
		require.GreaterOrEqual(t, uint64(1)<<b, uint64(n))
	}
}
