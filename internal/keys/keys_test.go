package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeIntegerInjective(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10000; i++ {
		k, err := Encode(TypeInteger, i)
		require.NoError(t, err)
		require.False(t, seen[k.String()], "duplicate key for index %d", i)
		seen[k.String()] = true
	}
}

func TestEncodeStringWidths(t *testing.T) {
	for typ, width := range widths {
		k, err := Encode(typ, 42)
		require.NoError(t, err)
		require.Len(t, k.Bytes, width)
		for _, b := range k.Bytes {
			require.True(t, b >= 0x20 && b < 0x7F, "non-printable byte in %s encoding", typ)
		}
	}
}

func TestEncodeStringInjective(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		k, err := Encode(TypeString90, i)
		require.NoError(t, err)
		s := k.String()
		require.False(t, seen[s], "duplicate string90 key for index %d", i)
		seen[s] = true
	}
}

func TestEncodeUUIDInjective(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20000; i++ {
		k, err := Encode(TypeUUID, i)
		require.NoError(t, err)
		require.Len(t, k.Bytes, 16)
		s := k.String()
		require.False(t, seen[s], "duplicate uuid for index %d", i)
		seen[s] = true
	}
}

func TestEncodeUnknownType(t *testing.T) {
	_, err := Encode(Type("bogus"), 1)
	require.Error(t, err)
}

func TestProviderSequentialVisitsAllExactlyOnce(t *testing.T) {
	p, err := NewProvider(TypeInteger, 1000, false, 0)
	require.NoError(t, err)
	seen := make([]bool, 1000)
	for i := 0; i < 1000; i++ {
		k, err := p.At(i)
		require.NoError(t, err)
		require.Equal(t, i, k.Index)
		require.False(t, seen[k.Index])
		seen[k.Index] = true
	}
	for _, s := range seen {
		require.True(t, s)
	}
}

func TestProviderRandomIsDenseAndDeterministic(t *testing.T) {
	p1, err := NewProvider(TypeInteger, 1000, true, 42)
	require.NoError(t, err)
	p2, err := NewProvider(TypeInteger, 1000, true, 42)
	require.NoError(t, err)

	seen := make([]bool, 1000)
	for i := 0; i < 1000; i++ {
		k1, err := p1.At(i)
		require.NoError(t, err)
		k2, err := p2.At(i)
		require.NoError(t, err)
		require.Equal(t, k1.Index, k2.Index, "two providers with the same seed diverged at position %d", i)
		require.False(t, seen[k1.Index], "index %d dispatched twice", k1.Index)
		seen[k1.Index] = true
	}
	for idx, s := range seen {
		require.True(t, s, "index %d never dispatched", idx)
	}
}

func TestProviderRandomDiffersFromSequentialOrder(t *testing.T) {
	p, err := NewProvider(TypeInteger, 2000, true, 7)
	require.NoError(t, err)
	identical := true
	for i := 0; i < 2000; i++ {
		k, err := p.At(i)
		require.NoError(t, err)
		if k.Index != i {
			identical = false
			break
		}
	}
	require.False(t, identical, "random provider produced the identity permutation")
}

func TestProviderOutOfRange(t *testing.T) {
	p, err := NewProvider(TypeInteger, 10, false, 0)
	require.NoError(t, err)
	_, err = p.At(10)
	require.Error(t, err)
	_, err = p.At(-1)
	require.Error(t, err)
}
