package histogram

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordAndStats(t *testing.T) {
	r := New()
	for i := 1; i <= 100; i++ {
		r.Record(time.Duration(i) * time.Millisecond)
	}
	s := r.Stats()
	require.Equal(t, int64(100), s.Count)
	require.Greater(t, s.Mean, time.Duration(0))
	require.GreaterOrEqual(t, s.Max, 99*time.Millisecond)
}

func TestMergeIsAssociativeInTotalCount(t *testing.T) {
	src := rand.New(rand.NewSource(1))

	a := New()
	b := New()
	c := New()
	total := 0
	for i := 0; i < 300; i++ {
		d := time.Duration(src.Intn(1_000_000)) * time.Microsecond
		switch i % 3 {
		case 0:
			a.Record(d)
		case 1:
			b.Record(d)
		case 2:
			c.Record(d)
		}
		total++
	}

	merged := New()
	merged.Merge(a)
	merged.Merge(b)
	merged.Merge(c)

	require.EqualValues(t, total, merged.Stats().Count)
}

func TestMergeNilIsNoop(t *testing.T) {
	r := New()
	r.Record(5 * time.Millisecond)
	r.Merge(nil)
	require.EqualValues(t, 1, r.Stats().Count)
}
