package fp47

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svpv/fp47/internal/synthfp"
)

func TestNewClampsSmallLogSize(t *testing.T) {
	m, err := New(1)
	require.NoError(t, err)
	defer m.Free()
	init0, _ := m.LogSize()
	assert.Equal(t, minLogSize, init0)
}

func TestNewRejectsLogSizeAboveCap(t *testing.T) {
	_, err := New(newLogSizeCap + 1)
	assert.ErrorIs(t, err, ErrLogSizeTooLarge)
}

func TestInsertFindRoundTrip(t *testing.T) {
	m, err := New(10)
	require.NoError(t, err)
	defer m.Free()

	out := make([]uint32, MaxFind)
	for i := uint64(0); i < 500; i++ {
		fp := synthfp.Nasam(i)
		status := m.Insert(fp, uint32(i))
		require.GreaterOrEqual(t, int8(status), int8(InsertDirect), "insert %d must succeed: %v", i, status)
	}

	for i := uint64(0); i < 500; i++ {
		fp := synthfp.Nasam(i)
		n := m.Find(fp, out)
		require.Greater(t, n, 0, "key %d must be findable", i)
		assert.Contains(t, out[:n], uint32(i))
	}

	assert.Equal(t, 500, m.Count()+m.Nstash())
}

func TestFindReturnsNothingForAbsentKey(t *testing.T) {
	m, err := New(8)
	require.NoError(t, err)
	defer m.Free()

	for i := uint64(0); i < 100; i++ {
		m.Insert(synthfp.Nasam(i), uint32(i))
	}

	out := make([]uint32, MaxFind)
	n := m.Find(synthfp.Nasam(999999), out)
	assert.Equal(t, 0, n)
}

func TestPrefetchDoesNotPanic(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)
	defer m.Free()
	assert.NotPanics(t, func() {
		m.Prefetch(synthfp.Nasam(123))
	})
}

// recheck mirrors the reference test suite's invariant audit: every key
// below upto must still be findable.
func recheck(t *testing.T, m *Map, upto uint64, out []uint32) {
	t.Helper()
	for i := uint64(0); i < upto; i++ {
		n := m.Find(synthfp.Nasam(i), out)
		require.Greater(t, n, 0, "key %d lost after a structural change", i)
	}
}

func TestLargeScaleInsertWithRecheck(t *testing.T) {
	m, err := New(6)
	require.NoError(t, err)
	defer m.Free()

	const total = 20000
	out := make([]uint32, MaxFind)
	bsize := m.Bsize()
	_, logsize := m.LogSize()
	nstash := m.Nstash()
	rejected := 0

	for i := uint64(0); i < total; i++ {
		status := m.Insert(synthfp.Nasam(i), uint32(i))
		switch status {
		case InsertFull, InsertError:
			rejected++
			continue
		}
		// Audit after every width grow, index grow, or stash change.
		_, ls := m.LogSize()
		if m.Bsize() != bsize || ls != logsize || m.Nstash() != nstash {
			bsize, logsize, nstash = m.Bsize(), ls, m.Nstash()
			recheck(t, m, i+1, out)
		}
	}
	recheck(t, m, total-uint64(rejected), out)

	assert.Less(t, rejected, total/100, "rejection rate should stay low for a well-distributed hash")
	assert.InDelta(t, float64(total-rejected)/float64(total), 1.0, 0.01)
}

func TestLoadFactorIncreasesWithInserts(t *testing.T) {
	m, err := New(6)
	require.NoError(t, err)
	defer m.Free()

	before := m.LoadFactor()
	for i := uint64(0); i < 100; i++ {
		m.Insert(synthfp.Nasam(i), uint32(i))
	}
	after := m.LoadFactor()
	assert.Greater(t, after, before)
}
