package fp47

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKickLoopPlacesDirectly(t *testing.T) {
	buf := make([]entry, 8) // 4 buckets of 2
	mask := uint32(3)

	a := entry{Tag: 1, Pos: 10}
	bucketAt(buf, 2, 0)[0] = a // home bucket full with one free slot conceptually

	pending := entry{Tag: 9, Pos: 90}
	fi1, fp, ok := kickLoop(buf, 2, 0, mask, pending, 4)
	require.True(t, ok)
	assert.Equal(t, zeroEntry, fp)

	// a was evicted from bucket 0 into its alternate bucket (0^1=1).
	assert.Equal(t, uint32(1), fi1)
	found := false
	for _, e := range bucketAt(buf, 2, 1) {
		if e == a {
			found = true
		}
	}
	assert.True(t, found, "evicted entry must land in its alternate bucket")
	assert.Equal(t, pending, bucketAt(buf, 2, 0)[1], "pending takes the freed slot in the home bucket")
}

func TestKickBackUndoesFailedKickLoop(t *testing.T) {
	buf := make([]entry, 8) // 4 buckets of 2
	mask := uint32(3)

	A := entry{Tag: 1, Pos: 10}
	B := entry{Tag: 2, Pos: 20}
	D := entry{Tag: 3, Pos: 30}
	E := entry{Tag: 4, Pos: 40}
	F := entry{Tag: 5, Pos: 50}
	G := entry{Tag: 6, Pos: 60}

	b0 := bucketAt(buf, 2, 0)
	b0[0], b0[1] = A, B
	b1 := bucketAt(buf, 2, 1)
	b1[0], b1[1] = D, E
	b2 := bucketAt(buf, 2, 2)
	b2[0], b2[1] = F, G

	original := entry{Tag: 9, Pos: 90}
	finalI1, finalPending, ok := kickLoop(buf, 2, 0, mask, original, 2)
	require.False(t, ok, "bucket 2 is full, so the loop must run out of kicks")
	assert.Equal(t, uint32(2), finalI1)
	assert.Equal(t, D, finalPending)

	// bucket 2 was only ever checked, never mutated.
	assert.Equal(t, [2]entry{F, G}, [2]entry{b2[0], b2[1]})

	homeI1, recovered := kickBack(buf, 2, finalI1, mask, finalPending, 2)
	assert.Equal(t, uint32(0), homeI1)
	assert.Equal(t, original, recovered, "kickBack must recover the entry originally offered to kickLoop")

	assert.Equal(t, [2]entry{A, B}, [2]entry{b0[0], b0[1]}, "bucket 0 restored")
	assert.Equal(t, [2]entry{D, E}, [2]entry{b1[0], b1[1]}, "bucket 1 restored")
	assert.Equal(t, [2]entry{F, G}, [2]entry{b2[0], b2[1]}, "bucket 2 untouched throughout")
}
