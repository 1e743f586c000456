// Copyright (c) 2014 Utkan Güngördü <utkan@freeconsole.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package fp47

// stashItem is one record pending re-insertion during restash: either a
// previously stashed entry, or the one freshly-evicted entry that forced
// a grow.
type stashItem struct {
	i1 uint32
	e  entry
}

// restash re-inserts every existing stash record plus one freshly
// homeless entry into the table after a width or index grow. resized
// selects which index space (mask0/logsize0 or mask1/logsize1) governs
// the retry, and whether the canonical index needs the extra high tag
// bits folded in.
//
// Returns the number of entries that still couldn't be placed (the new
// stash contents) and whether that count overflowed the stash's fixed
// capacity — an overflow means the grow itself must be reported as a
// failure to the caller, even though the table has already grown.
func (m *Map) restash(i1 uint32, pending entry, resized bool) (leftover int, overflow bool) {
	n := m.nstash
	items := make([]stashItem, 0, n+1)
	for j := 0; j < n; j++ {
		items = append(items, stashItem{m.stash.index[j], m.stash.ent[j]})
	}
	items = append(items, stashItem{i1, pending})

	buf := m.store.buf
	mask := m.mask0
	logsize := int(m.logsize0)
	if resized {
		mask = m.mask1
		logsize = int(m.logsize1)
	}
	maxKick := 2 * logsize

	var leftovers []stashItem
	for _, it := range items {
		ii1, tag := it.i1, it.e.Tag
		var ii2 uint32
		if resized {
			ii1 |= tag << m.logsize0
			ii2 = (ii1 ^ tag) & m.mask1
			ii1 &= m.mask1
		} else {
			ii2 = (ii1 ^ tag) & m.mask0
		}

		b1 := bucketAt(buf, 4, ii1)
		b2 := bucketAt(buf, 4, ii2)
		if insertInPair(b1, b2, it.e) {
			continue
		}

		fi1, fe, ok := kickLoop(buf, 4, ii1, mask, it.e, maxKick)
		if ok {
			continue
		}

		plainI2 := (fi1 ^ fe.Tag) & m.mask0
		var newI1 uint32
		if resized {
			plainI1 := fi1 & m.mask0
			newI1 = (canonicalStashIndex(plainI1, plainI2) | (fe.Tag << m.logsize0)) & m.mask1
		} else {
			newI1 = canonicalStashIndex(fi1, plainI2)
		}
		leftovers = append(leftovers, stashItem{newI1, fe})
	}

	m.cnt += n - len(leftovers)

	stored := leftovers
	if len(stored) > stashCapacity {
		stored = stored[:stashCapacity]
		overflow = true
	}
	for j, it := range stored {
		m.stash.index[j] = it.i1
		m.stash.ent[j] = it.e
	}
	for j := len(stored); j < stashCapacity; j++ {
		m.stash.index[j] = 0
		m.stash.ent[j] = zeroEntry
	}
	m.nstash = len(stored)
	return m.nstash, overflow
}

// growWidth doubles the bucket width from 2 to 4 slots, carrying every
// existing two-wide bucket's entries into the first half of its new
// four-wide bucket, back to front so the traversal order matches an
// in-place expansion even though Go's allocator always hands back a
// fresh, non-overlapping buffer here.
func (m *Map) growWidth(i1 uint32, pending entry) InsertStatus {
	nb := int(m.mask0) + 1
	newRaw, err := tryAlloc(nb*4*entrySize, 16)
	if err != nil {
		return InsertError
	}
	newBuf := entriesView(newRaw)
	oldBuf := m.store.buf
	for i := nb - 1; i >= 0; i-- {
		copy(newBuf[i*4:i*4+2], oldBuf[i*2:i*2+2])
	}

	m.store.raw = newRaw
	m.store.buf = newBuf
	m.bsize = 4
	m.find = find4
	m.insert = insert4
	m.prefetch = prefetch4

	leftover, overflow := m.restash(i1, pending, false)
	switch {
	case overflow:
		m.find = find4st4
		return InsertFull
	case leftover == 1:
		m.find = find4st1
	case leftover > 1:
		m.find = find4st4
	}
	return InsertGrown
}

// growIndex doubles the bucket count, redistributing each old bucket's
// entries between its own slot and its "mover" partner nb buckets away,
// based on whether the entry's newly-extended canonical index still maps
// to the low half.
func (m *Map) growIndex(i1 uint32, pending entry) InsertStatus {
	if int(m.logsize1) >= growLogSizeCap {
		return InsertError
	}

	nb := int(m.mask1) + 1
	newRaw, err := tryAlloc(nb*2*4*entrySize, 16)
	if err != nil {
		return InsertError
	}
	newBuf := entriesView(newRaw)
	oldBuf := m.store.buf
	mask0, logsize0 := m.mask0, m.logsize0
	newMask1 := (m.mask1 << 1) | 1

	for i := 0; i < nb; i++ {
		var old [4]entry
		copy(old[:], oldBuf[i*4:i*4+4])
		lower := newBuf[i*4 : i*4+4]
		upper := newBuf[(i+nb)*4 : (i+nb)*4+4]
		lj, uj := 0, 0
		for _, e := range old {
			if e.Tag == 0 {
				continue
			}
			ia := uint32(i) & mask0
			ib := (ia ^ e.Tag) & mask0
			low := ia
			if ib < ia {
				low = ib
			}
			ni1 := (low | (e.Tag << logsize0)) & newMask1
			keeper := ni1 == uint32(i) || (ni1^e.Tag)&newMask1 == uint32(i)
			if keeper {
				lower[lj] = e
				lj++
			} else {
				upper[uj] = e
				uj++
			}
		}
	}

	m.store.raw = newRaw
	m.store.buf = newBuf
	m.mask1 = newMask1
	m.logsize1++
	m.find = find4re
	m.insert = insert4re
	m.prefetch = prefetch4re

	leftover, overflow := m.restash(i1, pending, true)
	switch {
	case overflow:
		m.find = find4st4re
		return InsertFull
	case leftover == 1:
		m.find = find4st1re
	case leftover > 1:
		m.find = find4st4re
	}
	return InsertGrown
}
