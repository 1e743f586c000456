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

// The map dispatches find/insert/prefetch through stored function
// values rather than branching on bsize/resized/nstash at every call:
// a width or index grow re-selects all three handles below, and a stash
// change (first stash, stash becoming non-trivial) re-selects the find
// handle, so the hot path never re-checks conditions that only change
// on those events.

type findFunc func(m *Map, fp uint64, out []uint32) int
type insertFunc func(m *Map, fp uint64, pos uint32) InsertStatus
type prefetchFunc func(m *Map, fp uint64)

// --- bsize 2, not yet resized ---

func find2(m *Map, fp uint64, out []uint32) int {
	i1, i2, tag := split(fp, m.mask0)
	buf := m.store.buf
	return findInPair(bucketAt(buf, 2, i1), bucketAt(buf, 2, i2), tag, out)
}

func insert2(m *Map, fp uint64, pos uint32) InsertStatus {
	i1, i2, tag := split(fp, m.mask0)
	buf := m.store.buf
	e := entry{Tag: tag, Pos: pos}
	m.cnt++

	if insertInPair(bucketAt(buf, 2, i1), bucketAt(buf, 2, i2), e) {
		return InsertDirect
	}

	maxKick := 2 * int(m.logsize0)
	fi1, fe, ok := kickLoop(buf, 2, i1, m.mask0, e, maxKick)
	if ok {
		return InsertDirect
	}

	ci1 := canonicalStashIndex(fi1, (fi1^fe.Tag)&m.mask0)
	if m.putStash(ci1, fe, find2st1, find2st4) {
		return InsertDirect
	}

	status := m.growWidth(ci1, fe)
	if status == InsertError {
		kickBack(buf, 2, fi1, m.mask0, fe, maxKick)
		m.cnt--
		return InsertError
	}
	return status
}

func prefetch2(m *Map, fp uint64) {
	i1, i2, _ := split(fp, m.mask0)
	buf := m.store.buf
	touch(bucketAt(buf, 2, i1))
	touch(bucketAt(buf, 2, i2))
}

func find2st1(m *Map, fp uint64, out []uint32) int {
	i1, i2, tag := split(fp, m.mask0)
	n := find2(m, fp, out)
	ci1 := canonicalStashIndex(i1, i2)
	return m.stash.scan(1, ci1, tag, out, n)
}

func find2st4(m *Map, fp uint64, out []uint32) int {
	i1, i2, tag := split(fp, m.mask0)
	n := find2(m, fp, out)
	ci1 := canonicalStashIndex(i1, i2)
	return m.stash.scan(stashCapacity, ci1, tag, out, n)
}

// --- bsize 4, not yet resized ---

func find4(m *Map, fp uint64, out []uint32) int {
	i1, i2, tag := split(fp, m.mask0)
	buf := m.store.buf
	return findInPair(bucketAt(buf, 4, i1), bucketAt(buf, 4, i2), tag, out)
}

func insert4(m *Map, fp uint64, pos uint32) InsertStatus {
	i1, i2, tag := split(fp, m.mask0)
	buf := m.store.buf
	e := entry{Tag: tag, Pos: pos}
	m.cnt++

	if insertInPair(bucketAt(buf, 4, i1), bucketAt(buf, 4, i2), e) {
		return InsertDirect
	}

	maxKick := 2 * int(m.logsize0)
	fi1, fe, ok := kickLoop(buf, 4, i1, m.mask0, e, maxKick)
	if ok {
		return InsertDirect
	}

	ci1 := canonicalStashIndex(fi1, (fi1^fe.Tag)&m.mask0)
	if m.putStash(ci1, fe, find4st1, find4st4) {
		return InsertDirect
	}

	status := m.growIndex(ci1, fe)
	if status == InsertError {
		kickBack(buf, 4, fi1, m.mask0, fe, maxKick)
		m.cnt--
		return InsertError
	}
	return status
}

func prefetch4(m *Map, fp uint64) {
	i1, i2, _ := split(fp, m.mask0)
	buf := m.store.buf
	touch(bucketAt(buf, 4, i1))
	touch(bucketAt(buf, 4, i2))
}

func find4st1(m *Map, fp uint64, out []uint32) int {
	i1, i2, tag := split(fp, m.mask0)
	n := find4(m, fp, out)
	ci1 := canonicalStashIndex(i1, i2)
	return m.stash.scan(1, ci1, tag, out, n)
}

func find4st4(m *Map, fp uint64, out []uint32) int {
	i1, i2, tag := split(fp, m.mask0)
	n := find4(m, fp, out)
	ci1 := canonicalStashIndex(i1, i2)
	return m.stash.scan(stashCapacity, ci1, tag, out, n)
}

// --- bsize 4, resized (at least one index grow has happened) ---

func find4re(m *Map, fp uint64, out []uint32) int {
	i1, i2, tag := split(fp, m.mask0)
	ri1, ri2 := extend(i1, i2, tag, m.logsize0, m.mask1)
	buf := m.store.buf
	return findInPair(bucketAt(buf, 4, ri1), bucketAt(buf, 4, ri2), tag, out)
}

func insert4re(m *Map, fp uint64, pos uint32) InsertStatus {
	i1, i2, tag := split(fp, m.mask0)
	ri1, ri2 := extend(i1, i2, tag, m.logsize0, m.mask1)
	buf := m.store.buf
	e := entry{Tag: tag, Pos: pos}
	m.cnt++

	if insertInPair(bucketAt(buf, 4, ri1), bucketAt(buf, 4, ri2), e) {
		return InsertDirect
	}

	maxKick := 2 * int(m.logsize1)
	fi1, fe, ok := kickLoop(buf, 4, ri1, m.mask1, e, maxKick)
	if ok {
		return InsertDirect
	}

	// Fold the homeless entry's index back down to the plain (mask0)
	// pair, then re-extend it: matches the canonicalization the resized
	// insert path and restash both use for stash bookkeeping.
	plainI1 := fi1 & m.mask0
	plainI2 := (fi1 ^ fe.Tag) & m.mask0
	canon := canonicalStashIndex(plainI1, plainI2)
	stashI1 := (canon | (fe.Tag << m.logsize0)) & m.mask1

	if m.putStash(stashI1, fe, find4st1re, find4st4re) {
		return InsertDirect
	}

	status := m.growIndex(stashI1, fe)
	if status == InsertError {
		kickBack(buf, 4, fi1, m.mask1, fe, maxKick)
		m.cnt--
		return InsertError
	}
	return status
}

func prefetch4re(m *Map, fp uint64) {
	i1, i2, tag := split(fp, m.mask0)
	ri1, ri2 := extend(i1, i2, tag, m.logsize0, m.mask1)
	buf := m.store.buf
	touch(bucketAt(buf, 4, ri1))
	touch(bucketAt(buf, 4, ri2))
}

func find4st1re(m *Map, fp uint64, out []uint32) int {
	i1, i2, tag := split(fp, m.mask0)
	ri1, _ := extend(i1, i2, tag, m.logsize0, m.mask1)
	n := find4re(m, fp, out)
	return m.stash.scan(1, ri1, tag, out, n)
}

func find4st4re(m *Map, fp uint64, out []uint32) int {
	i1, i2, tag := split(fp, m.mask0)
	ri1, _ := extend(i1, i2, tag, m.logsize0, m.mask1)
	n := find4re(m, fp, out)
	return m.stash.scan(stashCapacity, ri1, tag, out, n)
}

// touch is a best-effort cache-warming read. Go exposes no portable
// hardware prefetch instruction without cgo/asm, which is out of scope
// here, so Prefetch settles for pulling the candidate buckets into cache
// via an ordinary read.
func touch(b []entry) {
	_ = b[0]
}

// putStash appends a kicked-out entry to the stash and switches the find
// handle to the matching stash-aware variant. Returns false if the stash
// is already full.
func (m *Map) putStash(i1 uint32, e entry, findSt1, findSt4 findFunc) bool {
	n, ok := m.stash.put(m.nstash, i1, e)
	if !ok {
		return false
	}
	m.nstash = n
	m.cnt--
	if n == 1 {
		m.find = findSt1
	} else {
		m.find = findSt4
	}
	return true
}
