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

// bucketAt slices out the bsize entries belonging to bucket i.
func bucketAt(buf []entry, bsize int, i uint32) []entry {
	off := int(i) * bsize
	return buf[off : off+bsize]
}

// findInPair scans both candidate buckets for tag, appending matching
// positions to out in slot-then-bucket order: slot0(b1), slot0(b2),
// slot1(b1), slot1(b2), and so on. Returns the number of matches added.
func findInPair(b1, b2 []entry, tag uint32, out []uint32) int {
	n := 0
	for s := range b1 {
		if b1[s].Tag == tag {
			out[n] = b1[s].Pos
			n++
		}
		if b2[s].Tag == tag {
			out[n] = b2[s].Pos
			n++
		}
	}
	return n
}

// insertInPair places e in the first empty slot among the pair, scanned
// in the same fixed order findInPair uses. Returns false if both buckets
// are full.
func insertInPair(b1, b2 []entry, e entry) bool {
	for s := range b1 {
		if b1[s].Tag == 0 {
			b1[s] = e
			return true
		}
		if b2[s].Tag == 0 {
			b2[s] = e
			return true
		}
	}
	return false
}
