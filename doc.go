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

// Package fp47 implements a fingerprint map: a low-level bucket manager
// for multimap<fingerprint,position> built on cuckoo hashing.
//
// A fingerprint is a 64-bit hash value with good statistical properties,
// supplied by the caller. The map never hashes anything itself; it splits
// the fingerprint into a pair of candidate bucket indices and a non-zero
// tag, and stores the tag alongside the caller's position in one of the
// two buckets. Looking a fingerprint up returns the set of positions
// whose tag matches in either candidate bucket (and the stash, once one
// exists) — it is up to the caller to compare the actual keys for exact
// equality, since a tag match is only probabilistic.
//
// The bucket array starts with two slots per bucket and widens to four
// as load increases, then the bucket count itself doubles ("index grow")
// when even four-wide buckets can no longer absorb new entries. A small
// fixed-capacity stash absorbs the rare entry that the cuckoo eviction
// loop cannot place before either kind of grow completes.
package fp47
