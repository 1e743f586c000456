// Copyright (c) 2014-2015 Utkan Güngördü <utkan@freeconsole.org>
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

// Package synthfp generates synthetic 64-bit fingerprints from small
// integer keys, for tests and for the fp47bench command. fp47 itself
// never hashes anything: it is handed fingerprints and only ever splits
// or compares them. Nothing here is part of the map's contract.
package synthfp

import "math/bits"

// Hash64 mixes a key into a fingerprint-quality 64-bit value.
type Hash64 func(key uint64) uint64

// Nasam is Pelle Evensen's "not another strange attractor mixer"
// finalizer, used by the reference implementation's own test suite to
// turn sequential integers into fingerprints with good avalanche
// behavior. The first mix step xors in two 64-bit right rotations; the
// two later steps xor in plain right shifts.
func Nasam(x uint64) uint64 {
	x ^= bits.RotateLeft64(x, -25) ^ bits.RotateLeft64(x, -47)
	x *= 0x9e6c63d0676a9a99
	x ^= (x >> 23) ^ (x >> 51)
	x *= 0x9e6d62d06f6a9a9b
	x ^= (x >> 23) ^ (x >> 51)
	return x
}

const (
	murmur3C1_32 uint32 = 0xcc9e2d51
	murmur3C2_32 uint32 = 0x1b873593
)

func murmur3Mix32(k, seed uint32) uint32 {
	k *= murmur3C1_32
	k = (k << 15) | (k >> (32 - 15))
	k *= murmur3C2_32

	h := seed
	h ^= k
	h = (h << 13) | (h >> (32 - 13))
	h = (h<<2 + h) + 0xe6546b64
	return h
}

// Murmur3 composes two murmur3 32-bit mixes into a 64-bit fingerprint:
// the key's low half is mixed with seed 0, and the high half is mixed
// with the low result as its seed.
func Murmur3(key uint64) uint64 {
	lo := murmur3Mix32(uint32(key), 0)
	hi := murmur3Mix32(uint32(key>>32), lo)
	return uint64(hi)<<32 | uint64(lo)
}

const (
	xxPrime32_1 uint32 = 2654435761
	xxPrime32_2 uint32 = 2246822519
	xxPrime32_3 uint32 = 3266489917
	xxPrime32_4 uint32 = 668265263
	xxPrime32_5 uint32 = 374761393
)

func xxMix32(k, seed uint32) uint32 {
	h := seed + xxPrime32_5
	h += k * xxPrime32_3
	h = ((h << 17) | (h >> (32 - 17))) * xxPrime32_4
	h ^= h >> 15
	h *= xxPrime32_2
	h ^= h >> 13
	h *= xxPrime32_3
	h ^= h >> 16
	return h
}

// XX composes two xxhash-style 32-bit mixes into a 64-bit fingerprint.
func XX(key uint64) uint64 {
	lo := xxMix32(uint32(key), 0)
	hi := xxMix32(uint32(key>>32), lo)
	return uint64(hi)<<32 | uint64(lo)
}

const (
	memC0 uint32 = 2860486313
	memC1 uint32 = 3267000013
)

func memMix32(k uint32) uint32 {
	h := k ^ memC0
	h ^= (k & 0xff) * memC1
	h ^= (k >> 8 & 0xff) * memC1
	h ^= (k >> 16 & 0xff) * memC1
	h ^= (k >> 24 & 0xff) * memC1
	return h
}

// Mem composes two lightweight byte-mixing 32-bit hashes into a 64-bit
// fingerprint.
func Mem(key uint64) uint64 {
	lo := memMix32(uint32(key))
	hi := memMix32(uint32(key>>32) ^ lo)
	return uint64(hi)<<32 | uint64(lo)
}

// ByName returns a named Hash64, or nil if name isn't recognized.
func ByName(name string) Hash64 {
	switch name {
	case "nasam":
		return Nasam
	case "murmur3":
		return Murmur3
	case "xx":
		return XX
	case "mem":
		return Mem
	default:
		return nil
	}
}
