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

// Command fp47bench drives fp47.Map over a synthetic workload and
// reports load factor, grow counts, and throughput.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/svpv/fp47"
	"github.com/svpv/fp47/internal/synthfp"
)

func main() {
	var (
		logsize  = pflag.IntP("logsize", "l", 16, "initial table size, as a power of two")
		n        = pflag.IntP("count", "n", 1<<20, "number of entries to insert")
		hashName = pflag.String("hash", "nasam", "synthetic fingerprint hash: nasam, murmur3, xx, or mem")
		seed     = pflag.Int64("seed", 1, "PRNG seed for the insert order")
		shuffle  = pflag.Bool("shuffle", true, "shuffle insert order instead of sequential")
	)
	pflag.Parse()

	hash := synthfp.ByName(*hashName)
	if hash == nil {
		fmt.Fprintf(os.Stderr, "fp47bench: unknown hash %q\n", *hashName)
		os.Exit(2)
	}

	m, err := fp47.New(*logsize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fp47bench: %v\n", err)
		os.Exit(1)
	}
	defer m.Free()

	order := make([]uint64, *n)
	for i := range order {
		order[i] = uint64(i)
	}
	if *shuffle {
		rng := rand.New(rand.NewSource(*seed))
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	grown, full := 0, 0
	start := time.Now()
	for _, key := range order {
		fp := hash(key)
		switch m.Insert(fp, uint32(key)) {
		case fp47.InsertGrown:
			grown++
		case fp47.InsertFull, fp47.InsertError:
			full++
		}
	}
	elapsed := time.Since(start)

	out := make([]uint32, fp47.MaxFind)
	found := 0
	for _, key := range order {
		fp := hash(key)
		if m.Find(fp, out) > 0 {
			found++
		}
	}

	logsize0, logsize1 := m.LogSize()
	fmt.Printf("inserted:    %d (grows: %d, rejected: %d)\n", *n, grown, full)
	fmt.Printf("found back:  %d/%d\n", found, *n)
	fmt.Printf("bucket size: %d\n", m.Bsize())
	fmt.Printf("logsize:     %d -> %d\n", logsize0, logsize1)
	fmt.Printf("stash:       %d\n", m.Nstash())
	fmt.Printf("load factor: %.4f\n", m.LoadFactor())
	fmt.Printf("insert time: %v (%.0f ns/op)\n", elapsed, float64(elapsed.Nanoseconds())/float64(*n))
}
