// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mappability compares genome mappability signals across k-mer sizes
// and aggregates per-base scores into per-gene summaries.
package mappability

import (
	"fmt"
	"runtime"

	"github.com/googlegenomics/mappability/internal/track"
	"golang.org/x/sync/errgroup"
)

// Diff computes the element-wise difference b minus a for every chromosome.
// Both sets must cover the same chromosomes with equal lengths; anything else
// indicates inconsistent inputs and fails rather than producing a truncated
// or misaligned result.
func Diff(a, b track.Set) (track.Set, error) {
	for chrom := range b {
		if _, ok := a[chrom]; !ok {
			return nil, fmt.Errorf("chromosome %q missing from first track set", chrom)
		}
	}

	diff := make(track.Set, len(a))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for chrom, as := range a {
		bs, ok := b[chrom]
		if !ok {
			return nil, fmt.Errorf("chromosome %q missing from second track set", chrom)
		}
		if len(as) != len(bs) {
			return nil, fmt.Errorf("chromosome %q length mismatch: %d vs %d", chrom, len(as), len(bs))
		}
		// Each goroutine writes only its own preallocated slice.
		out := make([]float64, len(as))
		diff[chrom] = out
		as, bs := as, bs
		g.Go(func() error {
			for i := range as {
				out[i] = bs[i] - as[i]
			}
			return nil
		})
	}
	g.Wait()
	return diff, nil
}
