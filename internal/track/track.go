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

// Package track provides support for reading genome mappability tracks.
package track

import (
	"fmt"
	"math"

	"github.com/pbenner/gonetics"
)

// Set holds per-base scores for a whole genome, keyed by chromosome name.
// Positions are 0-based and dense: the slice for a chromosome has one entry
// per base.  A Set is built once and read-only thereafter.
type Set map[string][]float64

// Sizes returns the length of every chromosome in the set.
func (s Set) Sizes() map[string]int {
	sizes := make(map[string]int, len(s))
	for chrom, scores := range s {
		sizes[chrom] = len(scores)
	}
	return sizes
}

// Slice returns the scores for the half-open window [from, to) on the named
// chromosome.  The window is clipped to the chromosome bounds.  The second
// return value is false when the chromosome is not in the set.
func (s Set) Slice(chrom string, from, to int) ([]float64, bool) {
	scores, ok := s[chrom]
	if !ok {
		return nil, false
	}
	if from < 0 {
		from = 0
	}
	if to > len(scores) {
		to = len(scores)
	}
	if from >= to {
		return nil, true
	}
	return scores[from:to], true
}

// LoadBigWig reads a BigWig file into a Set.  The track must store scores at
// base resolution; coarser binning indicates the wrong kind of input and is
// rejected.
func LoadBigWig(path string) (Set, error) {
	var t gonetics.SimpleTrack
	if err := t.ImportBigWig(path, "", gonetics.BinMean, 0, 0, math.NaN()); err != nil {
		return nil, fmt.Errorf("importing track %s: %v", path, err)
	}
	if t.BinSize != 1 {
		return nil, fmt.Errorf("track %s is binned at %d bp resolution (per-base scores required)", path, t.BinSize)
	}
	set := make(Set, len(t.Data))
	for chrom, scores := range t.Data {
		set[chrom] = scores
	}
	return set, nil
}
