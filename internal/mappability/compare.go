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

package mappability

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/googlegenomics/mappability/internal/track"
)

// LoadFunc reads one genome track file into a per-chromosome score set.
type LoadFunc func(path string) (track.Set, error)

// Comparison holds the outcome of comparing mappability tracks for several
// k-mer sizes: the loaded per-label sets and the pairwise differences keyed
// "{smaller}_vs_{larger}" with labels in sorted order.
type Comparison struct {
	Sets  map[string]track.Set
	Diffs map[string]track.Set
}

// Labels returns the k-mer size labels in sorted order.
func (c *Comparison) Labels() []string {
	labels := make([]string, 0, len(c.Sets))
	for label := range c.Sets {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Label derives the k-mer size label for a track file: the base name up to
// the first underscore (for example "31" from "31_mappability.bw").
func Label(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "_"); i >= 0 {
		return base[:i]
	}
	return base
}

// CompareAll loads every listed track file and computes the difference for
// each unordered pair of distinct k-mer size labels.  Any load or comparison
// failure fails the whole run.
func CompareAll(paths []string, load LoadFunc) (*Comparison, error) {
	sets := make(map[string]track.Set, len(paths))
	for _, path := range paths {
		label := Label(path)
		if _, ok := sets[label]; ok {
			return nil, fmt.Errorf("duplicate k-mer size label %q from %s", label, path)
		}
		set, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %v", path, err)
		}
		sets[label] = set
	}

	c := &Comparison{Sets: sets, Diffs: make(map[string]track.Set)}
	labels := c.Labels()
	for i := 0; i < len(labels)-1; i++ {
		for j := i + 1; j < len(labels); j++ {
			k1, k2 := labels[i], labels[j]
			diff, err := Diff(sets[k1], sets[k2])
			if err != nil {
				return nil, fmt.Errorf("comparing %s-mers to %s-mers: %v", k1, k2, err)
			}
			c.Diffs[k1+"_vs_"+k2] = diff
		}
	}
	return c, nil
}
