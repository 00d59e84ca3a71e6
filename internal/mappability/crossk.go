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
	"math"
	"runtime"
	"sort"

	"github.com/googlegenomics/mappability/internal/annotation"
	"github.com/googlegenomics/mappability/internal/track"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// CrossK holds one mappability ratio per k-mer size for every gene of
// interest.  Rows cover the genes found in the smallest label's table; a gene
// absent from some other label's table has NaN in that column.
type CrossK struct {
	// Labels are the k-mer size labels in sorted order, one per column.
	Labels []string
	// Genes are the row keys in sorted order.
	Genes []string
	// Ratios maps each gene to its per-label ratios, indexed like Labels.
	Ratios map[string][]float64
}

// GeneVariance pairs a gene with the sample variance of its mappability
// ratios across k-mer sizes.
type GeneVariance struct {
	GeneID   string
	Variance float64
}

// AnalyzeGenes aggregates the same exon features against every k-mer size's
// track set and merges the resulting tables into a cross-k ratio view.  The
// per-label aggregations are independent and run concurrently.
func AnalyzeGenes(sets map[string]track.Set, exons []annotation.Feature, parser AttributeParser) (map[string]GeneTable, *CrossK, AggregateStats) {
	labels := make([]string, 0, len(sets))
	for label := range sets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	byIndex := make([]GeneTable, len(labels))
	skips := make([]AggregateStats, len(labels))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, label := range labels {
		i, label := i, label
		g.Go(func() error {
			byIndex[i], skips[i] = AggregateGenes(sets[label], exons, parser)
			return nil
		})
	}
	g.Wait()

	tables := make(map[string]GeneTable, len(labels))
	var skipped AggregateStats
	for i, label := range labels {
		tables[label] = byIndex[i]
		skipped.add(skips[i])
	}
	return tables, mergeTables(labels, tables), skipped
}

// mergeTables builds the cross-k view keyed by the genes of the smallest
// label's table.
func mergeTables(labels []string, tables map[string]GeneTable) *CrossK {
	c := &CrossK{Labels: labels, Ratios: make(map[string][]float64)}
	if len(labels) == 0 {
		return c
	}
	for id := range tables[labels[0]] {
		c.Genes = append(c.Genes, id)
	}
	sort.Strings(c.Genes)
	for _, id := range c.Genes {
		ratios := make([]float64, len(labels))
		for i, label := range labels {
			if stats, ok := tables[label][id]; ok {
				ratios[i] = stats.Ratio()
			} else {
				ratios[i] = math.NaN()
			}
		}
		c.Ratios[id] = ratios
	}
	return c
}

// Variance returns the sample variance of the gene's ratios across k-mer
// sizes, or NaN when the gene has a missing ratio or there are fewer than two
// columns.
func (c *CrossK) Variance(id string) float64 {
	ratios, ok := c.Ratios[id]
	if !ok || len(c.Labels) < 2 || !complete(ratios) {
		return math.NaN()
	}
	return stat.Variance(ratios, nil)
}

// TopVariance returns the n genes with the highest cross-k ratio variance in
// descending order.  Genes with a missing or undefined ratio in any column
// are excluded: a variance over fewer columns would not rank against the
// others.
func (c *CrossK) TopVariance(n int) []GeneVariance {
	if len(c.Labels) < 2 {
		return nil
	}
	var ranked []GeneVariance
	for _, id := range c.Genes {
		ratios := c.Ratios[id]
		if !complete(ratios) {
			continue
		}
		ranked = append(ranked, GeneVariance{GeneID: id, Variance: stat.Variance(ratios, nil)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Variance > ranked[j].Variance })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func complete(ratios []float64) bool {
	for _, r := range ratios {
		if math.IsNaN(r) {
			return false
		}
	}
	return true
}
