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
	"testing"

	"github.com/googlegenomics/mappability/internal/annotation"
	"github.com/googlegenomics/mappability/internal/track"
)

func TestGTFAttributes(t *testing.T) {
	testCases := []struct {
		name       string
		attributes string
		key        string
		want       string
		ok         bool
	}{
		{"quoted value", `gene_id "ENSG01"; transcript_id "ENST01"`, "gene_id", "ENSG01", true},
		{"second segment", `transcript_id "ENST01"; gene_id "ENSG01"`, "gene_id", "ENSG01", true},
		{"unquoted value", `gene_id ENSG01`, "gene_id", "ENSG01", true},
		{"missing key", `transcript_id "ENST01"`, "gene_id", "", false},
		{"empty attributes", ``, "gene_id", "", false},
		{"key without value", `gene_id`, "gene_id", "", false},
		{"trailing semicolon", `gene_id "ENSG01";`, "gene_id", "ENSG01", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := GTFAttributes{}.Extract(tc.attributes, tc.key)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("Extract(%q, %q): got (%q, %v), want (%q, %v)",
					tc.attributes, tc.key, got, ok, tc.want, tc.ok)
			}
		})
	}
}

// scoresWithMappable builds a window of the given length whose first
// mappable positions score above the threshold and the rest below.
func scoresWithMappable(length, mappable int) []float64 {
	scores := make([]float64, length)
	for i := range scores {
		if i < mappable {
			scores[i] = 0.95
		} else {
			scores[i] = 0.5
		}
	}
	return scores
}

func TestAggregateGenes_MultiExonGene(t *testing.T) {
	scores := append(scoresWithMappable(10, 5), scoresWithMappable(20, 15)...)
	set := track.Set{"chr1": scores}
	exons := []annotation.Feature{
		{Chrom: "chr1", Start: 0, End: 10, Type: "exon", Attributes: `gene_id "g1"`},
		{Chrom: "chr1", Start: 10, End: 30, Type: "exon", Attributes: `gene_id "g1"`},
	}

	genes, skipped := AggregateGenes(set, exons, GTFAttributes{})
	if skipped.MissingGeneID != 0 || skipped.UnknownChromosome != 0 {
		t.Fatalf("Unexpected skips: %+v", skipped)
	}
	stats, ok := genes["g1"]
	if !ok {
		t.Fatal("Missing gene g1")
	}
	if got, want := stats.TotalBases, 30; got != want {
		t.Errorf("Wrong total bases: got %d, want %d", got, want)
	}
	if got, want := stats.MappableBases, 20; got != want {
		t.Errorf("Wrong mappable bases: got %d, want %d", got, want)
	}
	if got, want := stats.Ratio(), 20.0/30.0; math.Abs(got-want) > 1e-4 {
		t.Errorf("Wrong ratio: got %v, want %v", got, want)
	}
}

func TestAggregateGenes_ThresholdIsStrict(t *testing.T) {
	set := track.Set{"chr1": {0.9, 0.9000001, 1.0}}
	exons := []annotation.Feature{
		{Chrom: "chr1", Start: 0, End: 3, Type: "exon", Attributes: `gene_id "g1"`},
	}

	genes, _ := AggregateGenes(set, exons, GTFAttributes{})
	// A score of exactly 0.9 does not count as mappable.
	if got, want := genes["g1"].MappableBases, 2; got != want {
		t.Fatalf("Wrong mappable bases: got %d, want %d", got, want)
	}
}

func TestAggregateGenes_Skips(t *testing.T) {
	set := track.Set{"chr1": scoresWithMappable(10, 10)}
	exons := []annotation.Feature{
		{Chrom: "chr1", Start: 0, End: 5, Type: "exon", Attributes: `transcript_id "t1"`},
		{Chrom: "chrMissing", Start: 0, End: 5, Type: "exon", Attributes: `gene_id "g2"`},
		{Chrom: "chr1", Start: 5, End: 10, Type: "exon", Attributes: `gene_id "g3"`},
	}

	genes, skipped := AggregateGenes(set, exons, GTFAttributes{})
	if got, want := skipped.MissingGeneID, 1; got != want {
		t.Errorf("Wrong missing gene_id count: got %d, want %d", got, want)
	}
	if got, want := skipped.UnknownChromosome, 1; got != want {
		t.Errorf("Wrong unknown chromosome count: got %d, want %d", got, want)
	}
	if _, ok := genes["g2"]; ok {
		t.Error("Gene on a missing chromosome contributed to totals")
	}
	if got, want := len(genes), 1; got != want {
		t.Errorf("Wrong gene count: got %d, want %d", got, want)
	}
	if got, want := genes["g3"].TotalBases, 5; got != want {
		t.Errorf("Wrong total bases for g3: got %d, want %d", got, want)
	}
}

func TestGeneStats_ZeroBasesRatio(t *testing.T) {
	set := track.Set{"chr1": scoresWithMappable(10, 10)}
	exons := []annotation.Feature{
		// Zero-length window.
		{Chrom: "chr1", Start: 4, End: 4, Type: "exon", Attributes: `gene_id "empty"`},
	}

	genes, _ := AggregateGenes(set, exons, GTFAttributes{})
	stats, ok := genes["empty"]
	if !ok {
		t.Fatal("Missing gene entry for zero-length exon")
	}
	if stats.TotalBases != 0 {
		t.Fatalf("Wrong total bases: got %d, want 0", stats.TotalBases)
	}
	if !math.IsNaN(stats.Ratio()) {
		t.Fatalf("Wrong ratio for zero bases: got %v, want NaN", stats.Ratio())
	}
}
