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
	"strings"

	"github.com/googlegenomics/mappability/internal/annotation"
	"github.com/googlegenomics/mappability/internal/track"
)

// A base counts as mappable when its score strictly exceeds this value.
const mappableThreshold = 0.9

// AttributeParser extracts the value of a named attribute from a feature's
// raw attribute text.  Implementations encode one annotation dialect so that
// aggregation stays independent of attribute syntax.
type AttributeParser interface {
	Extract(attributes, key string) (string, bool)
}

// GTFAttributes parses the GTF attribute dialect: semicolon-delimited
// segments of the form `key "value"`.
type GTFAttributes struct{}

// Extract returns the value of the first segment whose key matches, with
// surrounding quotes removed.
func (GTFAttributes) Extract(attributes, key string) (string, bool) {
	for _, segment := range strings.Split(attributes, ";") {
		fields := strings.Fields(segment)
		if len(fields) >= 2 && fields[0] == key {
			return strings.Trim(fields[1], `"`), true
		}
	}
	return "", false
}

// GeneStats accumulates exon base counts for one gene.
type GeneStats struct {
	GeneID        string
	TotalBases    int
	MappableBases int
}

// Ratio returns the fraction of examined exon bases that were mappable, or
// NaN when no bases were examined.
func (s GeneStats) Ratio() float64 {
	if s.TotalBases == 0 {
		return math.NaN()
	}
	return float64(s.MappableBases) / float64(s.TotalBases)
}

// GeneTable holds per-gene statistics for one k-mer size, keyed by gene ID.
type GeneTable map[string]GeneStats

// AggregateStats counts features excluded from an aggregation.  Exclusions
// are expected with real annotations and are reported, not errors.
type AggregateStats struct {
	MissingGeneID     int
	UnknownChromosome int
}

func (s *AggregateStats) add(o AggregateStats) {
	s.MissingGeneID += o.MissingGeneID
	s.UnknownChromosome += o.UnknownChromosome
}

// AggregateGenes rolls per-base scores up into per-gene mappable and total
// exon base counts.  Features without the gene_id attribute or on a
// chromosome absent from the track set are skipped.
func AggregateGenes(scores track.Set, exons []annotation.Feature, parser AttributeParser) (GeneTable, AggregateStats) {
	genes := make(GeneTable)
	var skipped AggregateStats
	for _, exon := range exons {
		id, ok := parser.Extract(exon.Attributes, "gene_id")
		if !ok {
			skipped.MissingGeneID++
			continue
		}
		window, ok := scores.Slice(exon.Chrom, exon.Start, exon.End)
		if !ok {
			skipped.UnknownChromosome++
			continue
		}
		mappable := 0
		for _, score := range window {
			if score > mappableThreshold {
				mappable++
			}
		}
		stats := genes[id]
		stats.GeneID = id
		stats.TotalBases += len(window)
		stats.MappableBases += mappable
		genes[id] = stats
	}
	return genes, skipped
}
