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

// Package report writes analysis results as tabular files, plots and run
// metrics for downstream consumers.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/googlegenomics/mappability/internal/mappability"
)

// WriteGeneTable writes one k-mer size's per-gene statistics as CSV with the
// columns gene_id, total_exon_bases, mappable_bases and mappability_ratio.
// Rows are ordered by gene ID.
func WriteGeneTable(w io.Writer, genes mappability.GeneTable) error {
	ids := make([]string, 0, len(genes))
	for id := range genes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	totals := make([]int, len(ids))
	mappable := make([]int, len(ids))
	ratios := make([]float64, len(ids))
	for i, id := range ids {
		stats := genes[id]
		totals[i] = stats.TotalBases
		mappable[i] = stats.MappableBases
		ratios[i] = stats.Ratio()
	}

	df := dataframe.New(
		series.New(ids, series.String, "gene_id"),
		series.New(totals, series.Int, "total_exon_bases"),
		series.New(mappable, series.Int, "mappable_bases"),
		series.New(ratios, series.Float, "mappability_ratio"),
	)
	if df.Err != nil {
		return fmt.Errorf("building gene table: %v", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("writing gene table: %v", err)
	}
	return nil
}

// ReadGeneTable reads a CSV written by WriteGeneTable back into a gene table.
// The ratio column is not stored; it is recomputed from the base counts.
func ReadGeneTable(r io.Reader) (mappability.GeneTable, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return nil, fmt.Errorf("reading gene table: %v", df.Err)
	}

	genes := make(mappability.GeneTable, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		id := df.Col("gene_id").Elem(i).String()
		total, err := df.Col("total_exon_bases").Elem(i).Int()
		if err != nil {
			return nil, fmt.Errorf("row %d: bad total_exon_bases: %v", i, err)
		}
		mappable, err := df.Col("mappable_bases").Elem(i).Int()
		if err != nil {
			return nil, fmt.Errorf("row %d: bad mappable_bases: %v", i, err)
		}
		genes[id] = mappability.GeneStats{
			GeneID:        id,
			TotalBases:    total,
			MappableBases: mappable,
		}
	}
	return genes, nil
}

// WriteCrossK writes the per-gene, per-k ratio table as CSV.  Each k-mer size
// contributes a ratio_{label} column; the final column holds the cross-k
// sample variance (NaN when any ratio is missing).
func WriteCrossK(w io.Writer, c *mappability.CrossK) error {
	columns := []series.Series{series.New(c.Genes, series.String, "gene_id")}
	for i, label := range c.Labels {
		ratios := make([]float64, len(c.Genes))
		for j, id := range c.Genes {
			ratios[j] = c.Ratios[id][i]
		}
		columns = append(columns, series.New(ratios, series.Float, "ratio_"+label))
	}
	variances := make([]float64, len(c.Genes))
	for j, id := range c.Genes {
		variances[j] = c.Variance(id)
	}
	columns = append(columns, series.New(variances, series.Float, "variance"))

	df := dataframe.New(columns...)
	if df.Err != nil {
		return fmt.Errorf("building cross-k table: %v", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("writing cross-k table: %v", err)
	}
	return nil
}

// WriteTopVariance writes the ranked high-variance genes as CSV.
func WriteTopVariance(w io.Writer, top []mappability.GeneVariance) error {
	ids := make([]string, len(top))
	variances := make([]float64, len(top))
	for i, gv := range top {
		ids[i] = gv.GeneID
		variances[i] = gv.Variance
	}

	df := dataframe.New(
		series.New(ids, series.String, "gene_id"),
		series.New(variances, series.Float, "variance"),
	)
	if df.Err != nil {
		return fmt.Errorf("building variance table: %v", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("writing variance table: %v", err)
	}
	return nil
}
