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

package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/googlegenomics/mappability/internal/mappability"
	"github.com/googlegenomics/mappability/internal/track"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const distributionBins = 50

// PlotScoreDistributions renders the density of mappability scores for every
// k-mer size into a single plot.
func PlotScoreDistributions(sets map[string]track.Set, path string) error {
	labels := make([]string, 0, len(sets))
	for label := range sets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	p := plot.New()
	p.Title.Text = "Distribution of Mappability Scores"
	p.X.Label.Text = "Mappability Score"
	p.Y.Label.Text = "Density"

	for i, label := range labels {
		values := finiteScores(sets[label])
		if len(values) == 0 {
			return fmt.Errorf("track set %q has no finite scores", label)
		}
		line, err := plotter.NewLine(densityLine(values, distributionBins))
		if err != nil {
			return fmt.Errorf("building density line for %s-mers: %v", label, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(label+"-mers", line)
	}
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %v", path, err)
	}
	return nil
}

// PlotDiffHistogram renders the histogram of per-base score differences for
// one comparison.
func PlotDiffHistogram(diff track.Set, comparison, path string) error {
	values := finiteScores(diff)
	if len(values) == 0 {
		return fmt.Errorf("comparison %q has no finite differences", comparison)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Mappability Changes: %s", comparison)
	p.X.Label.Text = "Mappability Score Difference"
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(plotter.Values(values), 60)
	if err != nil {
		return fmt.Errorf("building histogram for %s: %v", comparison, err)
	}
	h.FillColor = plotutil.Color(0)
	p.Add(h)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %v", path, err)
	}
	return nil
}

// PlotRatioBoxes renders one box per k-mer size over the per-gene mappability
// ratios.
func PlotRatioBoxes(tables map[string]mappability.GeneTable, path string) error {
	labels := make([]string, 0, len(tables))
	for label := range tables {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	p := plot.New()
	p.Title.Text = "Per-Gene Mappability Ratios"
	p.X.Label.Text = "K-mer Size"
	p.Y.Label.Text = "Mappability Ratio"

	for i, label := range labels {
		var ratios plotter.Values
		for _, stats := range tables[label] {
			if r := stats.Ratio(); !math.IsNaN(r) {
				ratios = append(ratios, r)
			}
		}
		if len(ratios) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), ratios)
		if err != nil {
			return fmt.Errorf("building box plot for %s-mers: %v", label, err)
		}
		p.Add(box)
	}
	p.NominalX(labels...)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %v", path, err)
	}
	return nil
}

// PlotTopVarianceHeatmap renders the ratio of each high-variance gene per
// k-mer size as a heat map with one row per gene.
func PlotTopVarianceHeatmap(c *mappability.CrossK, top []mappability.GeneVariance, path string) error {
	if len(top) == 0 {
		return nil
	}

	grid := ratioGrid{labels: c.Labels}
	for _, gv := range top {
		grid.genes = append(grid.genes, gv.GeneID)
		grid.z = append(grid.z, c.Ratios[gv.GeneID])
	}

	p := plot.New()
	p.Title.Text = "Top Variance Genes"
	p.X.Label.Text = "K-mer Size"

	p.Add(plotter.NewHeatMap(grid, palette.Heat(12, 1)))
	p.NominalX(c.Labels...)
	p.NominalY(grid.genes...)

	if err := p.Save(8*vg.Inch, 10*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %v", path, err)
	}
	return nil
}

// ratioGrid adapts per-gene ratio rows to the heat map grid interface.
type ratioGrid struct {
	labels []string
	genes  []string
	z      [][]float64
}

func (g ratioGrid) Dims() (cols, rows int) { return len(g.labels), len(g.genes) }
func (g ratioGrid) Z(col, row int) float64 { return g.z[row][col] }
func (g ratioGrid) X(col int) float64      { return float64(col) }
func (g ratioGrid) Y(row int) float64      { return float64(row) }

// finiteScores flattens a track set into one slice, dropping NaN scores from
// regions without data.
func finiteScores(set track.Set) []float64 {
	var values []float64
	for _, scores := range set {
		for _, s := range scores {
			if !math.IsNaN(s) {
				values = append(values, s)
			}
		}
	}
	return values
}

// densityLine bins sorted values and returns the midpoint of each bin paired
// with its normalized density.
func densityLine(values []float64, bins int) plotter.XYs {
	sort.Float64s(values)
	lo, hi := values[0], values[len(values)-1]
	if hi <= lo {
		lo, hi = lo-0.5, lo+0.5
	}
	width := (hi - lo) / float64(bins)

	dividers := make([]float64, bins+1)
	for i := range dividers {
		dividers[i] = lo + float64(i)*width
	}
	// Place the last divider just past the maximum so it falls in the top bin.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, values, nil)
	n := float64(len(values))
	xys := make(plotter.XYs, bins)
	for i, count := range counts {
		xys[i].X = lo + (float64(i)+0.5)*width
		xys[i].Y = count / (n * width)
	}
	return xys
}
