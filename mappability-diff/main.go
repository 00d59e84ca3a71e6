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

// This binary compares genome mappability tracks across k-mer sizes and,
// given a gene annotation, aggregates per-base scores into per-gene
// mappability ratios.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/googlegenomics/mappability/internal/annotation"
	"github.com/googlegenomics/mappability/internal/mappability"
	"github.com/googlegenomics/mappability/internal/report"
	"github.com/googlegenomics/mappability/internal/track"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	trackSuffix = ".bw"

	// Number of genes reported in the variance ranking.
	topGeneCount = 100
)

var (
	annotationPath string
	verbose        bool
	profileRun     bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "mappability-diff <track-dir> <output-dir>",
		Short: "Compare genome mappability across k-mer sizes",
		Long: `mappability-diff loads every BigWig mappability track in <track-dir>
(file names start with the k-mer size, e.g. 31_hg38.bw), compares all pairs of
k-mer sizes and writes distribution plots and difference histograms to
<output-dir>.  With --annotation, per-base scores are additionally rolled up
into per-gene mappability ratios over exon regions for every k-mer size.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1])
		},
	}
	cmd.Flags().StringVarP(&annotationPath, "annotation", "a", "", "GTF annotation file enabling per-gene analysis")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "increase output verbosity")
	cmd.Flags().BoolVar(&profileRun, "profile", false, "write a CPU profile to the output directory")

	if err := cmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(trackDir, outputDir string) error {
	start := time.Now()
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %v", err)
	}
	if profileRun {
		defer profile.Start(profile.ProfilePath(outputDir)).Stop()
	}

	paths, err := trackFiles(trackDir)
	if err != nil {
		return err
	}
	logrus.Infof("Loading %d mappability tracks from %s", len(paths), trackDir)

	c, err := mappability.CompareAll(paths, track.LoadBigWig)
	if err != nil {
		return err
	}
	metrics := report.NewMetrics(trackDir)
	metrics.Tracks = len(c.Sets)
	metrics.Comparisons = len(c.Diffs)

	if err := report.PlotScoreDistributions(c.Sets, filepath.Join(outputDir, "mappability_distribution.png")); err != nil {
		return fmt.Errorf("plotting score distributions: %v", err)
	}
	for name, diff := range c.Diffs {
		logrus.Debugf("Plotting comparison %s", name)
		path := filepath.Join(outputDir, "mappability_changes_"+name+".png")
		if err := report.PlotDiffHistogram(diff, name, path); err != nil {
			return fmt.Errorf("plotting comparison %s: %v", name, err)
		}
	}

	if annotationPath != "" {
		if err := analyzeGenes(c, outputDir, metrics); err != nil {
			return err
		}
	}

	metrics.Elapsed = time.Since(start).String()
	if err := metrics.Write(filepath.Join(outputDir, "mappability_run.json")); err != nil {
		return err
	}
	logrus.Infof("Analysis complete, output saved to %s", outputDir)
	return nil
}

func analyzeGenes(c *mappability.Comparison, outputDir string, metrics *report.Metrics) error {
	features, err := annotation.ReadFile(annotationPath)
	if err != nil {
		return err
	}
	exons := annotation.ByType(features, "exon")
	logrus.Infof("Aggregating %d exon features over %d k-mer sizes", len(exons), len(c.Sets))

	tables, crossK, skipped := mappability.AnalyzeGenes(c.Sets, exons, mappability.GTFAttributes{})
	logrus.Debugf("Skipped %d features without gene_id and %d on unknown chromosomes",
		skipped.MissingGeneID, skipped.UnknownChromosome)
	metrics.Genes = len(crossK.Genes)
	metrics.MissingGeneID = skipped.MissingGeneID
	metrics.UnknownChromosome = skipped.UnknownChromosome

	for label, genes := range tables {
		path := filepath.Join(outputDir, "gene_mappability_"+label+".csv")
		if err := writeCSV(path, func(f *os.File) error {
			return report.WriteGeneTable(f, genes)
		}); err != nil {
			return err
		}
	}
	if err := writeCSV(filepath.Join(outputDir, "cross_k_gene_ratios.csv"), func(f *os.File) error {
		return report.WriteCrossK(f, crossK)
	}); err != nil {
		return err
	}

	top := crossK.TopVariance(topGeneCount)
	if err := writeCSV(filepath.Join(outputDir, "top_variance_genes.csv"), func(f *os.File) error {
		return report.WriteTopVariance(f, top)
	}); err != nil {
		return err
	}

	if err := report.PlotRatioBoxes(tables, filepath.Join(outputDir, "gene_ratio_boxplot.png")); err != nil {
		return fmt.Errorf("plotting ratio boxes: %v", err)
	}
	if err := report.PlotTopVarianceHeatmap(crossK, top, filepath.Join(outputDir, "top_variance_heatmap.png")); err != nil {
		return fmt.Errorf("plotting variance heatmap: %v", err)
	}
	return nil
}

// trackFiles lists the track files in dir, sorted by name.
func trackFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading track directory: %v", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), trackSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s track files found in %s", trackSuffix, dir)
	}
	sort.Strings(paths)
	return paths, nil
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %v", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %v", path, err)
	}
	return nil
}
