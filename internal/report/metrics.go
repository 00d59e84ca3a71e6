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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Metrics summarizes one analysis run.  It is written next to the other
// outputs so batch runs can be audited later.
type Metrics struct {
	RunID       string `json:"run_id"`
	Date        string `json:"date"`
	Elapsed     string `json:"elapsed"`
	TrackDir    string `json:"track_dir"`
	Tracks      int    `json:"track_count"`
	Comparisons int    `json:"comparison_count"`

	// Gene analysis counters; zero when no annotation file was supplied.
	Genes             int `json:"gene_count,omitempty"`
	MissingGeneID     int `json:"skipped_missing_gene_id,omitempty"`
	UnknownChromosome int `json:"skipped_unknown_chromosome,omitempty"`
}

// NewMetrics returns metrics for a run starting now.
func NewMetrics(trackDir string) *Metrics {
	return &Metrics{
		RunID:    uuid.New().String(),
		Date:     time.Now().Format(time.RFC3339),
		TrackDir: trackDir,
	}
}

// Write stores the metrics as indented JSON at path.
func (m *Metrics) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "\t")
	if err != nil {
		return fmt.Errorf("encoding metrics: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing metrics: %v", err)
	}
	return nil
}
