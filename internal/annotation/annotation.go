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

// Package annotation provides support for reading gene annotation files.
package annotation

import (
	"fmt"
	"os"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
)

// Feature is a single annotation record.  Start and End describe a 0-based
// half-open interval: the GFF reader already converts the file's 1-based
// inclusive coordinates.
type Feature struct {
	Chrom      string
	Start, End int
	Type       string
	Attributes string
}

// ReadFile reads all features from a GTF (GFF version 2) annotation file.
func ReadFile(path string) ([]Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening annotation file: %v", err)
	}
	defer f.Close()

	var features []Feature
	sc := featio.NewScanner(gff.NewReader(f))
	for sc.Next() {
		gf, ok := sc.Feat().(*gff.Feature)
		if !ok {
			continue
		}
		features = append(features, Feature{
			Chrom:      gf.SeqName,
			Start:      gf.FeatStart,
			End:        gf.FeatEnd,
			Type:       gf.Feature,
			Attributes: attributeText(gf),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("reading annotations from %s: %v", path, err)
	}
	return features, nil
}

// ByType returns the features whose type matches typ.
func ByType(features []Feature, typ string) []Feature {
	var matched []Feature
	for _, f := range features {
		if f.Type == typ {
			matched = append(matched, f)
		}
	}
	return matched
}

func attributeText(f *gff.Feature) string {
	parts := make([]string, 0, len(f.FeatAttributes))
	for _, a := range f.FeatAttributes {
		parts = append(parts, a.Tag+" "+a.Value)
	}
	return strings.Join(parts, "; ")
}
