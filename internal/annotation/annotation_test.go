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

package annotation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testGTF = `##gff-version 2
chr1	ensembl	gene	11	100	.	+	.	gene_id "g1"
chr1	ensembl	exon	11	20	.	+	.	gene_id "g1"; transcript_id "t1"
chr1	ensembl	exon	31	60	.	+	.	gene_id "g1"; transcript_id "t1"
chr2	ensembl	exon	1	5	.	-	.	gene_id "g2"; transcript_id "t2"
`

func writeTestGTF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gtf")
	if err := os.WriteFile(path, []byte(testGTF), 0644); err != nil {
		t.Fatalf("Failed to write test annotation: %v", err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	features, err := ReadFile(writeTestGTF(t))
	if err != nil {
		t.Fatalf("ReadFile() returned error: %v", err)
	}
	if got, want := len(features), 4; got != want {
		t.Fatalf("Wrong feature count: got %d, want %d", got, want)
	}

	first := features[1]
	if got, want := first.Chrom, "chr1"; got != want {
		t.Errorf("Wrong chromosome: got %q, want %q", got, want)
	}
	if got, want := first.Type, "exon"; got != want {
		t.Errorf("Wrong type: got %q, want %q", got, want)
	}
	// The file's 1-based inclusive interval [11, 20] becomes [10, 20).
	if first.Start != 10 || first.End != 20 {
		t.Errorf("Wrong interval: got [%d, %d), want [10, 20)", first.Start, first.End)
	}
	if !strings.Contains(first.Attributes, "gene_id") {
		t.Errorf("Attribute text %q does not mention gene_id", first.Attributes)
	}
}

func TestReadFile_MissingFile(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.gtf")); err == nil {
		t.Fatal("ReadFile(): expected error, not success")
	}
}

func TestByType(t *testing.T) {
	features, err := ReadFile(writeTestGTF(t))
	if err != nil {
		t.Fatalf("ReadFile() returned error: %v", err)
	}

	exons := ByType(features, "exon")
	if got, want := len(exons), 3; got != want {
		t.Fatalf("Wrong exon count: got %d, want %d", got, want)
	}
	for _, f := range exons {
		if f.Type != "exon" {
			t.Errorf("ByType returned feature of type %q", f.Type)
		}
	}
}
