package fasta

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/otukit/vclust/internal/types"
)

func TestReadBasic(t *testing.T) {
	input := `>f1 some description
ACGT
ACGT
>f2
GGCC

>f3;size=12
TTAA
`
	set, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("Read() returned %d records, expected 3", set.Len())
	}
	if seq, _ := set.Get("f1"); seq != "ACGTACGT" {
		t.Errorf("f1 sequence = %q, expected ACGTACGT (multi-line concat)", seq)
	}
	if seq, _ := set.Get("f2"); seq != "GGCC" {
		t.Errorf("f2 sequence = %q, expected GGCC", seq)
	}
	// size annotations are part of the label on read; StripSize is explicit
	if _, ok := set.Get("f3;size=12"); !ok {
		t.Error("expected annotated label to be preserved on read")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"sequence before header", "ACGT\n>f1\nACGT\n", "before first header"},
		{"empty header", ">\nACGT\n", "empty FASTA header"},
		{"record without sequence", ">f1\n>f2\nACGT\n", "no sequence"},
		{"trailing record without sequence", ">f1\nACGT\n>f2\n", "no sequence"},
		{"duplicate ID", ">f1\nACGT\n>f1\nGGCC\n", "duplicate sequence ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("Read() = nil, expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Read() = %v, expected error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	set := types.NewSequenceSet()
	_ = set.Add("f1", "ACGT")
	_ = set.Add("f2", "GGCCTTAA")

	var sb strings.Builder
	if err := Write(&sb, set); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	got, err := Read(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("round trip lost records: got %d", got.Len())
	}
	if seq, _ := got.Get("f2"); seq != "GGCCTTAA" {
		t.Errorf("round trip f2 = %q", seq)
	}
}

func TestWriteFileWithSizes(t *testing.T) {
	set := types.NewSequenceSet()
	_ = set.Add("f1", "ACGT")
	_ = set.Add("f2", "GGCC")

	path := filepath.Join(t.TempDir(), "seqs.fasta")
	err := WriteFileWithSizes(path, set, map[string]int64{"f1": 12})
	if err != nil {
		t.Fatalf("WriteFileWithSizes() = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() = %v", err)
	}
	content := string(data)
	if !strings.Contains(content, ">f1;size=12\n") {
		t.Errorf("missing size annotation for f1:\n%s", content)
	}
	// missing entry defaults to size 1
	if !strings.Contains(content, ">f2;size=1\n") {
		t.Errorf("missing default size annotation for f2:\n%s", content)
	}
}

func TestStripSize(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"f1;size=10", "f1"},
		{"f1;size=10;", "f1"},
		{"f1", "f1"},
		{";size=3", ""},
	}
	for _, tt := range tests {
		if got := StripSize(tt.label); got != tt.want {
			t.Errorf("StripSize(%q) = %q, expected %q", tt.label, got, tt.want)
		}
	}
}
