package types

import (
	"strings"
	"testing"
)

func TestClusterParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  ClusterParams
		wantErr string
	}{
		{
			name:   "typical values",
			params: ClusterParams{PercIdentity: 0.97, Threads: 4, Strand: StrandPlus},
		},
		{
			name:   "identity upper edge is inclusive",
			params: ClusterParams{PercIdentity: 1.0, Threads: 1},
		},
		{
			name:    "identity lower edge is exclusive",
			params:  ClusterParams{PercIdentity: 0, Threads: 1},
			wantErr: "perc-identity",
		},
		{
			name:    "identity above one",
			params:  ClusterParams{PercIdentity: 1.01, Threads: 1},
			wantErr: "perc-identity",
		},
		{
			name:    "negative identity",
			params:  ClusterParams{PercIdentity: -0.5, Threads: 1},
			wantErr: "perc-identity",
		},
		{
			name:   "zero threads means one per core",
			params: ClusterParams{PercIdentity: 0.9, Threads: 0},
		},
		{
			name:   "max threads",
			params: ClusterParams{PercIdentity: 0.9, Threads: 256},
		},
		{
			name:    "threads above max",
			params:  ClusterParams{PercIdentity: 0.9, Threads: 257},
			wantErr: "threads",
		},
		{
			name:    "negative threads",
			params:  ClusterParams{PercIdentity: 0.9, Threads: -1},
			wantErr: "threads",
		},
		{
			name:   "both strand",
			params: ClusterParams{PercIdentity: 0.9, Threads: 1, Strand: StrandBoth},
		},
		{
			name:    "unknown strand",
			params:  ClusterParams{PercIdentity: 0.9, Threads: 1, Strand: "minus"},
			wantErr: "invalid strand",
		},
		{
			name:   "empty strand allowed for methods that ignore it",
			params: ClusterParams{PercIdentity: 0.9, Threads: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, expected nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, expected error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSequenceSetRejectsDuplicates(t *testing.T) {
	s := NewSequenceSet()
	if err := s.Add("f1", "ACGT"); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if err := s.Add("f1", "TTTT"); err == nil {
		t.Error("Add() accepted a duplicate ID")
	}
	if err := s.Add("", "ACGT"); err == nil {
		t.Error("Add() accepted an empty ID")
	}
}

func TestSequenceSetPreservesOrder(t *testing.T) {
	s := NewSequenceSet()
	ids := []string{"z", "a", "m"}
	for _, id := range ids {
		if err := s.Add(id, "ACGT"); err != nil {
			t.Fatalf("Add(%s) = %v", id, err)
		}
	}
	got := s.IDs()
	for i, id := range ids {
		if got[i] != id {
			t.Errorf("IDs()[%d] = %s, expected %s", i, got[i], id)
		}
	}
}

func TestCollapseFeaturesSumsFrequencies(t *testing.T) {
	table := NewFeatureTable([]string{"s1", "s2"})
	table.Set("f1", "s1", 10)
	table.Set("f1", "s2", 2)
	table.Set("f2", "s1", 5)
	table.Set("f3", "s2", 7)

	// f1 and f2 cluster under f1's centroid; f3 keeps its own
	collapsed := table.CollapseFeatures(map[string]string{
		"f1": "f1",
		"f2": "f1",
		"f3": "f3",
	})

	if got := collapsed.Get("f1", "s1"); got != 15 {
		t.Errorf("collapsed f1/s1 = %v, expected 15", got)
	}
	if got := collapsed.Get("f1", "s2"); got != 2 {
		t.Errorf("collapsed f1/s2 = %v, expected 2", got)
	}
	if got := collapsed.Get("f3", "s2"); got != 7 {
		t.Errorf("collapsed f3/s2 = %v, expected 7", got)
	}
	if collapsed.NumFeatures() != 2 {
		t.Errorf("collapsed has %d features, expected 2", collapsed.NumFeatures())
	}
}

func TestCollapseFeaturesDropsUnmappedFeatures(t *testing.T) {
	table := NewFeatureTable([]string{"s1"})
	table.Set("matched", "s1", 3)
	table.Set("unmatched", "s1", 9)

	collapsed := table.CollapseFeatures(map[string]string{"matched": "ref1"})

	if collapsed.NumFeatures() != 1 {
		t.Fatalf("collapsed has %d features, expected 1", collapsed.NumFeatures())
	}
	if got := collapsed.Get("ref1", "s1"); got != 3 {
		t.Errorf("collapsed ref1/s1 = %v, expected 3", got)
	}
	if collapsed.Has("unmatched") {
		t.Error("unmatched feature survived collapse")
	}
}

func TestValidateAgainst(t *testing.T) {
	table := NewFeatureTable([]string{"s1"})
	table.Set("f1", "s1", 1)
	table.Set("f2", "s1", 2)

	seqs := NewSequenceSet()
	_ = seqs.Add("f1", "ACGT")
	_ = seqs.Add("f2", "GGCC")

	if err := table.ValidateAgainst(seqs); err != nil {
		t.Errorf("ValidateAgainst() = %v, expected nil", err)
	}

	extra := NewSequenceSet()
	_ = extra.Add("f1", "ACGT")
	_ = extra.Add("f2", "GGCC")
	_ = extra.Add("f3", "TTAA")
	err := table.ValidateAgainst(extra)
	if err == nil || !strings.Contains(err.Error(), "f3") {
		t.Errorf("ValidateAgainst() = %v, expected error naming f3", err)
	}

	missing := NewSequenceSet()
	_ = missing.Add("f1", "ACGT")
	err = table.ValidateAgainst(missing)
	if err == nil || !strings.Contains(err.Error(), "f2") {
		t.Errorf("ValidateAgainst() = %v, expected error naming f2", err)
	}
}

func TestFeatureTotal(t *testing.T) {
	table := NewFeatureTable([]string{"s1", "s2", "s3"})
	table.Set("f1", "s1", 1)
	table.Set("f1", "s2", 2.5)
	table.Set("f1", "s3", 0)
	if got := table.FeatureTotal("f1"); got != 3.5 {
		t.Errorf("FeatureTotal(f1) = %v, expected 3.5", got)
	}
	if got := table.FeatureTotal("absent"); got != 0 {
		t.Errorf("FeatureTotal(absent) = %v, expected 0", got)
	}
}
