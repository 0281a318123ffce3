package types

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Strand controls which strands vsearch searches during closed-reference
// clustering
type Strand string

const (
	StrandPlus Strand = "plus" // forward strand only
	StrandBoth Strand = "both" // forward and reverse complement
)

// IsValid checks if the strand value is valid
func (s Strand) IsValid() bool {
	switch s {
	case StrandPlus, StrandBoth:
		return true
	}
	return false
}

const (
	// MaxThreads is the largest thread count vsearch accepts
	MaxThreads = 256
)

// ClusterParams holds the user-facing clustering parameters. All three map
// directly onto vsearch flags; nothing is interpreted here beyond range
// checks.
type ClusterParams struct {
	// PercIdentity maps to vsearch's --id parameter. Valid range is the
	// open-start interval (0, 1].
	PercIdentity float64

	// Threads maps to vsearch's --threads parameter. 0 means one thread
	// per CPU core (vsearch's own convention); otherwise 1-256.
	Threads int

	// Strand maps to vsearch's --strand parameter. Only consulted by
	// closed-reference clustering.
	Strand Strand
}

// Validate checks the parameter ranges before any subprocess is spawned
func (p *ClusterParams) Validate() error {
	if math.IsNaN(p.PercIdentity) || p.PercIdentity <= 0 || p.PercIdentity > 1 {
		return fmt.Errorf("perc-identity must be in (0, 1] (got %v)", p.PercIdentity)
	}
	if p.Threads < 0 || p.Threads > MaxThreads {
		return fmt.Errorf("threads must be between 0 and %d (got %d)", MaxThreads, p.Threads)
	}
	if p.Strand != "" && !p.Strand.IsValid() {
		return fmt.Errorf("invalid strand: %s (expected %s or %s)", p.Strand, StrandPlus, StrandBoth)
	}
	return nil
}

// Sequence is a single feature's representative nucleotide sequence
type Sequence struct {
	ID  string
	Seq string
}

// SequenceSet is an ordered collection of feature sequences, typically read
// from or destined for a FASTA artifact. Order is preserved so output
// artifacts are deterministic.
type SequenceSet struct {
	order []string
	seqs  map[string]string
}

// NewSequenceSet creates an empty sequence set
func NewSequenceSet() *SequenceSet {
	return &SequenceSet{seqs: make(map[string]string)}
}

// Add appends a sequence to the set. Duplicate IDs are rejected because a
// feature can only have one representative sequence.
func (s *SequenceSet) Add(id, seq string) error {
	if id == "" {
		return fmt.Errorf("sequence ID is required")
	}
	if _, ok := s.seqs[id]; ok {
		return fmt.Errorf("duplicate sequence ID: %s", id)
	}
	s.order = append(s.order, id)
	s.seqs[id] = seq
	return nil
}

// Len returns the number of sequences in the set
func (s *SequenceSet) Len() int {
	return len(s.order)
}

// Get returns the sequence for a feature ID
func (s *SequenceSet) Get(id string) (string, bool) {
	seq, ok := s.seqs[id]
	return seq, ok
}

// IDs returns the feature IDs in insertion order
func (s *SequenceSet) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Each calls fn for every sequence in insertion order, stopping at the
// first error
func (s *SequenceSet) Each(fn func(id, seq string) error) error {
	for _, id := range s.order {
		if err := fn(id, s.seqs[id]); err != nil {
			return err
		}
	}
	return nil
}

// FeatureTable is a samples x features frequency matrix. Frequencies are
// float64 to round-trip the TSV artifact format, though whole counts are
// the common case.
type FeatureTable struct {
	samples  []string
	features []string
	// data[featureID][sampleID] = frequency; absent means zero
	data map[string]map[string]float64
}

// NewFeatureTable creates an empty table over a fixed set of samples
func NewFeatureTable(samples []string) *FeatureTable {
	t := &FeatureTable{
		samples: make([]string, len(samples)),
		data:    make(map[string]map[string]float64),
	}
	copy(t.samples, samples)
	return t
}

// Samples returns the sample IDs in column order
func (t *FeatureTable) Samples() []string {
	out := make([]string, len(t.samples))
	copy(out, t.samples)
	return out
}

// Features returns the feature IDs in row order
func (t *FeatureTable) Features() []string {
	out := make([]string, len(t.features))
	copy(out, t.features)
	return out
}

// NumFeatures returns the number of feature rows
func (t *FeatureTable) NumFeatures() int {
	return len(t.features)
}

// Has reports whether the table contains a feature row
func (t *FeatureTable) Has(feature string) bool {
	_, ok := t.data[feature]
	return ok
}

// Get returns the frequency of a feature in a sample (zero if absent)
func (t *FeatureTable) Get(feature, sample string) float64 {
	return t.data[feature][sample]
}

// Set records the frequency of a feature in a sample, creating the feature
// row on first use
func (t *FeatureTable) Set(feature, sample string, freq float64) {
	row, ok := t.data[feature]
	if !ok {
		row = make(map[string]float64)
		t.data[feature] = row
		t.features = append(t.features, feature)
	}
	row[sample] = freq
}

// Increment adds to the frequency of a feature in a sample
func (t *FeatureTable) Increment(feature, sample string, delta float64) {
	t.Set(feature, sample, t.Get(feature, sample)+delta)
}

// FeatureTotal returns the frequency of a feature summed across all samples
func (t *FeatureTable) FeatureTotal(feature string) float64 {
	var total float64
	for _, freq := range t.data[feature] {
		total += freq
	}
	return total
}

// CollapseFeatures merges features according to mapping (member feature ID
// to cluster centroid feature ID). The frequency of a collapsed feature in
// a sample is the sum of the frequencies of the features that were merged
// into it. Features absent from the mapping are dropped, which is how
// closed-reference clustering discards unmatched features.
func (t *FeatureTable) CollapseFeatures(mapping map[string]string) *FeatureTable {
	out := NewFeatureTable(t.samples)
	for _, feature := range t.features {
		centroid, ok := mapping[feature]
		if !ok {
			continue
		}
		for sample, freq := range t.data[feature] {
			if freq != 0 {
				out.Increment(centroid, sample, freq)
			}
		}
	}
	return out
}

// ValidateAgainst checks that the table's feature IDs exactly match the
// sequence set's IDs. Clustering a feature with no representative sequence
// (or vice versa) would silently mis-map frequencies, so mismatches are
// rejected up front.
func (t *FeatureTable) ValidateAgainst(seqs *SequenceSet) error {
	var missing []string
	for _, f := range t.features {
		if _, ok := seqs.Get(f); !ok {
			missing = append(missing, f)
		}
	}
	var extra []string
	for _, id := range seqs.IDs() {
		if !t.Has(id) {
			extra = append(extra, id)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("table features with no sequence: %s", strings.Join(missing, ", ")))
	}
	if len(extra) > 0 {
		parts = append(parts, fmt.Sprintf("sequences with no table feature: %s", strings.Join(extra, ", ")))
	}
	return fmt.Errorf("feature IDs in table and sequences do not match: %s", strings.Join(parts, "; "))
}
