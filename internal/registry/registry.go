// Package registry holds the declarative descriptions of the methods this
// tool exposes. Registration is data, not behavior: the CLI renders these
// descriptors for documentation and help text, and each descriptor names
// the command that implements it. Adding a method means adding a
// descriptor here and a command that honors it.
package registry

// Port describes one typed input, parameter, or output of a method
type Port struct {
	Name        string
	Type        string
	Constraint  string // human-readable range/choice constraint, if any
	Description string
}

// Method describes one registered operation
type Method struct {
	// Name is the CLI command implementing the method
	Name string

	// Short is the one-line summary shown in listings
	Short string

	// Description documents the method's semantics
	Description string

	Inputs     []Port
	Parameters []Port
	Outputs    []Port
}

const (
	typeFeatureTable = "FeatureTable[Frequency]"
	typeSequences    = "FeatureData[Sequence]"
	typeSampleSeqs   = "SampleData[Sequences]"
)

var percIdentityPort = Port{
	Name:        "perc-identity",
	Type:        "Float",
	Constraint:  "(0, 1]",
	Description: "The percent identity at which clustering should be performed. This parameter maps to vsearch's --id parameter.",
}

var threadsPort = Port{
	Name:        "threads",
	Type:        "Int",
	Constraint:  "[0, 256]",
	Description: "The number of threads to use for computation. Passing 0 will launch one thread per CPU core.",
}

var methods = []Method{
	{
		Name:  "cluster-features-de-novo",
		Short: "De novo clustering of features.",
		Description: "Given a feature table and the associated feature sequences, cluster the features " +
			"based on a user-specified percent identity threshold of their sequences. This is intended " +
			"for clustering the results of quality-filtering/dereplication methods, or for re-clustering " +
			"a feature table at a lower percent identity than it was originally clustered at. When a " +
			"group of features is clustered into a single feature, the frequency of that feature in a " +
			"given sample is the sum of the frequencies of the features that were clustered in that " +
			"sample. Feature identifiers and sequences are inherited from the centroid feature of each " +
			"cluster.",
		Inputs: []Port{
			{Name: "table", Type: typeFeatureTable, Description: "The feature table to be clustered."},
			{Name: "sequences", Type: typeSequences, Description: "The sequences corresponding to the features in table."},
		},
		Parameters: []Port{percIdentityPort, threadsPort},
		Outputs: []Port{
			{Name: "clustered-table", Type: typeFeatureTable, Description: "The table following clustering of features."},
			{Name: "clustered-sequences", Type: typeSequences, Description: "Sequences representing clustered features."},
		},
	},
	{
		Name:  "cluster-features-closed-reference",
		Short: "Closed-reference clustering of features.",
		Description: "Given a feature table and the associated feature sequences, cluster the features " +
			"against a reference database based on a user-specified percent identity threshold of their " +
			"sequences. When a group of features is clustered into a single feature, the frequency of " +
			"that feature in a given sample is the sum of the frequencies of the features that were " +
			"clustered in that sample. Feature identifiers are inherited from the centroid feature of " +
			"each cluster; features that match no reference sequence are reported separately.",
		Inputs: []Port{
			{Name: "table", Type: typeFeatureTable, Description: "The feature table to be clustered."},
			{Name: "sequences", Type: typeSequences, Description: "The sequences corresponding to the features in table."},
			{Name: "reference-sequences", Type: typeSequences, Description: "The sequences to use as cluster centroids."},
		},
		Parameters: []Port{
			percIdentityPort,
			{
				Name:        "strand",
				Type:        "Str",
				Constraint:  "plus | both",
				Description: "Search plus (i.e., forward) or both (i.e., forward and reverse complement) strands.",
			},
			threadsPort,
		},
		Outputs: []Port{
			{Name: "clustered-table", Type: typeFeatureTable, Description: "The table following clustering of features."},
			{Name: "unmatched-sequences", Type: typeSequences, Description: "The sequences which failed to match any reference sequences. This output maps to vsearch's --notmatched parameter."},
		},
	},
	{
		Name:  "dereplicate-sequences",
		Short: "Dereplicate sequences.",
		Description: "Dereplicate sequence data and create a feature table and feature representative " +
			"sequences. Feature identifiers in the resulting artifacts are the SHA-1 hash of the " +
			"sequence defining each feature. If clustering of features into OTUs is desired, the " +
			"resulting artifacts can be passed to the cluster-features commands.",
		Inputs: []Port{
			{Name: "sequences", Type: typeSampleSeqs, Description: "The sequences to be dereplicated, one FASTA file per sample."},
		},
		Outputs: []Port{
			{Name: "dereplicated-table", Type: typeFeatureTable, Description: "The table of dereplicated sequences."},
			{Name: "dereplicated-sequences", Type: typeSequences, Description: "The dereplicated sequences."},
		},
	},
}

// Methods returns the registered method descriptors in registration order
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// Lookup returns the descriptor for a method name
func Lookup(name string) (Method, bool) {
	for _, m := range methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}
