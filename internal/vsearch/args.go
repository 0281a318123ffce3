package vsearch

import (
	"strconv"

	"github.com/otukit/vclust/internal/types"
)

// Shared flags on every clustering invocation: masking is disabled so
// results depend only on the percent-identity threshold, short sequences
// are not silently dropped, and output FASTA is unwrapped for parsing.
func commonArgs(args []string) []string {
	return append(args,
		"--qmask", "none",
		"--minseqlength", "1",
		"--fasta_width", "0",
	)
}

func formatIdentity(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// DeNovoArgs builds the argv for de novo clustering. Input FASTA must
// carry ;size= abundance annotations; --cluster_size orders candidates by
// them and --xsize keeps the annotations out of the centroid output.
func DeNovoArgs(inputFasta, centroidsOut, ucOut string, params types.ClusterParams) []string {
	args := []string{
		"--cluster_size", inputFasta,
		"--id", formatIdentity(params.PercIdentity),
		"--centroids", centroidsOut,
		"--uc", ucOut,
		"--xsize",
		"--threads", strconv.Itoa(params.Threads),
	}
	return commonArgs(args)
}

// ClosedRefArgs builds the argv for closed-reference clustering against a
// reference database. Features that match no reference sequence land in
// the --notmatched file.
func ClosedRefArgs(inputFasta, refFasta, notMatchedOut, ucOut string, params types.ClusterParams) []string {
	args := []string{
		"--usearch_global", inputFasta,
		"--id", formatIdentity(params.PercIdentity),
		"--db", refFasta,
		"--uc", ucOut,
		"--strand", string(params.Strand),
		"--notmatched", notMatchedOut,
		"--threads", strconv.Itoa(params.Threads),
	}
	return commonArgs(args)
}

// DerepArgs builds the argv for full-length dereplication
func DerepArgs(inputFasta, outputFasta, ucOut string) []string {
	args := []string{
		"--derep_fulllength", inputFasta,
		"--output", outputFasta,
		"--uc", ucOut,
	}
	return commonArgs(args)
}
