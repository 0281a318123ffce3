package vsearch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/otukit/vclust/internal/fasta"
)

// Mapping is the decoded form of a vsearch .uc file: which centroid each
// query sequence was assigned to, and which queries matched nothing.
type Mapping struct {
	// ClusterMap maps query label to centroid label. Seeds map to
	// themselves.
	ClusterMap map[string]string

	// Seeds lists centroid labels in the order vsearch emitted them
	Seeds []string

	// Unmatched lists query labels with no hit (closed-reference only)
	Unmatched []string
}

// ParseUC decodes vsearch's tab-separated .uc output. Record types:
// S (seed/centroid), H (hit: column 9 is the query, column 10 the
// centroid), N (no hit), C (per-cluster summary, redundant with S).
// Labels are normalized by stripping ;size= abundance annotations.
func ParseUC(r io.Reader) (*Mapping, error) {
	m := &Mapping{ClusterMap: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 10 {
			return nil, fmt.Errorf("uc line %d: expected 10 fields, got %d", lineNo, len(fields))
		}
		query := fasta.StripSize(fields[8])
		switch fields[0] {
		case "S":
			if query == "*" || query == "" {
				return nil, fmt.Errorf("uc line %d: seed record has no query label", lineNo)
			}
			if _, ok := m.ClusterMap[query]; !ok {
				m.Seeds = append(m.Seeds, query)
			}
			m.ClusterMap[query] = query
		case "H":
			target := fasta.StripSize(fields[9])
			if target == "*" || target == "" {
				return nil, fmt.Errorf("uc line %d: hit record has no target label", lineNo)
			}
			m.ClusterMap[query] = target
		case "N":
			m.Unmatched = append(m.Unmatched, query)
		case "C":
			// cluster summary, redundant with S records
		default:
			return nil, fmt.Errorf("uc line %d: unknown record type %q", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read uc output: %w", err)
	}
	return m, nil
}

// ParseUCFile decodes a .uc file from disk
func ParseUCFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open uc output: %w", err)
	}
	defer f.Close()
	m, err := ParseUC(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
