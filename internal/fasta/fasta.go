// Package fasta reads and writes the FASTA files exchanged with vsearch.
// Sequence artifacts in this project are always single-line-sequence FASTA
// (vsearch is invoked with --fasta_width 0 for the same reason).
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/otukit/vclust/internal/types"
)

// Read parses FASTA records into a sequence set. The feature ID is the
// header up to the first whitespace; sequence lines are concatenated.
func Read(r io.Reader) (*types.SequenceSet, error) {
	set := types.NewSequenceSet()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var id string
	var seq strings.Builder
	lineNo := 0

	flush := func() error {
		if id == "" {
			return nil
		}
		if seq.Len() == 0 {
			return fmt.Errorf("record %s has no sequence", id)
		}
		if err := set.Add(id, seq.String()); err != nil {
			return err
		}
		id = ""
		seq.Reset()
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if err := flush(); err != nil {
				return nil, err
			}
			header := strings.TrimSpace(line[1:])
			if header == "" {
				return nil, fmt.Errorf("line %d: empty FASTA header", lineNo)
			}
			id = strings.Fields(header)[0]
			continue
		}
		if id == "" {
			return nil, fmt.Errorf("line %d: sequence data before first header", lineNo)
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read FASTA: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return set, nil
}

// ReadFile parses a FASTA file into a sequence set
func ReadFile(path string) (*types.SequenceSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA file: %w", err)
	}
	defer f.Close()
	set, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Write emits a sequence set as single-line-sequence FASTA
func Write(w io.Writer, set *types.SequenceSet) error {
	bw := bufio.NewWriter(w)
	err := set.Each(func(id, seq string) error {
		if _, err := fmt.Fprintf(bw, ">%s\n%s\n", id, seq); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write FASTA: %w", err)
	}
	return bw.Flush()
}

// WriteFile writes a sequence set as a FASTA file
func WriteFile(path string, set *types.SequenceSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create FASTA file: %w", err)
	}
	if err := Write(f, set); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// WriteFileWithSizes writes a sequence set as FASTA with ;size=N abundance
// annotations, the form vsearch's --cluster_size expects. sizes supplies
// the abundance per feature ID; features with no entry get size 1.
func WriteFileWithSizes(path string, set *types.SequenceSet, sizes map[string]int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create FASTA file: %w", err)
	}
	bw := bufio.NewWriter(f)
	err = set.Each(func(id, seq string) error {
		size, ok := sizes[id]
		if !ok || size < 1 {
			size = 1
		}
		_, werr := fmt.Fprintf(bw, ">%s;size=%d\n%s\n", id, size, seq)
		return werr
	})
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("%s: failed to write FASTA: %w", path, err)
	}
	return f.Close()
}

// StripSize removes a trailing ;size=N annotation from a FASTA label.
// vsearch propagates abundance annotations into its output labels unless
// told otherwise, so parsers normalize them away.
func StripSize(label string) string {
	if i := strings.Index(label, ";size="); i >= 0 {
		return label[:i]
	}
	return label
}
