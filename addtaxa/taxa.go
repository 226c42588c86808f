package addtaxa

import (
	"fmt"
	"io"
	"strings"

	bioseq "github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/TuftsBCB/seq"

	"github.com/TuftsBCB/supermatrix/alignio"
)

func init() {
	// Protein sets often contain '*' and other symbols outside the strict
	// alphabet.
	bioseq.ValidateSeq = false
}

// Taxon is a new taxon: the label its rows get in the supermatrix and a
// FASTA file (optionally gzipped) of its proteins.
type Taxon struct {
	Label string
	Path  string
}

// TaxaFromArgs returns one taxon per protein file. paths is expanded as by
// alignio.ExpandPaths. When labels is not empty it must have one label per
// file; otherwise each taxon is labelled with its file's base name without
// extension. Labels must be unique and free of whitespace.
func TaxaFromArgs(paths, labels []string) ([]Taxon, error) {
	files, err := alignio.ExpandPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(labels) > 0 && len(labels) != len(files) {
		return nil, fmt.Errorf("%d taxon names given for %d protein files",
			len(labels), len(files))
	}

	taxa := make([]Taxon, len(files))
	seen := make(map[string]bool, len(files))
	for i, file := range files {
		label := alignio.GeneName(file)
		if len(labels) > 0 {
			label = labels[i]
		}
		if len(label) == 0 || strings.ContainsAny(label, " \t\n") {
			return nil, fmt.Errorf("invalid taxon name '%s'", label)
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate taxon name '%s'", label)
		}
		seen[label] = true
		taxa[i] = Taxon{Label: label, Path: file}
	}
	return taxa, nil
}

// Proteins reads every protein of the taxon, keyed by sequence id (the
// first word of the header, as reported by hmmsearch).
func (t Taxon) Proteins() (map[string][]seq.Residue, error) {
	reader, err := fastx.NewReader(nil, t.Path, "")
	if err != nil {
		return nil, fmt.Errorf("could not read proteins of '%s': %s",
			t.Label, err)
	}
	defer reader.Close()

	proteins := make(map[string][]seq.Residue, 1024)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("could not read proteins of '%s' from "+
				"'%s': %s", t.Label, t.Path, err)
		}

		residues := make([]seq.Residue, len(record.Seq.Seq))
		for i, b := range record.Seq.Seq {
			residues[i] = seq.Residue(b)
		}
		proteins[string(record.ID)] = residues
	}
	return proteins, nil
}
