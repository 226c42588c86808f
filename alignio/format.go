package alignio

import (
	"fmt"
	"io"
	"strings"

	"github.com/TuftsBCB/supermatrix/supermatrix"
)

// Format is a supported alignment file format.
type Format int

const (
	Fasta Format = iota
	Phylip
	PhylipRelaxed
	Clustal
	Nexus
	Stockholm
)

var formatNames = []string{
	Fasta:         "fasta",
	Phylip:        "phylip",
	PhylipRelaxed: "phylip-relaxed",
	Clustal:       "clustal",
	Nexus:         "nexus",
	Stockholm:     "stockholm",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat returns the format named s (case insensitive).
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, fname := range formatNames {
		if name == fname {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("unknown alignment format '%s' (expected one of: %s)",
		s, strings.Join(formatNames, ", "))
}

var formatExts = []string{
	Fasta:         ".fasta",
	Phylip:        ".phy",
	PhylipRelaxed: ".phy",
	Clustal:       ".aln",
	Nexus:         ".nex",
	Stockholm:     ".sto",
}

// Ext returns the usual file name extension of the format, with its dot.
func (f Format) Ext() string {
	if f < 0 || int(f) >= len(formatExts) {
		return ""
	}
	return formatExts[f]
}

// FormatNames returns the names accepted by ParseFormat.
func FormatNames() []string {
	names := make([]string, len(formatNames))
	copy(names, formatNames)
	return names
}

type reader func(r io.Reader) (*supermatrix.Supermatrix, error)
type writer func(w io.Writer, m *supermatrix.Supermatrix) error

var readers = map[Format]reader{
	Fasta:         readFasta,
	Phylip:        func(r io.Reader) (*supermatrix.Supermatrix, error) { return readPhylip(r, false) },
	PhylipRelaxed: func(r io.Reader) (*supermatrix.Supermatrix, error) { return readPhylip(r, true) },
	Clustal:       readClustal,
	Nexus:         readNexus,
	Stockholm:     readStockholm,
}

var writers = map[Format]writer{
	Fasta:         writeFasta,
	Phylip:        func(w io.Writer, m *supermatrix.Supermatrix) error { return writePhylip(w, m, false) },
	PhylipRelaxed: func(w io.Writer, m *supermatrix.Supermatrix) error { return writePhylip(w, m, true) },
	Clustal:       writeClustal,
	Nexus:         writeNexus,
	Stockholm:     writeStockholm,
}

// Read reads an alignment in format f. Content that does not match the
// format, or rows of unequal length, produce a *supermatrix.FormatError.
func Read(r io.Reader, f Format) (*supermatrix.Supermatrix, error) {
	read, ok := readers[f]
	if !ok {
		return nil, fmt.Errorf("no reader for format %s", f)
	}
	m, err := read(r)
	if err != nil {
		if ferr, ok := err.(*supermatrix.FormatError); ok && ferr.Format == "" {
			ferr.Format = f.String()
		}
		return nil, err
	}
	return m, nil
}

// Write writes m in format f.
func Write(w io.Writer, m *supermatrix.Supermatrix, f Format) error {
	write, ok := writers[f]
	if !ok {
		return fmt.Errorf("no writer for format %s", f)
	}
	err := write(w, m)
	if ferr, ok := err.(*supermatrix.FormatError); ok && ferr.Format == "" {
		ferr.Format = f.String()
	}
	return err
}
