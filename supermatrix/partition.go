package supermatrix

import (
	"fmt"
)

// Style is the textual layout of a partition file.
type Style int

const (
	// StyleComma is the coordinate-only layout "1:136,137:301,...".
	StyleComma Style = iota

	// StyleRAxML is the named layout "MODEL, name = start-end", one
	// partition per line.
	StyleRAxML
)

func (s Style) String() string {
	switch s {
	case StyleComma:
		return "comma"
	case StyleRAxML:
		return "raxml"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// DefaultModel is the substitution model written for partitions that have
// none when a table is written in the RAxML style.
const DefaultModel = "LG"

// Partition is a gene's coordinate range within a supermatrix. Start and End
// are 1-based and inclusive.
type Partition struct {
	Name       string
	Model      string
	Start, End int
}

// Len returns the number of columns covered by the partition.
func (p Partition) Len() int {
	return p.End - p.Start + 1
}

// Table is an ordered list of partitions covering a supermatrix.
type Table struct {
	Parts []Partition
	Style Style
}

// Len returns the number of partitions.
func (t Table) Len() int {
	return len(t.Parts)
}

// Total returns the number of columns covered by all partitions.
func (t Table) Total() int {
	if len(t.Parts) == 0 {
		return 0
	}
	return t.Parts[len(t.Parts)-1].End
}

// Validate checks that the partitions start at column 1 and cover the
// supermatrix contiguously, without gaps or overlaps.
func (t Table) Validate() error {
	next := 1
	names := make(map[string]bool, len(t.Parts))
	for i, p := range t.Parts {
		switch {
		case p.Start > p.End:
			return formatErrorf("partition %d (%s) ends before it starts "+
				"(%d:%d)", i+1, p.Name, p.Start, p.End)
		case p.Start != next:
			return formatErrorf("partition %d (%s) starts at column %d but "+
				"column %d was expected", i+1, p.Name, p.Start, next)
		case names[p.Name]:
			return formatErrorf("partition name '%s' is used twice", p.Name)
		}
		names[p.Name] = true
		next = p.End + 1
	}
	return nil
}

// NewTable builds a contiguous table from partition widths. Names and
// models are optional; a missing name defaults to "<start>_<end>".
func NewTable(style Style, names []string, widths []int, models []string) Table {
	t := Table{Parts: make([]Partition, len(widths)), Style: style}
	start := 1
	for i, width := range widths {
		p := Partition{Start: start, End: start + width - 1}
		if i < len(names) && len(names[i]) > 0 {
			p.Name = names[i]
		} else {
			p.Name = defaultName(p.Start, p.End)
		}
		if i < len(models) {
			p.Model = models[i]
		}
		t.Parts[i] = p
		start = p.End + 1
	}
	return t
}

func defaultName(start, end int) string {
	return fmt.Sprintf("%d_%d", start, end)
}
