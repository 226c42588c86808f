package supermatrix

import (
	"fmt"

	"github.com/TuftsBCB/seq"
)

// Split carves m into one block per partition of t, in partition order.
// Block gene names are the partition names. Split fails with a *FormatError
// when the row lengths are inconsistent with t.
func Split(m *Supermatrix, t Table) ([]*Block, error) {
	if err := m.Check(t); err != nil {
		return nil, err
	}
	whole := NewBlock("")
	for _, row := range m.Rows {
		if err := whole.Add(row); err != nil {
			return nil, err
		}
	}
	whole.length = t.Total()

	blocks := make([]*Block, len(t.Parts))
	for i, p := range t.Parts {
		blocks[i] = whole.Slice(p.Name, p.Start-1, p.End)
	}
	return blocks, nil
}

// Assemble concatenates blocks, in order, into a new supermatrix with one row
// per name in taxa (in that order). Each block is padded with gaps for the
// taxa it lacks. Entries of a block that are not in taxa are an error, so
// that no data is silently dropped.
//
// The returned table has one partition per block, named after the block's
// gene, and reflects any change in block widths. models (which may be nil)
// carries the substitution model of each gene over to the new table.
//
// The length invariant (every row as long as the table's total) is checked
// before returning.
func Assemble(blocks []*Block, taxa []string, style Style, models []string) (*Supermatrix, Table, error) {
	known := make(map[string]bool, len(taxa))
	for _, name := range taxa {
		if known[name] {
			return nil, Table{}, formatErrorf("duplicate taxon '%s'", name)
		}
		known[name] = true
	}

	names := make([]string, len(blocks))
	widths := make([]int, len(blocks))
	total := 0
	for i, b := range blocks {
		for _, name := range b.Names() {
			if !known[name] {
				return nil, Table{}, formatErrorf("gene '%s' has an entry "+
					"for unknown taxon '%s'", b.Gene, name)
			}
		}
		names[i], widths[i] = b.Gene, b.Len()
		total += b.Len()
	}
	table := NewTable(style, names, widths, models)
	if err := table.Validate(); err != nil {
		return nil, Table{}, err
	}

	m := New()
	for _, name := range taxa {
		residues := make([]seq.Residue, 0, total)
		for _, b := range blocks {
			if s, ok := b.Get(name); ok {
				residues = append(residues, s.Residues...)
			} else {
				residues = append(residues, GapRow(name, b.Len()).Residues...)
			}
		}
		if err := m.Add(seq.Sequence{Name: name, Residues: residues}); err != nil {
			return nil, Table{}, err
		}
	}
	if err := m.Check(table); err != nil {
		return nil, Table{}, fmt.Errorf("assembled supermatrix is inconsistent: %w", err)
	}
	return m, table, nil
}

// Models returns the substitution model of every partition in t, in order.
func (t Table) Models() []string {
	models := make([]string, len(t.Parts))
	for i, p := range t.Parts {
		models[i] = p.Model
	}
	return models
}
