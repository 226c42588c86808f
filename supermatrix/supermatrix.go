package supermatrix

import (
	"github.com/TuftsBCB/seq"
)

// Supermatrix is a concatenated multiple sequence alignment with one row per
// taxon. All rows are guaranteed to have the same length, and no two rows
// share a name.
type Supermatrix struct {
	Rows   []seq.Sequence
	index  map[string]int
	length int
}

// New returns an empty supermatrix.
func New() *Supermatrix {
	return &Supermatrix{
		Rows:  make([]seq.Sequence, 0, 16),
		index: make(map[string]int, 16),
	}
}

// Len returns the number of columns in the supermatrix.
func (m *Supermatrix) Len() int {
	return m.length
}

// NumTaxa returns the number of rows in the supermatrix.
func (m *Supermatrix) NumTaxa() int {
	return len(m.Rows)
}

// Taxa returns the row names in order.
func (m *Supermatrix) Taxa() []string {
	names := make([]string, len(m.Rows))
	for i, row := range m.Rows {
		names[i] = row.Name
	}
	return names
}

// Row returns the row named name.
func (m *Supermatrix) Row(name string) (seq.Sequence, bool) {
	i, ok := m.index[name]
	if !ok {
		return seq.Sequence{}, false
	}
	return m.Rows[i], true
}

// Add appends a row to the supermatrix. The first row fixes the length of
// the alignment; a later row of a different length, or a row whose name is
// already present, is rejected with a *FormatError.
func (m *Supermatrix) Add(s seq.Sequence) error {
	if _, ok := m.index[s.Name]; ok {
		return formatErrorf("duplicate taxon '%s'", s.Name)
	}
	if len(m.Rows) > 0 && len(s.Residues) != m.length {
		return formatErrorf("taxon '%s' has length %d but the alignment "+
			"has length %d", s.Name, len(s.Residues), m.length)
	}
	if len(m.Rows) == 0 {
		m.length = len(s.Residues)
	}
	m.index[s.Name] = len(m.Rows)
	m.Rows = append(m.Rows, s)
	return nil
}

// Check verifies that the length of every row equals the total length of the
// partition table, and that the table itself is valid.
func (m *Supermatrix) Check(t Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	total := t.Total()
	for _, row := range m.Rows {
		if len(row.Residues) != total {
			return formatErrorf("taxon '%s' has length %d but the "+
				"partitions cover %d columns", row.Name, len(row.Residues), total)
		}
	}
	return nil
}
