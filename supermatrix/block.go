package supermatrix

import (
	"fmt"
	"strings"

	"github.com/TuftsBCB/seq"
)

// Block is the alignment of a single gene. Like a Supermatrix, every entry in
// a block has the same length. A taxon that has no data for the gene is
// represented by an all-gap entry (see Pad).
type Block struct {
	Gene    string
	Entries []seq.Sequence
	index   map[string]int
	length  int
}

// NewBlock returns an empty block for the named gene.
func NewBlock(gene string) *Block {
	return &Block{
		Gene:    gene,
		Entries: make([]seq.Sequence, 0, 16),
		index:   make(map[string]int, 16),
	}
}

// NewBlockSeqs returns a block containing seqs, in order.
func NewBlockSeqs(gene string, seqs []seq.Sequence) (*Block, error) {
	b := NewBlock(gene)
	for _, s := range seqs {
		if err := b.Add(s); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Len returns the number of columns in the block.
func (b *Block) Len() int {
	return b.length
}

// Names returns the entry names in order.
func (b *Block) Names() []string {
	names := make([]string, len(b.Entries))
	for i, s := range b.Entries {
		names[i] = s.Name
	}
	return names
}

// Has returns true if the block has an entry named name.
func (b *Block) Has(name string) bool {
	_, ok := b.index[name]
	return ok
}

// Get returns a copy of the entry named name.
func (b *Block) Get(name string) (seq.Sequence, bool) {
	i, ok := b.index[name]
	if !ok {
		return seq.Sequence{}, false
	}
	return copySeq(b.Entries[i]), true
}

// Add appends an entry to the block. Entries must all have the same length
// and distinct names; a violation is returned as a *FormatError.
func (b *Block) Add(s seq.Sequence) error {
	if _, ok := b.index[s.Name]; ok {
		return &FormatError{
			Msg: fmt.Sprintf("gene '%s': duplicate entry '%s'", b.Gene, s.Name),
		}
	}
	if len(b.Entries) > 0 && len(s.Residues) != b.length {
		return &FormatError{
			Msg: fmt.Sprintf("gene '%s': entry '%s' has length %d but the "+
				"block has length %d", b.Gene, s.Name, len(s.Residues), b.length),
		}
	}
	if len(b.Entries) == 0 {
		b.length = len(s.Residues)
	}
	b.index[s.Name] = len(b.Entries)
	b.Entries = append(b.Entries, copySeq(s))
	return nil
}

// Pad adds an all-gap entry of the block's width for every name in taxa that
// is not already in the block. Padding an empty block is a no-op for the
// width (it stays zero).
func (b *Block) Pad(taxa []string) {
	for _, name := range taxa {
		if b.Has(name) {
			continue
		}
		b.index[name] = len(b.Entries)
		b.Entries = append(b.Entries, GapRow(name, b.length))
	}
}

// Occupied returns the names of entries that contain at least one residue.
func (b *Block) Occupied() []string {
	names := make([]string, 0, len(b.Entries))
	for _, s := range b.Entries {
		if !IsAllGap(s.Residues) {
			names = append(names, s.Name)
		}
	}
	return names
}

// Ungapped returns degapped copies of every entry that still has residues
// after gaps are removed.
func (b *Block) Ungapped() []seq.Sequence {
	seqs := make([]seq.Sequence, 0, len(b.Entries))
	for _, s := range b.Entries {
		if d := Degap(s); len(d.Residues) > 0 {
			seqs = append(seqs, d)
		}
	}
	return seqs
}

// UngappedLengths returns the number of residues in each entry, including
// entries with no residues at all.
func (b *Block) UngappedLengths() []int {
	lens := make([]int, len(b.Entries))
	for i, s := range b.Entries {
		lens[i] = len(Degap(s).Residues)
	}
	return lens
}

// Slice returns a new block with the columns [start, end) of every entry.
// The residues are copied.
func (b *Block) Slice(gene string, start, end int) *Block {
	sliced := NewBlock(gene)
	for _, s := range b.Entries {
		sliced.index[s.Name] = len(sliced.Entries)
		sliced.Entries = append(sliced.Entries,
			copySeq(seq.Sequence{Name: s.Name, Residues: s.Residues[start:end]}))
	}
	sliced.length = end - start
	return sliced
}

func (b *Block) String() string {
	entries := make([]string, len(b.Entries))
	for i, s := range b.Entries {
		entries[i] = fmt.Sprintf(">%s\n%s", s.Name, string(residueBytes(s.Residues)))
	}
	return strings.Join(entries, "\n")
}

func copySeq(s seq.Sequence) seq.Sequence {
	residues := make([]seq.Residue, len(s.Residues))
	copy(residues, s.Residues)
	return seq.Sequence{Name: s.Name, Residues: residues}
}

func residueBytes(rs []seq.Residue) []byte {
	bs := make([]byte, len(rs))
	for i, r := range rs {
		bs[i] = byte(r)
	}
	return bs
}

// Supermatrix returns the block as a single-gene supermatrix. Residues are
// shared with the block.
func (b *Block) Supermatrix() *Supermatrix {
	m := New()
	for _, s := range b.Entries {
		m.index[s.Name] = len(m.Rows)
		m.Rows = append(m.Rows, s)
	}
	m.length = b.length
	return m
}

// BlockOf returns the rows of m as a block for the named gene.
func BlockOf(gene string, m *Supermatrix) *Block {
	b := NewBlock(gene)
	for _, s := range m.Rows {
		b.index[s.Name] = len(b.Entries)
		b.Entries = append(b.Entries, copySeq(s))
	}
	b.length = m.length
	return b
}
