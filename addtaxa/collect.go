package addtaxa

import (
	"bufio"
	"fmt"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/TuftsBCB/seq"

	"github.com/TuftsBCB/supermatrix/search"
	"github.com/TuftsBCB/supermatrix/supermatrix"
)

// writeFasta writes unaligned protein sequences to path for the profile
// and alignment tools.
func writeFasta(path string, seqs []seq.Sequence) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, s := range seqs {
		letters := make([]alphabet.Letter, len(s.Residues))
		for i, r := range s.Residues {
			letters[i] = alphabet.Letter(r)
		}
		fmt.Fprintf(w, "%60a\n", linear.NewSeq(s.Name, letters, alphabet.Protein))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// rowName is the n-th (1-based) candidate row name of a taxon: the label
// itself, then 'label_2', 'label_3' and so on.
func rowName(label string, n int) string {
	if n <= 1 {
		return label
	}
	return fmt.Sprintf("%s_%d", label, n)
}

// rowNames returns the rows of the first n selected hits of a taxon. Extra
// rows skip candidate names in taken, so they never clash with an existing
// taxon or another new taxon's label.
func rowNames(label string, n int, taken map[string]bool) []string {
	names := make([]string, 0, n)
	for k := 1; len(names) < n; k++ {
		name := rowName(label, k)
		if k > 1 && taken[name] {
			continue
		}
		names = append(names, name)
	}
	return names
}

// takenNames returns the names extra rows must avoid: the existing taxa and
// the labels of the new ones.
func takenNames(existing []string, taxa []Taxon) map[string]bool {
	taken := make(map[string]bool, len(existing)+len(taxa))
	for _, name := range existing {
		taken[name] = true
	}
	for _, t := range taxa {
		taken[t.Label] = true
	}
	return taken
}

// nameHits returns the row name of each selected hit, numbering the hits of
// each taxon in order.
func nameHits(hits []search.Hit, taken map[string]bool) []string {
	counts := make(map[string]int)
	for _, h := range hits {
		counts[h.Taxon]++
	}
	rows := make(map[string][]string, len(counts))
	for label, n := range counts {
		rows[label] = rowNames(label, n, taken)
	}

	seen := make(map[string]int)
	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = rows[h.Taxon][seen[h.Taxon]]
		seen[h.Taxon]++
	}
	return names
}

// occupied returns b without its all-gap entries. The aligners reject empty
// sequences; missing taxa are padded again when the supermatrix is
// assembled.
func occupied(b *supermatrix.Block) *supermatrix.Block {
	names := b.Occupied()
	if len(names) == len(b.Entries) {
		return b
	}
	o := supermatrix.NewBlock(b.Gene)
	for _, name := range names {
		s, _ := b.Get(name)
		o.Add(s)
	}
	return o
}

// checkExtended verifies that the aligner's output for a gene holds every
// occupied row of the input and every added row, and nothing else. When
// keepWidth is set the width must be unchanged.
func checkExtended(input, output *supermatrix.Block, added []string, keepWidth bool) error {
	if keepWidth && output.Len() != input.Len() {
		return fmt.Errorf("alignment has %d columns but the input has %d",
			output.Len(), input.Len())
	}
	allowed := make(map[string]bool, len(input.Entries)+len(added))
	for _, name := range input.Names() {
		allowed[name] = true
	}
	for _, name := range added {
		allowed[name] = true
	}
	for _, name := range output.Names() {
		if !allowed[name] {
			return fmt.Errorf("alignment has unexpected sequence '%s'", name)
		}
	}
	for _, name := range append(input.Occupied(), added...) {
		if !output.Has(name) {
			return fmt.Errorf("alignment is missing sequence '%s'", name)
		}
	}
	return nil
}
