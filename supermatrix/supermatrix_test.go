package supermatrix

import (
	"fmt"
	"strings"
	"testing"

	"github.com/TuftsBCB/seq"
)

func TestSplitAssemble(t *testing.T) {
	m := makeMatrix(t,
		"ABCDEFGHIJklmnopqrstuvwxy",
		"A-CDEFGHIJ---------------",
		"----------klmnopqrstuvwxy",
	)
	table := NewTable(StyleComma, []string{"g1", "g2"}, []int{10, 15}, nil)

	blocks, err := Split(m, table)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks but got %d", len(blocks))
	}
	if blocks[0].Len() != 10 || blocks[1].Len() != 15 {
		t.Fatalf("Block widths are %d and %d but should be 10 and 15",
			blocks[0].Len(), blocks[1].Len())
	}
	testEqualSeq(t, blocks[1].Entries[2].Residues, []seq.Residue("klmnopqrstuvwxy"))

	computed, ctable, err := Assemble(blocks, m.Taxa(), StyleComma, nil)
	if err != nil {
		t.Fatal(err)
	}
	testEqualMatrix(t, computed, m)
	if ctable.Total() != 25 || ctable.Parts[1].Start != 11 {
		t.Fatalf("Assembled table is wrong: %v", ctable.Parts)
	}
}

func TestAssembleNewTaxonOneGene(t *testing.T) {
	m := makeMatrix(t,
		"ABCDEFGHIJKLMNOPQRSTUVWXY",
		"ABCDEFGHIJKLMNOPQRSTUVWXY",
		"ABCDEFGHIJKLMNOPQRSTUVWXY",
	)
	table := NewTable(StyleComma, []string{"g1", "g2"}, []int{10, 15}, nil)
	blocks, err := Split(m, table)
	if err != nil {
		t.Fatal(err)
	}
	err = blocks[0].Add(seq.Sequence{
		Name:     "new",
		Residues: []seq.Residue("MNPQRSTVWY"),
	})
	if err != nil {
		t.Fatal(err)
	}

	taxa := append(m.Taxa(), "new")
	computed, ctable, err := Assemble(blocks, taxa, StyleComma, nil)
	if err != nil {
		t.Fatal(err)
	}
	row, ok := computed.Row("new")
	if !ok {
		t.Fatalf("Taxon 'new' is missing from the assembled supermatrix.")
	}
	if row.Len() != 25 || ctable.Total() != 25 {
		t.Fatalf("New row has length %d (table %d) but should have 25",
			row.Len(), ctable.Total())
	}
	testEqualSeq(t, row.Residues[:10], []seq.Residue("MNPQRSTVWY"))
	if !IsAllGap(row.Residues[10:]) {
		t.Fatalf("Positions 11-25 of the new row should be gaps but are %s",
			string(residueBytes(row.Residues[10:])))
	}
}

func TestAssembleNoHits(t *testing.T) {
	m := makeMatrix(t, "ABCDE", "ABCDE")
	table := NewTable(StyleComma, []string{"g1", "g2"}, []int{2, 3}, nil)
	blocks, err := Split(m, table)
	if err != nil {
		t.Fatal(err)
	}
	computed, _, err := Assemble(blocks, append(m.Taxa(), "lonely"),
		StyleComma, nil)
	if err != nil {
		t.Fatal(err)
	}
	row, _ := computed.Row("lonely")
	testEqualSeq(t, row.Residues, []seq.Residue("-----"))
}

func TestAssembleUnknownTaxon(t *testing.T) {
	b := NewBlock("g1")
	if err := b.Add(seq.Sequence{Name: "stray", Residues: []seq.Residue("AC")}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Assemble([]*Block{b}, []string{"a"}, StyleComma, nil); err == nil {
		t.Fatalf("Assembling a block with an unknown taxon should fail.")
	}
}

func TestAssembleKeepsModels(t *testing.T) {
	b1, b2 := NewBlock("cox1"), NewBlock("atp6")
	b1.Add(seq.Sequence{Name: "a", Residues: []seq.Residue("ACD")})
	b2.Add(seq.Sequence{Name: "a", Residues: []seq.Residue("EF")})
	_, table, err := Assemble([]*Block{b1, b2}, []string{"a"}, StyleRAxML,
		[]string{"WAG", "LG"})
	if err != nil {
		t.Fatal(err)
	}
	want := []Partition{
		{Name: "cox1", Model: "WAG", Start: 1, End: 3},
		{Name: "atp6", Model: "LG", Start: 4, End: 5},
	}
	for i := range want {
		if table.Parts[i] != want[i] {
			t.Fatalf("Partition %d is %v but should be %v",
				i, table.Parts[i], want[i])
		}
	}
}

func TestAddErrors(t *testing.T) {
	m := New()
	if err := m.Add(makeSeq("a", "ACDE")); err != nil {
		t.Fatal(err)
	}
	err := m.Add(makeSeq("b", "ACD"))
	if _, ok := err.(*FormatError); !ok {
		t.Fatalf("Expected a *FormatError for a short row but got %v", err)
	}
	err = m.Add(makeSeq("a", "ACDE"))
	if _, ok := err.(*FormatError); !ok {
		t.Fatalf("Expected a *FormatError for a duplicate row but got %v", err)
	}
}

func TestCheck(t *testing.T) {
	m := makeMatrix(t, "ACDEFG")
	good := NewTable(StyleComma, []string{"a", "b"}, []int{2, 4}, nil)
	if err := m.Check(good); err != nil {
		t.Fatal(err)
	}
	short := NewTable(StyleComma, []string{"a", "b"}, []int{2, 3}, nil)
	if _, err := Split(m, short); err == nil {
		t.Fatalf("Splitting a 6 column matrix along 5 columns should fail.")
	}
}

func TestBlockPad(t *testing.T) {
	b := NewBlock("g")
	b.Add(makeSeq("a", "AC-E"))
	b.Pad([]string{"a", "b", "c"})
	if len(b.Entries) != 3 {
		t.Fatalf("Expected 3 entries after padding but got %d", len(b.Entries))
	}
	s, _ := b.Get("c")
	testEqualSeq(t, s.Residues, []seq.Residue("----"))
	if occ := b.Occupied(); len(occ) != 1 || occ[0] != "a" {
		t.Fatalf("Only 'a' should be occupied but got %v", occ)
	}
}

func TestDegap(t *testing.T) {
	s := Degap(makeSeq("a", "-A.C?DX-E"))
	testEqualSeq(t, s.Residues, []seq.Residue("ACDE"))
}

func TestFormatErrorMessage(t *testing.T) {
	err := &FormatError{Path: "x.phy", Line: 3, Format: "phylip", Msg: "boom"}
	if got := err.Error(); got != "x.phy:3: invalid phylip: boom" {
		t.Fatalf("Unexpected error message '%s'", got)
	}
	if !strings.Contains((&FormatError{Msg: "plain"}).Error(), "plain") {
		t.Fatalf("Message should be kept.")
	}
}

func testEqualMatrix(t *testing.T, computed, answer *Supermatrix) {
	if computed.Len() != answer.Len() {
		t.Fatalf("Lengths of supermatrices differ: %d != %d",
			computed.Len(), answer.Len())
	}
	if computed.NumTaxa() != answer.NumTaxa() {
		t.Fatalf("Number of taxa differ: %d != %d",
			computed.NumTaxa(), answer.NumTaxa())
	}
	for i := range answer.Rows {
		c, a := computed.Rows[i], answer.Rows[i]
		if c.Name != a.Name {
			t.Fatalf("Row %d is named '%s' but should be '%s'", i, c.Name, a.Name)
		}
		testEqualSeq(t, c.Residues, a.Residues)
	}
}

func testEqualSeq(t *testing.T, computed, answer []seq.Residue) {
	scomputed := string(residueBytes(computed))
	sanswer := string(residueBytes(answer))
	if scomputed != sanswer {
		t.Fatalf("\nComputed sequence is\n\n%s\n\n"+
			"but answer is\n\n%s", scomputed, sanswer)
	}
}

func makeMatrix(t *testing.T, rows ...string) *Supermatrix {
	m := New()
	for i, row := range rows {
		if err := m.Add(makeSeq(fmt.Sprintf("taxon%d", i), row)); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func makeSeq(name, residues string) seq.Sequence {
	return seq.Sequence{Name: name, Residues: []seq.Residue(residues)}
}
