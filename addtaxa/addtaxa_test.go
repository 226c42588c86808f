package addtaxa

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/seq"

	"github.com/TuftsBCB/supermatrix/alignio"
	"github.com/TuftsBCB/supermatrix/apps/hmmer"
	"github.com/TuftsBCB/supermatrix/search"
	"github.com/TuftsBCB/supermatrix/supermatrix"
)

// fakeBuilder writes a placeholder profile, failing for genes in fail.
type fakeBuilder struct {
	fail map[string]bool
}

func (b fakeBuilder) Run(alignment, out string) error {
	if b.fail[alignio.GeneName(alignment)] {
		return fmt.Errorf("hmmbuild failed")
	}
	return os.WriteFile(out, []byte("HMMER3/f\n//\n"), 0644)
}

// fakeSearcher answers searches from a fixed set of hits keyed by gene and
// taxon file name. Self searches report one sequence with E-value 1e-5.
type fakeSearcher struct {
	hits map[string][]hmmer.Hit

	mu       sync.Mutex
	searched []string
}

func (s *fakeSearcher) Run(profile, seqdb, tblout, domtblout string) (*hmmer.Table, error) {
	gene := alignio.GeneName(profile)
	taxon := alignio.GeneName(seqdb)
	if err := os.WriteFile(tblout, []byte("# fake\n"), 0644); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.searched = append(s.searched, taxon+"/"+gene)
	s.mu.Unlock()

	if strings.HasSuffix(taxon, "_no_gaps") {
		return &hmmer.Table{Hits: []hmmer.Hit{{Target: "self", EValue: 1e-5}}}, nil
	}
	return &hmmer.Table{Hits: s.hits[gene+"/"+taxon]}, nil
}

// fakeAligner appends new sequences to the existing alignment, cutting or
// padding them to its width. Align pads every sequence to the longest.
type fakeAligner struct {
	fail map[string]bool
}

func (a fakeAligner) AddLong(existing, seqs, out string, keepLength bool) error {
	if a.fail[alignio.GeneName(out)] {
		return fmt.Errorf("mafft failed")
	}
	m, err := alignio.ReadFile(existing, alignio.Fasta)
	if err != nil {
		return err
	}
	added, err := readUnaligned(seqs)
	if err != nil {
		return err
	}
	for _, s := range added {
		if err := m.Add(fit(s, m.Len())); err != nil {
			return err
		}
	}
	return alignio.WriteFile(out, m, alignio.Fasta)
}

func (a fakeAligner) Align(seqs, out string) error {
	unaligned, err := readUnaligned(seqs)
	if err != nil {
		return err
	}
	width := 0
	for _, s := range unaligned {
		if len(s.Residues) > width {
			width = len(s.Residues)
		}
	}
	m := supermatrix.New()
	for _, s := range unaligned {
		if err := m.Add(fit(s, width)); err != nil {
			return err
		}
	}
	return alignio.WriteFile(out, m, alignio.Fasta)
}

func readUnaligned(path string) ([]seq.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := fasta.NewReader(f)
	r.TrustSequences = true
	return r.ReadAll()
}

func fit(s seq.Sequence, width int) seq.Sequence {
	residues := make([]seq.Residue, width)
	for i := range residues {
		if i < len(s.Residues) {
			residues[i] = s.Residues[i]
		} else {
			residues[i] = '-'
		}
	}
	return seq.Sequence{Name: s.Name, Residues: residues}
}

type fakeTrees struct{}

func (fakeTrees) Run(aln, out string) error {
	return os.WriteFile(out, []byte("(a,b);\n"), 0644)
}

// testRun sets up three taxa with genes g1 (10 columns) and g2 (15
// columns), and two new taxa: 'newt', with proteins p1 and p2 that hit g1,
// and 'nohit', which hits nothing.
func testRun(t *testing.T, conf Config) (*Result, *fakeSearcher) {
	dir := t.TempDir()
	g1 := makeBlock(t, "g1",
		"human", "MKVLAQEDGH",
		"mouse", "MKVLAQ-DGH",
		"yeast", "MKV-AQEDG-")
	g2 := makeBlock(t, "g2",
		"human", "KLMNPQRSTVWYACD",
		"mouse", "KLMNPQRSTVWYAC-",
		"yeast", "---------------")

	newt := writeProteins(t, dir, "newt.fasta",
		"p1", "MKVLAQEDGHKK",
		"p2", "MKVLAQED",
		"p3", "MK")
	nohit := writeProteins(t, dir, "nohit.fasta", "q1", "WWWWWWWW")

	searcher := &fakeSearcher{hits: map[string][]hmmer.Hit{
		"g1/newt": {
			{Target: "p2", EValue: 1e-20, Score: 80},
			{Target: "p1", EValue: 1e-30, Score: 100},
			{Target: "p3", EValue: 1e-30, Score: 90},
		},
	}}
	conf.Layout = NewLayout(dir, "20161208-120000")
	conf.Builder = fakeBuilder{}
	conf.Searcher = searcher
	if conf.Aligner == nil {
		conf.Aligner = fakeAligner{}
	}
	conf.DomainTables = false

	taxa := []Taxon{{"newt", newt}, {"nohit", nohit}}
	res, err := conf.Run([]*supermatrix.Block{g1, g2}, supermatrix.StyleComma, taxa)
	if err != nil {
		t.Fatal(err)
	}
	return res, searcher
}

func TestRunOneGeneHit(t *testing.T) {
	conf := DefaultConfig
	conf.Aligner = nil
	res, searcher := testRun(t, conf)

	testEqualTaxa(t, res.Matrix.Taxa(), "human", "mouse", "yeast", "newt", "nohit")
	if res.Matrix.Len() != 25 || res.Partitions.Total() != 25 {
		t.Fatalf("supermatrix has %d columns (table %d) but answer is 25",
			res.Matrix.Len(), res.Partitions.Total())
	}
	if err := res.Matrix.Check(res.Partitions); err != nil {
		t.Fatal(err)
	}

	newt, _ := res.Matrix.Row("newt")
	testEqualResidues(t, newt.Residues, "MKVLAQEDGH---------------")
	nohit, _ := res.Matrix.Row("nohit")
	testEqualResidues(t, nohit.Residues, strings.Repeat("-", 25))

	g1 := res.Genes[0]
	if len(g1.Hits) != 1 || g1.Hits[0].Target != "p1" || g1.Names[0] != "newt" {
		t.Fatalf("expected p1 to be added as 'newt' but got %v", g1.Names)
	}
	evalue := 1e-5
	evalue *= search.DefaultCorrection
	if g1.EValue != evalue {
		t.Fatalf("calibrated E-value is %g but answer is %g", g1.EValue, evalue)
	}
	if g1.MinLength != 5 {
		t.Fatalf("minimum length is %d but answer is 5", g1.MinLength)
	}
	if len(res.Genes[1].Hits) != 0 || len(res.Failed()) != 0 {
		t.Fatalf("expected no hits and no failures for g2")
	}
	for _, path := range []string{g1.Profile, g1.Unaligned, g1.Alignment} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected output file: %s", err)
		}
	}
	if len(searcher.searched) != 2+4 {
		t.Fatalf("expected 2 self searches and 4 taxon searches but got %v",
			searcher.searched)
	}
}

func TestRunMultipleHits(t *testing.T) {
	conf := DefaultConfig
	conf.Aligner = nil
	conf.EValue = 1e-10
	conf.Selection = search.Selection{
		Mode: search.Multiple, MaxHits: 3, Group: search.ByTaxon,
	}
	conf.Trees = fakeTrees{}
	res, _ := testRun(t, conf)

	// p3 is shorter than half the median length and is never selected.
	testEqualTaxa(t, res.Matrix.Taxa(),
		"human", "mouse", "yeast", "newt", "newt_2", "nohit")
	second, _ := res.Matrix.Row("newt_2")
	testEqualResidues(t, second.Residues, "MKVLAQED--"+strings.Repeat("-", 15))
	if res.Genes[0].Tree == "" {
		t.Fatalf("expected a tree for g1")
	}
	if res.Genes[0].EValue != 1e-10 {
		t.Fatalf("fixed E-value not used: %g", res.Genes[0].EValue)
	}
}

func TestRunNoTrim(t *testing.T) {
	conf := DefaultConfig
	conf.Aligner = nil
	conf.NoTrim = true
	res, _ := testRun(t, conf)

	// The realigned gene is 12 columns wide: p1 has two extra residues.
	if res.Genes[0].Block.Len() != 12 || res.Matrix.Len() != 27 {
		t.Fatalf("expected g1 to be realigned to 12 columns but got %d",
			res.Genes[0].Block.Len())
	}
	if err := res.Matrix.Check(res.Partitions); err != nil {
		t.Fatal(err)
	}
}

func TestRunAlignerFailure(t *testing.T) {
	conf := DefaultConfig
	conf.Aligner = fakeAligner{fail: map[string]bool{"g1": true}}
	var mu sync.Mutex
	finished := make(map[string]error)
	conf.OnGene = func(gene string, err error) {
		mu.Lock()
		finished[gene] = err
		mu.Unlock()
	}
	conf.Jobs = 2
	res, _ := testRun(t, conf)

	failed := res.Failed()
	if len(failed) != 1 || failed[0].Gene != "g1" {
		t.Fatalf("expected g1 to fail but got %v", failed)
	}
	if finished["g1"] == nil || len(finished) != 2 {
		t.Fatalf("OnGene was not called for every gene: %v", finished)
	}
	newt, _ := res.Matrix.Row("newt")
	testEqualResidues(t, newt.Residues, strings.Repeat("-", 25))
	if err := res.Matrix.Check(res.Partitions); err != nil {
		t.Fatal(err)
	}
}

func TestRunExistingLabel(t *testing.T) {
	dir := t.TempDir()
	g1 := makeBlock(t, "g1", "human", "MKV")
	conf := DefaultConfig
	conf.Layout = NewLayout(dir, "x")
	_, err := conf.Run([]*supermatrix.Block{g1}, supermatrix.StyleComma,
		[]Taxon{{"human", "human.fasta"}})
	if err == nil {
		t.Fatalf("expected an error for a label already in the alignment")
	}
}

func TestLayoutCreate(t *testing.T) {
	dir := t.TempDir()
	layout := NewLayout(dir, "20161208-120000")
	if err := layout.Create(); err != nil {
		t.Fatal(err)
	}
	if err := layout.Create(); err != nil {
		t.Fatalf("existing directories should be reused: %s", err)
	}
	if filepath.Base(layout.Hits) != "20161208-120000_hmm_hits" {
		t.Fatalf("unexpected hits directory '%s'", layout.Hits)
	}

	blocked := NewLayout(t.TempDir(), "x")
	if err := os.WriteFile(blocked.Partitions, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := blocked.Create(); err == nil {
		t.Fatalf("expected an error when a directory is a file")
	}
}

func TestTaxaFromArgs(t *testing.T) {
	dir := t.TempDir()
	a := writeProteins(t, dir, "speciesA.fasta", "p1", "MKV")
	b := writeProteins(t, dir, "speciesB.fa", "p1", "MKV")

	taxa, err := TaxaFromArgs([]string{dir}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(taxa) != 2 || taxa[0].Label != "speciesA" || taxa[1].Path != b {
		t.Fatalf("unexpected taxa %+v", taxa)
	}

	taxa, err = TaxaFromArgs([]string{a, b}, []string{"Homo_sapiens", "Mus"})
	if err != nil {
		t.Fatal(err)
	}
	if taxa[0].Label != "Homo_sapiens" {
		t.Fatalf("label is '%s' but answer is 'Homo_sapiens'", taxa[0].Label)
	}

	invalid := [][]string{
		{"only one"},
		{"same", "same"},
		{"has space", "b"},
	}
	for _, labels := range invalid {
		if _, err := TaxaFromArgs([]string{a, b}, labels); err == nil {
			t.Fatalf("expected an error for labels %q", labels)
		}
	}
}

func TestProteinsGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxon.fasta.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	fmt.Fprint(gz, ">p1 first protein\nMKVL\nAQ*\n>p2\nWW\n")
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	proteins, err := Taxon{"taxon", path}.Proteins()
	if err != nil {
		t.Fatal(err)
	}
	if len(proteins) != 2 {
		t.Fatalf("read %d proteins but answer is 2", len(proteins))
	}
	testEqualResidues(t, proteins["p1"], "MKVLAQ*")
}

func TestNameHits(t *testing.T) {
	hits := []search.Hit{{Taxon: "a"}, {Taxon: "a"}, {Taxon: "b"}, {Taxon: "a"}}
	testEqualTaxa(t, nameHits(hits, nil), "a", "a_2", "b", "a_3")

	taken := map[string]bool{"a": true, "a_2": true, "b": true}
	testEqualTaxa(t, nameHits(hits, taken), "a", "a_3", "b", "a_4")
}

func TestRunRowNameClash(t *testing.T) {
	dir := t.TempDir()
	g1 := makeBlock(t, "g1",
		"human", "MKVLAQEDGH",
		"mouse", "MKVLAQ-DGH",
		"newt_2", "MKV-AQEDG-")
	g2 := makeBlock(t, "g2",
		"human", "KLMNPQRSTVWYACD",
		"mouse", "KLMNPQRSTVWYAC-",
		"newt_2", "---------------")
	newt := writeProteins(t, dir, "newt.fasta",
		"p1", "MKVLAQEDGHKK",
		"p2", "MKVLAQED")
	other := writeProteins(t, dir, "newt_3.fasta", "q1", "WWWWWWWW")

	conf := DefaultConfig
	conf.Layout = NewLayout(dir, "20161208-120000")
	conf.Builder = fakeBuilder{}
	conf.Searcher = &fakeSearcher{hits: map[string][]hmmer.Hit{
		"g1/newt": {
			{Target: "p1", EValue: 1e-30, Score: 100},
			{Target: "p2", EValue: 1e-20, Score: 80},
		},
	}}
	conf.Aligner = fakeAligner{}
	conf.DomainTables = false
	conf.EValue = 1e-10
	conf.Selection = search.Selection{
		Mode: search.Multiple, MaxHits: 3, Group: search.ByTaxon,
	}

	taxa := []Taxon{{"newt", newt}, {"newt_3", other}}
	res, err := conf.Run([]*supermatrix.Block{g1, g2}, supermatrix.StyleComma, taxa)
	if err != nil {
		t.Fatal(err)
	}
	testEqualTaxa(t, res.Matrix.Taxa(),
		"human", "mouse", "newt_2", "newt", "newt_4", "newt_3")
	testEqualTaxa(t, res.Genes[0].Names, "newt", "newt_4")

	kept, _ := res.Matrix.Row("newt_2")
	testEqualResidues(t, kept.Residues, "MKV-AQEDG-"+strings.Repeat("-", 15))
	extra, _ := res.Matrix.Row("newt_4")
	testEqualResidues(t, extra.Residues, "MKVLAQED--"+strings.Repeat("-", 15))
	if err := res.Matrix.Check(res.Partitions); err != nil {
		t.Fatal(err)
	}
}

func TestOccupied(t *testing.T) {
	b := makeBlock(t, "g",
		"a", "MK-V",
		"b", "----",
		"c", "-KL-")
	o := occupied(b)
	testEqualTaxa(t, o.Names(), "a", "c")
	if o.Len() != 4 {
		t.Fatalf("\nComputed width %d but answer is %d", o.Len(), 4)
	}
	if full := makeBlock(t, "g", "a", "MK"); occupied(full) != full {
		t.Fatalf("\nA block without gap rows should be used as is")
	}
}

func testEqualTaxa(t *testing.T, computed []string, answer ...string) {
	if strings.Join(computed, ",") != strings.Join(answer, ",") {
		t.Fatalf("\nComputed taxa are\n\n%v\n\nbut answer is\n\n%v",
			computed, answer)
	}
}

func testEqualResidues(t *testing.T, computed []seq.Residue, answer string) {
	got := make([]byte, len(computed))
	for i, r := range computed {
		got[i] = byte(r)
	}
	if string(got) != answer {
		t.Fatalf("\nComputed sequence is\n\n%s\n\nbut answer is\n\n%s",
			got, answer)
	}
}

func makeBlock(t *testing.T, gene string, namesAndRows ...string) *supermatrix.Block {
	b := supermatrix.NewBlock(gene)
	for i := 0; i < len(namesAndRows); i += 2 {
		s := seq.Sequence{
			Name:     namesAndRows[i],
			Residues: []seq.Residue(namesAndRows[i+1]),
		}
		if err := b.Add(s); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func writeProteins(t *testing.T, dir, name string, idsAndSeqs ...string) string {
	var buf strings.Builder
	for i := 0; i < len(idsAndSeqs); i += 2 {
		fmt.Fprintf(&buf, ">%s\n%s\n", idsAndSeqs[i], idsAndSeqs[i+1])
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
