package hmmer

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const testTblout = `#                                                               --- full sequence ---- --- best 1 domain ---- --- domain number estimation ----
# target name        accession  query name           accession    E-value  score  bias   E-value  score  bias   exp reg clu  ov env dom rep inc description of target
#------------------- ---------- -------------------- ---------- --------- ------ ----- --------- ------ -----   --- --- --- --- --- --- --- --- ---------------------
sp|P0A7V0|RS2_ECOLI  -          rps2                 -            1.2e-98  320.5   0.1   1.4e-98  320.3   0.1   1.0   1   0   0   1   1   1   1 30S ribosomal protein S2
tr|Q8X|Q8X_ECO57     -          rps2                 -              3e-05   18.1   0.0   4.1e-05   17.6   0.0   1.2   1   0   0   1   1   1   1 -
#
# Program:         hmmsearch
`

const testDomtblout = `# target name        accession   tlen query name           accession   qlen   E-value  score  bias   #  of  c-Evalue  i-Evalue  score  bias  from    to  from    to  from    to  acc description of target
sp|P0A7V0|RS2_ECOLI  -            241 rps2                 -            230   1.2e-98  320.5   0.1   1   1   1.1e-101   1.4e-98  320.3   0.1     1   229     8   238     8   239 0.99 30S ribosomal protein S2
tr|Q8X|Q8X_ECO57     -            120 rps2                 -            230     3e-05   18.1   0.0   1   2   0.00011      0.02    9.1   0.0    10    50    20    60    18    62 0.80 -
tr|Q8X|Q8X_ECO57     -            120 rps2                 -            230     3e-05   18.1   0.0   2   2   2.1e-06   4.1e-05   17.6   0.0    60   120    61   118    60   120 0.85 -
`

func TestReadTable(t *testing.T) {
	table, err := ReadTable(strings.NewReader(testTblout))
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Hits) != 2 {
		t.Fatalf("Read %d hits but answer is 2", len(table.Hits))
	}
	first := table.Hits[0]
	if first.Target != "sp|P0A7V0|RS2_ECOLI" || first.Query != "rps2" {
		t.Fatalf("Computed target/query is %s/%s", first.Target, first.Query)
	}
	if first.EValue != 1.2e-98 || first.Score != 320.5 {
		t.Fatalf("Computed E-value/score is %g/%g but answer is 1.2e-98/320.5",
			first.EValue, first.Score)
	}
	if first.Description != "30S ribosomal protein S2" {
		t.Fatalf("Computed description is '%s'", first.Description)
	}
	if table.MaxScore() != 320.5 {
		t.Fatalf("Computed max score is %g but answer is 320.5",
			table.MaxScore())
	}
	if table.MaxEValue() != 3e-05 {
		t.Fatalf("Computed max E-value is %g but answer is 3e-05",
			table.MaxEValue())
	}
}

func TestReadDomainTable(t *testing.T) {
	table, err := ReadTable(strings.NewReader(testTblout))
	if err != nil {
		t.Fatal(err)
	}
	domains, err := ReadDomainTable(strings.NewReader(testDomtblout))
	if err != nil {
		t.Fatal(err)
	}
	if len(domains) != 3 {
		t.Fatalf("Read %d domains but answer is 3", len(domains))
	}
	table.Attach(domains)

	best, ok := table.Hits[1].BestDomain()
	if !ok {
		t.Fatalf("expected domains for the second hit")
	}
	if best.Index != 2 || best.AliFrom != 61 || best.AliTo != 118 {
		t.Fatalf("Computed best domain is #%d (%d-%d) but answer is #2 (61-118)",
			best.Index, best.AliFrom, best.AliTo)
	}
	if best.HMMFrom != 60 || best.EnvTo != 120 || best.TargetLen != 120 {
		t.Fatalf("Computed coordinates are wrong: %+v", best)
	}
	if _, ok := (Hit{}).BestDomain(); ok {
		t.Fatalf("a hit without domains has no best domain")
	}
}

func TestReadTableInvalid(t *testing.T) {
	tests := []string{
		"target - query - 1e-5 x 0.1 1e-5 10 0.1 1.0 1 0 0 1 1 1 1 desc\n",
		"target - query - 1e-5 10.0\n",
	}
	for _, test := range tests {
		if _, err := ReadTable(strings.NewReader(test)); err == nil {
			t.Fatalf("expected an error for\n%s", test)
		}
	}
	table, err := ReadTable(strings.NewReader("# only comments\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Hits) != 0 || table.MaxScore() != 0 {
		t.Fatalf("expected an empty table")
	}
}

func TestSplitFields(t *testing.T) {
	fields := splitFields("a  b\tc d e", 3)
	answer := []string{"a", "b", "c d e"}
	if strings.Join(fields, "|") != strings.Join(answer, "|") {
		t.Fatalf("Computed fields are %q but answer is %q", fields, answer)
	}
}

// TestSearchRun runs a stand-in for hmmsearch that copies fixed tables to
// the paths it is given.
func TestSearchRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no shell available")
	}
	dir := t.TempDir()
	fixtures := map[string]string{
		"fixture.tbl":    testTblout,
		"fixture.domtbl": testDomtblout,
	}
	for name, content := range fixtures {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	script := `#!/bin/sh
while [ $# -gt 0 ]; do
	case "$1" in
		--tblout) cp "` + dir + `/fixture.tbl" "$2"; shift ;;
		--domtblout) cp "` + dir + `/fixture.domtbl" "$2"; shift ;;
	esac
	shift
done
`
	exe := filepath.Join(dir, "hmmsearch")
	if err := os.WriteFile(exe, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	conf := HMMSearchDefault
	conf.Exec = exe
	table, err := conf.Run("rps2.hmm", "taxon.fasta",
		filepath.Join(dir, "out.tab"), filepath.Join(dir, "out.domtab"))
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Hits) != 2 || len(table.Hits[1].Domains) != 2 {
		t.Fatalf("expected 2 hits with domains attached but got %+v", table.Hits)
	}

	conf.Exec = filepath.Join(dir, "no-such-hmmsearch")
	if _, err := conf.Run("a", "b", "c", ""); err == nil {
		t.Fatalf("expected an error for a missing executable")
	}
}

func TestBuildMissingOutput(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("no 'true' available")
	}
	conf := HMMBuildDefault
	conf.Exec = "true"
	err := conf.Run("aln.fasta", filepath.Join(t.TempDir(), "out.hmm"))
	if err == nil {
		t.Fatalf("expected an error when no profile is written")
	}
}
