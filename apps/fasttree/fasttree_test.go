package fasttree

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no shell available")
	}
	dir := t.TempDir()
	exe := filepath.Join(dir, "FastTreeMP")
	script := "#!/bin/sh\n[ \"$1\" = -quiet ] || exit 2\necho '(a,b);'\n"
	if err := os.WriteFile(exe, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	conf := Default
	conf.Exec = exe
	out := filepath.Join(dir, "gene.tree")
	if err := conf.Run("gene.aln", out); err != nil {
		t.Fatal(err)
	}
	tree, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(tree) != "(a,b);\n" {
		t.Fatalf("Computed tree is '%s' but answer is '(a,b);'", tree)
	}
}
