// Package fasttree runs FastTree to infer an approximately maximum
// likelihood tree from a protein alignment.
package fasttree

import (
	"fmt"
	"os"

	"github.com/TuftsBCB/supermatrix/apps/command"
)

type Config struct {
	// Exec is usually 'FastTreeMP' (threaded) or 'FastTree'.
	Exec string

	// When true, the FastTree stderr will be mapped to the current
	// processes' stderr.
	Verbose bool
}

var Default = Config{
	Exec:    "FastTreeMP",
	Verbose: false,
}

// Run infers a tree from the alignment at aln and writes it to out in
// Newick format. The output file is removed if FastTree fails.
func (conf Config) Run(aln, out string) error {
	fout, err := os.Create(out)
	if err != nil {
		return err
	}

	c := command.New(conf.Exec, "-quiet", aln)
	c.Cmd.Stdout = fout
	if conf.Verbose {
		fmt.Fprintf(os.Stderr, "\n%s > %s\n", c, out)
		c.Cmd.Stderr = os.Stderr
	}
	if err := c.Run(); err != nil {
		fout.Close()
		os.Remove(out)
		return err
	}
	return fout.Close()
}
