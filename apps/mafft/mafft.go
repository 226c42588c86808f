// Package mafft runs MAFFT, either to align a set of sequences from scratch
// or to add new sequences to an existing alignment.
package mafft

import (
	"fmt"
	"os"
	"runtime"

	"github.com/TuftsBCB/supermatrix/apps/command"
)

type Config struct {
	Exec    string
	Threads int

	// When true, the 'mafft' stderr will be mapped to the current
	// processes' stderr. Stdout is always the alignment.
	Verbose bool
}

var Default = Config{
	Exec:    "mafft",
	Threads: runtime.NumCPU(),
	Verbose: false,
}

// AddLong adds the unaligned sequences in seqs to the alignment in existing
// with '--addlong' and writes the result to out in FASTA format. When
// keepLength is set, columns that would be inserted into the existing
// alignment are dropped, so the result has the width of existing.
func (conf Config) AddLong(existing, seqs, out string, keepLength bool) error {
	args := []string{"--quiet"}
	if keepLength {
		args = append(args, "--keeplength")
	}
	args = append(args, "--auto", "--thread", fmt.Sprintf("%d", conf.Threads),
		"--addlong", seqs, existing)
	return conf.run(args, out)
}

// Align aligns the unaligned sequences in seqs and writes the alignment to
// out in FASTA format.
func (conf Config) Align(seqs, out string) error {
	args := []string{
		"--auto", "--quiet",
		"--thread", fmt.Sprintf("%d", conf.Threads),
		seqs,
	}
	return conf.run(args, out)
}

func (conf Config) run(args []string, out string) error {
	fout, err := os.Create(out)
	if err != nil {
		return err
	}

	c := command.New(conf.Exec, args...)
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
