package hmmer

import (
	"fmt"
	"os"
	"runtime"

	"github.com/TuftsBCB/supermatrix/apps/command"
)

type HMMSearchConfig struct {
	Exec string
	CPUs int

	// When true, the 'hmmsearch' stdout and stderr will be mapped to the
	// current processes' stdout and stderr.
	Verbose bool

	// Output is passed to '-o' when set. Otherwise the human readable
	// report is discarded.
	Output string
}

var HMMSearchDefault = HMMSearchConfig{
	Exec:    "hmmsearch",
	CPUs:    runtime.NumCPU(),
	Verbose: false,
}

// Run will search the profile HMM at the given path against the sequence
// database seqdb (FASTA). The per-target table is written to tblout and
// returned. If domtblout is not empty, the per-domain table is written
// there too and each hit carries its domains.
func (conf HMMSearchConfig) Run(
	profile, seqdb, tblout, domtblout string,
) (*Table, error) {
	args := []string{
		"--cpu", fmt.Sprintf("%d", conf.CPUs),
		"--tblout", tblout,
	}
	if len(domtblout) > 0 {
		args = append(args, "--domtblout", domtblout)
	}
	if len(conf.Output) > 0 {
		args = append(args, "-o", conf.Output)
	}
	args = append(args, profile, seqdb)

	c := command.New(conf.Exec, args...)
	if conf.Verbose {
		fmt.Fprintf(os.Stderr, "\n%s\n", c)
		c.Cmd.Stdout = os.Stdout
		c.Cmd.Stderr = os.Stderr
	}
	if err := c.Run(); err != nil {
		return nil, err
	}

	table, err := ReadTableFile(tblout)
	if err != nil {
		return nil, err
	}
	if len(domtblout) > 0 {
		domains, err := ReadDomainTableFile(domtblout)
		if err != nil {
			return nil, err
		}
		table.Attach(domains)
	}
	return table, nil
}
