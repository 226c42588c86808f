package hmmer

import (
	"fmt"
	"os"
	"runtime"

	"github.com/TuftsBCB/supermatrix/apps/command"
)

type HMMBuildConfig struct {
	Exec string
	CPUs int

	// When true, the 'hmmbuild' stdout and stderr will be mapped to the
	// current processes' stdout and stderr.
	Verbose bool
}

var HMMBuildDefault = HMMBuildConfig{
	Exec:    "hmmbuild",
	CPUs:    runtime.NumCPU(),
	Verbose: false,
}

// Run will execute hmmbuild on the multiple alignment at the given path and
// write the profile HMM to out. It is an error if hmmbuild exits
// successfully without writing out.
func (conf HMMBuildConfig) Run(alignment, out string) error {
	args := []string{
		"--cpu", fmt.Sprintf("%d", conf.CPUs),
		out,
		alignment,
	}

	c := command.New(conf.Exec, args...)
	if conf.Verbose {
		fmt.Fprintf(os.Stderr, "\n%s\n", c)
		c.Cmd.Stdout = os.Stdout
		c.Cmd.Stderr = os.Stderr
	}
	if err := c.Run(); err != nil {
		return err
	}
	if _, err := os.Stat(out); err != nil {
		return fmt.Errorf("hmmbuild did not write a profile to '%s': %s",
			out, err)
	}
	return nil
}
