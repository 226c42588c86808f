// Package command runs external programs for the tool wrappers in apps.
// A failed command returns an *Error carrying the command line and whatever
// the program wrote to stderr.
package command

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Command is a single invocation of an external program. Cmd may be
// modified before Run, e.g., to redirect Stdout.
type Command struct {
	Cmd *exec.Cmd
}

// New returns a command that runs name with args.
func New(name string, args ...string) *Command {
	return &Command{exec.Command(name, args...)}
}

// String returns the command line, with arguments containing whitespace
// quoted.
func (c *Command) String() string {
	parts := make([]string, len(c.Cmd.Args))
	for i, arg := range c.Cmd.Args {
		if strings.ContainsAny(arg, " \t\n") || len(arg) == 0 {
			parts[i] = fmt.Sprintf("%q", arg)
		} else {
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}

// Run executes the command and waits for it to exit. Unless Cmd.Stderr has
// been set, stderr is captured and included in the returned *Error.
func (c *Command) Run() error {
	log.Debug(c.String())

	var stderr *bytes.Buffer
	if c.Cmd.Stderr == nil {
		stderr = new(bytes.Buffer)
		c.Cmd.Stderr = stderr
	}
	if err := c.Cmd.Run(); err != nil {
		e := &Error{Command: c.String(), Err: err}
		if stderr != nil {
			e.Stderr = strings.TrimSpace(stderr.String())
		}
		return e
	}
	return nil
}

// Error is returned when an external program cannot be started or exits
// with a non-zero status.
type Error struct {
	Command string
	Err     error
	Stderr  string
}

func (e *Error) Error() string {
	if len(e.Stderr) == 0 {
		return fmt.Sprintf("'%s' failed: %s", e.Command, e.Err)
	}
	return fmt.Sprintf("'%s' failed: %s\n%s", e.Command, e.Err, e.Stderr)
}

func (e *Error) Unwrap() error {
	return e.Err
}
