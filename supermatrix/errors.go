package supermatrix

import "fmt"

// FormatError is returned when an alignment or partition file does not match
// its declared format, or when sequence lengths disagree with each other or
// with a partition table.
//
// Path, Line and Format are optional and only included in the message when
// set.
type FormatError struct {
	Path   string
	Line   int
	Format string
	Msg    string
}

func (e *FormatError) Error() string {
	where := ""
	switch {
	case e.Path != "" && e.Line > 0:
		where = fmt.Sprintf("%s:%d: ", e.Path, e.Line)
	case e.Path != "":
		where = e.Path + ": "
	case e.Line > 0:
		where = fmt.Sprintf("line %d: ", e.Line)
	}
	if e.Format != "" {
		return fmt.Sprintf("%sinvalid %s: %s", where, e.Format, e.Msg)
	}
	return where + e.Msg
}

func formatErrorf(format string, v ...interface{}) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, v...)}
}
