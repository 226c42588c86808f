package alignio

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/TuftsBCB/supermatrix/supermatrix"
)

var (
	nexusNtax    = regexp.MustCompile(`(?i)\bntax\s*=\s*(\d+)`)
	nexusNchar   = regexp.MustCompile(`(?i)\bnchar\s*=\s*(\d+)`)
	nexusBegin   = regexp.MustCompile(`(?i)^begin\s+(data|characters)\s*;`)
)

// nexusPunct are the characters that force a taxon name to be quoted.
const nexusPunct = "'()[]{}/\\,;:=*\"`<>"

// readNexus reads the matrix of the first DATA or CHARACTERS block of a
// NEXUS file. Other blocks are ignored. The matrix may be interleaved.
func readNexus(r io.Reader) (*supermatrix.Supermatrix, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return supermatrix.New(), nil
	}
	if !strings.EqualFold(strings.TrimSpace(lines[0].text), "#NEXUS") {
		return nil, lineErrorf(lines[0], "expected '#NEXUS' header but got '%s'",
			lines[0].text)
	}

	ntax, nchar := -1, -1
	inData, inMatrix, done := false, false, false
	rows := newRowBuilder()
	for _, l := range lines[1:] {
		text := strings.TrimSpace(stripNexusComments(l.text))
		if len(text) == 0 {
			continue
		}
		switch {
		case !inData:
			inData = nexusBegin.MatchString(text)
		case inMatrix:
			if strings.HasSuffix(text, ";") {
				text = strings.TrimSpace(strings.TrimSuffix(text, ";"))
				inMatrix, done = false, true
			}
			if len(text) == 0 {
				break
			}
			name, rest, err := nexusName(l, text)
			if err != nil {
				return nil, err
			}
			rows.add(name, residues(rest))
		default:
			lower := strings.ToLower(text)
			switch {
			case strings.HasPrefix(lower, "dimensions"):
				if m := nexusNtax.FindStringSubmatch(text); m != nil {
					ntax, _ = strconv.Atoi(m[1])
				}
				if m := nexusNchar.FindStringSubmatch(text); m != nil {
					nchar, _ = strconv.Atoi(m[1])
				}
			case lower == "matrix":
				inMatrix = true
			case strings.HasPrefix(lower, "end;") || lower == "end":
				return nil, lineErrorf(l, "data block has no matrix")
			}
		}
		if done {
			break
		}
	}
	if !done {
		return nil, errorf("missing DATA block or unterminated matrix")
	}

	m, err := rows.matrix()
	if err != nil {
		return nil, err
	}
	if ntax >= 0 && m.NumTaxa() != ntax {
		return nil, errorf("dimensions declare %d taxa but the matrix has %d",
			ntax, m.NumTaxa())
	}
	if nchar >= 0 && m.NumTaxa() > 0 && m.Len() != nchar {
		return nil, errorf("dimensions declare %d characters but the matrix "+
			"has %d", nchar, m.Len())
	}
	return m, nil
}

// stripNexusComments removes bracketed comments from text. Brackets inside
// single-quoted names are kept.
func stripNexusComments(text string) string {
	var buf strings.Builder
	quoted, depth := false, 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case depth > 0:
			if c == '[' {
				depth++
			} else if c == ']' {
				depth--
			}
			continue
		case c == '\'':
			quoted = !quoted
		case c == '[' && !quoted:
			depth++
			continue
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

// nexusName splits a matrix line into a taxon name, which may be single
// quoted, and the remaining residues.
func nexusName(l line, text string) (name, rest string, err error) {
	if text[0] != '\'' {
		i := strings.IndexAny(text, " \t")
		if i < 0 {
			return "", "", lineErrorf(l, "expected a taxon name followed by "+
				"residues")
		}
		return text[:i], text[i:], nil
	}

	var buf strings.Builder
	for i := 1; i < len(text); i++ {
		if text[i] != '\'' {
			buf.WriteByte(text[i])
			continue
		}
		if i+1 < len(text) && text[i+1] == '\'' {
			buf.WriteByte('\'')
			i++
			continue
		}
		return buf.String(), text[i+1:], nil
	}
	return "", "", lineErrorf(l, "unterminated quoted taxon name")
}

func nexusQuote(name string) string {
	if !strings.ContainsAny(name, " \t"+nexusPunct) {
		return name
	}
	return "'" + strings.Replace(name, "'", "''", -1) + "'"
}

func writeNexus(w io.Writer, m *supermatrix.Supermatrix) error {
	names := make([]string, len(m.Rows))
	width := 0
	for i, row := range m.Rows {
		if len(row.Name) == 0 {
			return errorf("empty taxon name")
		}
		names[i] = nexusQuote(row.Name)
		if len(names[i]) > width {
			width = len(names[i])
		}
	}

	var buf strings.Builder
	fmt.Fprint(&buf, "#NEXUS\n\nbegin data;\n")
	fmt.Fprintf(&buf, "\tdimensions ntax=%d nchar=%d;\n", m.NumTaxa(), m.Len())
	fmt.Fprint(&buf, "\tformat datatype=protein missing=? gap=-;\n")
	fmt.Fprint(&buf, "\tmatrix\n")
	for i, row := range m.Rows {
		fmt.Fprintf(&buf, "\t%-*s %s\n", width, names[i], residueString(row))
	}
	fmt.Fprint(&buf, "\t;\nend;\n")

	_, err := io.WriteString(w, buf.String())
	return err
}
