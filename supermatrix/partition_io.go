package supermatrix

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadPartitionFile reads the partition table at path. See ReadPartitions.
func ReadPartitionFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	t, err := ReadPartitions(f)
	if ferr, ok := err.(*FormatError); ok {
		ferr.Path = path
	}
	return t, err
}

// ReadPartitions reads a partition table in either the comma style or the
// RAxML style. The style is detected from the first non-blank line, and
// mixing styles within one file is an error. Blank lines are ignored.
//
// The returned table is validated: partitions must be contiguous and start
// at column 1.
func ReadPartitions(r io.Reader) (Table, error) {
	t := Table{Parts: make([]Partition, 0, 32)}
	styled := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		style := StyleComma
		if strings.Contains(line, "=") {
			style = StyleRAxML
		}
		if !styled {
			t.Style, styled = style, true
		} else if style != t.Style {
			return Table{}, &FormatError{
				Line:   lineno,
				Format: "partition file",
				Msg:    fmt.Sprintf("line is in %s style but the file is in %s style", style, t.Style),
			}
		}

		var parts []Partition
		var err error
		if style == StyleComma {
			parts, err = parseCommaLine(line)
		} else {
			parts, err = parseRAxMLLine(line)
		}
		if err != nil {
			return Table{}, &FormatError{
				Line:   lineno,
				Format: "partition file",
				Msg:    err.Error(),
			}
		}
		t.Parts = append(t.Parts, parts...)
	}
	if err := scanner.Err(); err != nil {
		return Table{}, err
	}
	if len(t.Parts) == 0 {
		return Table{}, &FormatError{Format: "partition file", Msg: "no partitions found"}
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// parseCommaLine parses "1:136,137:301". A trailing comma is allowed so that
// tables split over several lines may end each line with one.
func parseCommaLine(line string) ([]Partition, error) {
	blocks := strings.Split(line, ",")
	parts := make([]Partition, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if len(block) == 0 {
			continue
		}
		bounds := strings.Split(block, ":")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("expected 'start:end' but got '%s'", block)
		}
		start, end, err := parseBounds(bounds[0], bounds[1])
		if err != nil {
			return nil, err
		}
		parts = append(parts, Partition{
			Name:  defaultName(start, end),
			Start: start,
			End:   end,
		})
	}
	return parts, nil
}

// parseRAxMLLine parses "LG, name = 1-136". The model is optional
// ("name = 1-136").
func parseRAxMLLine(line string) ([]Partition, error) {
	eq := strings.Index(line, "=")
	lhs, rhs := strings.TrimSpace(line[:eq]), strings.TrimSpace(line[eq+1:])

	var model, name string
	if comma := strings.Index(lhs, ","); comma >= 0 {
		model = strings.TrimSpace(lhs[:comma])
		name = strings.TrimSpace(lhs[comma+1:])
	} else {
		name = lhs
	}
	if len(name) == 0 || strings.ContainsAny(name, " \t") {
		return nil, fmt.Errorf("invalid partition name '%s'", name)
	}

	dash := strings.Index(rhs, "-")
	if dash < 0 {
		return nil, fmt.Errorf("expected 'start-end' but got '%s'", rhs)
	}
	start, end, err := parseBounds(rhs[:dash], rhs[dash+1:])
	if err != nil {
		return nil, err
	}
	return []Partition{{Name: name, Model: model, Start: start, End: end}}, nil
}

func parseBounds(s, e string) (int, int, error) {
	start, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("could not parse start '%s'", s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(e))
	if err != nil {
		return 0, 0, fmt.Errorf("could not parse end '%s'", e)
	}
	if start < 1 {
		return 0, 0, fmt.Errorf("start %d is not positive", start)
	}
	return start, end, nil
}

// WritePartitions writes t in its style. The comma style is written on a
// single line. RAxML-style partitions without a model get DefaultModel.
func WritePartitions(w io.Writer, t Table) error {
	buf := bufio.NewWriter(w)
	switch t.Style {
	case StyleComma:
		blocks := make([]string, len(t.Parts))
		for i, p := range t.Parts {
			blocks[i] = fmt.Sprintf("%d:%d", p.Start, p.End)
		}
		fmt.Fprintln(buf, strings.Join(blocks, ","))
	case StyleRAxML:
		for _, p := range t.Parts {
			model := p.Model
			if len(model) == 0 {
				model = DefaultModel
			}
			fmt.Fprintf(buf, "%s, %s = %d-%d\n", model, p.Name, p.Start, p.End)
		}
	default:
		return fmt.Errorf("unknown partition style %s", t.Style)
	}
	return buf.Flush()
}
