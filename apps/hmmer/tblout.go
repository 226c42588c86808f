package hmmer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	tbloutFields    = 19
	domtbloutFields = 23
)

// Hit is one row of an hmmsearch per-target table.
type Hit struct {
	Target      string
	TargetAcc   string
	Query       string
	QueryAcc    string
	EValue      float64
	Score       float64
	Bias        float64
	BestEValue  float64
	BestScore   float64
	BestBias    float64
	NumDomains  int
	Description string

	// Domains is only filled in when a per-domain table was read.
	Domains []Domain
}

// BestDomain returns the domain of h with the highest score.
func (h Hit) BestDomain() (Domain, bool) {
	if len(h.Domains) == 0 {
		return Domain{}, false
	}
	best := h.Domains[0]
	for _, d := range h.Domains[1:] {
		if d.Score > best.Score {
			best = d
		}
	}
	return best, true
}

// Domain is one row of an hmmsearch per-domain table. Coordinates are
// 1-based and inclusive.
type Domain struct {
	Target    string
	TargetLen int
	Query     string
	QueryLen  int
	Index     int
	Count     int
	CEValue   float64
	IEValue   float64
	Score     float64
	Bias      float64
	HMMFrom   int
	HMMTo     int
	AliFrom   int
	AliTo     int
	EnvFrom   int
	EnvTo     int
	Acc       float64
}

// Table is the per-target table of one hmmsearch run, in the order
// hmmsearch reported the hits.
type Table struct {
	Hits []Hit
}

// MaxScore returns the highest full sequence score in the table, or 0 if
// the table is empty.
func (t *Table) MaxScore() float64 {
	max := 0.0
	for i, hit := range t.Hits {
		if i == 0 || hit.Score > max {
			max = hit.Score
		}
	}
	return max
}

// MaxEValue returns the highest full sequence E-value in the table, or 0 if
// the table is empty.
func (t *Table) MaxEValue() float64 {
	max := 0.0
	for _, hit := range t.Hits {
		if hit.EValue > max {
			max = hit.EValue
		}
	}
	return max
}

// Attach adds each domain to the hit with the same target name.
func (t *Table) Attach(domains []Domain) {
	index := make(map[string]int, len(t.Hits))
	for i, hit := range t.Hits {
		index[hit.Target] = i
	}
	for _, d := range domains {
		if i, ok := index[d.Target]; ok {
			t.Hits[i].Domains = append(t.Hits[i].Domains, d)
		}
	}
}

// ReadTableFile reads the per-target table at path.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}
	return t, nil
}

// ReadTable reads an hmmsearch --tblout table. Comment lines are skipped.
func ReadTable(r io.Reader) (*Table, error) {
	t := &Table{}
	err := eachRow(r, tbloutFields, func(p *rowParser) {
		hit := Hit{
			Target:      p.str(0),
			TargetAcc:   p.str(1),
			Query:       p.str(2),
			QueryAcc:    p.str(3),
			EValue:      p.number(4),
			Score:       p.number(5),
			Bias:        p.number(6),
			BestEValue:  p.number(7),
			BestScore:   p.number(8),
			BestBias:    p.number(9),
			NumDomains:  p.integer(15),
			Description: p.str(18),
		}
		t.Hits = append(t.Hits, hit)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ReadDomainTableFile reads the per-domain table at path.
func ReadDomainTableFile(path string) ([]Domain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	domains, err := ReadDomainTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}
	return domains, nil
}

// ReadDomainTable reads an hmmsearch --domtblout table.
func ReadDomainTable(r io.Reader) ([]Domain, error) {
	var domains []Domain
	err := eachRow(r, domtbloutFields, func(p *rowParser) {
		d := Domain{
			Target:    p.str(0),
			TargetLen: p.integer(2),
			Query:     p.str(3),
			QueryLen:  p.integer(5),
			Index:     p.integer(9),
			Count:     p.integer(10),
			CEValue:   p.number(11),
			IEValue:   p.number(12),
			Score:     p.number(13),
			Bias:      p.number(14),
			HMMFrom:   p.integer(15),
			HMMTo:     p.integer(16),
			AliFrom:   p.integer(17),
			AliTo:     p.integer(18),
			EnvFrom:   p.integer(19),
			EnvTo:     p.integer(20),
			Acc:       p.number(21),
		}
		domains = append(domains, d)
	})
	if err != nil {
		return nil, err
	}
	return domains, nil
}

// rowParser converts the fields of one table row, remembering the first
// conversion error.
type rowParser struct {
	fields []string
	err    error
}

func (p *rowParser) str(i int) string {
	if i >= len(p.fields) {
		return ""
	}
	return p.fields[i]
}

func (p *rowParser) number(i int) float64 {
	v, err := strconv.ParseFloat(p.str(i), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %d: invalid number '%s'", i+1, p.str(i))
	}
	return v
}

func (p *rowParser) integer(i int) int {
	v, err := strconv.Atoi(p.str(i))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %d: invalid integer '%s'", i+1, p.str(i))
	}
	return v
}

// eachRow splits every non-comment line of r into at most n whitespace
// separated fields (the last keeps any remaining text) and calls row. Rows
// with fewer than n-1 fields are errors; the trailing description may be
// missing.
func eachRow(r io.Reader, n int, row func(p *rowParser)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		p := &rowParser{fields: splitFields(line, n)}
		if len(p.fields) < n-1 {
			return fmt.Errorf("line %d: expected %d columns but found %d",
				lineno, n, len(p.fields))
		}
		row(p)
		if p.err != nil {
			return fmt.Errorf("line %d: %s", lineno, p.err)
		}
	}
	return scanner.Err()
}

// splitFields splits s around runs of whitespace into at most n fields.
func splitFields(s string, n int) []string {
	var fields []string
	for len(s) > 0 && len(fields) < n-1 {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			break
		}
		fields = append(fields, s[:i])
		s = strings.TrimLeft(s[i:], " \t")
	}
	if len(s) > 0 {
		fields = append(fields, s)
	}
	return fields
}
