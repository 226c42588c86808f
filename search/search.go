// Package search turns hmmsearch tables into candidate sequences for new
// taxa: it filters hits by E-value, relative score and length, ranks them
// and selects the best (or several best) per taxon.
package search

import (
	"math"
	"sort"

	"github.com/TuftsBCB/seq"

	"github.com/TuftsBCB/supermatrix/apps/hmmer"
)

// Hit is a candidate protein from one taxon for one gene.
type Hit struct {
	Taxon  string
	Gene   string
	Target string
	EValue float64
	Score  float64

	// Best domain coordinates. All zero when no per-domain table was read.
	HMMFrom, HMMTo int
	AliFrom, AliTo int
	EnvFrom, EnvTo int

	// Length is the number of residues in the target protein, or 0 if its
	// residues are unknown.
	Length   int
	Residues []seq.Residue
}

// FromTable converts the rows of an hmmsearch table of one taxon against
// one gene's profile into hits.
func FromTable(taxon, gene string, t *hmmer.Table) []Hit {
	hits := make([]Hit, len(t.Hits))
	for i, row := range t.Hits {
		hits[i] = Hit{
			Taxon:  taxon,
			Gene:   gene,
			Target: row.Target,
			EValue: row.EValue,
			Score:  row.Score,
		}
		if d, ok := row.BestDomain(); ok {
			hits[i].HMMFrom, hits[i].HMMTo = d.HMMFrom, d.HMMTo
			hits[i].AliFrom, hits[i].AliTo = d.AliFrom, d.AliTo
			hits[i].EnvFrom, hits[i].EnvTo = d.EnvFrom, d.EnvTo
		}
	}
	return hits
}

// Sequence returns the residues of the hit as a sequence named name.
func (h Hit) Sequence(name string) seq.Sequence {
	return seq.Sequence{Name: name, Residues: h.Residues}
}

// Filter decides which hits are kept.
type Filter struct {
	// EValue is the largest E-value kept.
	EValue float64

	// A hit is kept only when its score is strictly greater than
	// ScoreFraction times the highest score among the hits filtered
	// together.
	ScoreFraction float64

	// MinLength is the shortest target kept. Zero keeps every length.
	MinLength int
}

var DefaultFilter = Filter{
	EValue:        10,
	ScoreFraction: 0.5,
	MinLength:     0,
}

// Apply returns the hits that pass the filter, in their original order.
// The score threshold is relative to the best score in hits.
func (f Filter) Apply(hits []Hit) []Hit {
	maxScore := 0.0
	for _, h := range hits {
		if h.Score > maxScore {
			maxScore = h.Score
		}
	}

	kept := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.EValue > f.EValue {
			continue
		}
		if h.Score <= maxScore*f.ScoreFraction {
			continue
		}
		if h.Length < f.MinLength {
			continue
		}
		kept = append(kept, h)
	}
	return kept
}

// Median returns the upper median of lengths: the element at index n/2 of
// the sorted lengths. It returns 0 for no lengths.
func Median(lengths []int) int {
	if len(lengths) == 0 {
		return 0
	}
	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)
	return sorted[len(sorted)/2]
}

// MinLength returns the shortest integer length that is at least
// fraction times median.
func MinLength(median int, fraction float64) int {
	return int(math.Ceil(float64(median) * fraction))
}

// DefaultCorrection is the factor applied to the largest self-search
// E-value by SelfEValue.
const DefaultCorrection = 1e5

// SelfEValue derives an E-value threshold from a profile searched against
// the ungapped sequences it was built from: the largest E-value times
// correction. When every E-value is zero (or there are none) the result is
// 1e-300.
func SelfEValue(t *hmmer.Table, correction float64) float64 {
	max := t.MaxEValue()
	if max == 0 {
		return 1e-300
	}
	return max * correction
}

// Rank sorts hits best first: by score descending, then E-value
// ascending, then target name.
func Rank(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.EValue != b.EValue {
			return a.EValue < b.EValue
		}
		return a.Target < b.Target
	})
}
