package search

import (
	"fmt"
	"strings"
)

// Mode is how many hits a selection keeps per group.
type Mode int

const (
	// Best keeps the single best hit per group.
	Best Mode = iota

	// Multiple keeps up to Selection.MaxHits hits per group.
	Multiple
)

func (m Mode) String() string {
	switch m {
	case Best:
		return "best"
	case Multiple:
		return "multiple"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the mode named s ("best" or "multiple").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "best":
		return Best, nil
	case "multiple":
		return Multiple, nil
	}
	return 0, fmt.Errorf("unknown selection mode '%s' (expected 'best' "+
		"or 'multiple')", s)
}

// ByTaxon groups hits by the taxon they were found in.
func ByTaxon(h Hit) string {
	return h.Taxon
}

// Selection picks hits from each group after ranking.
type Selection struct {
	Mode Mode

	// MaxHits is the limit per group in Multiple mode. Zero or less means
	// no limit.
	MaxHits int

	// Group returns the key hits are grouped by. A nil Group puts every hit
	// in one group.
	Group func(Hit) string
}

var DefaultSelection = Selection{
	Mode:    Best,
	MaxHits: 1,
	Group:   ByTaxon,
}

// Select returns the selected hits. Groups appear in the order their first
// hit appears in hits; within a group hits are in rank order (see Rank).
// hits is not modified.
//
// For the same input, the result in Best mode is always a subset of the
// result in Multiple mode: the first hit of every group.
func (s Selection) Select(hits []Hit) []Hit {
	limit := 1
	if s.Mode == Multiple {
		limit = s.MaxHits
	}

	var order []string
	groups := make(map[string][]Hit)
	for _, h := range hits {
		key := ""
		if s.Group != nil {
			key = s.Group(h)
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], h)
	}

	selected := make([]Hit, 0, len(hits))
	for _, key := range order {
		group := groups[key]
		Rank(group)
		if limit > 0 && len(group) > limit {
			group = group[:limit]
		}
		selected = append(selected, group...)
	}
	return selected
}
