package supermatrix

import (
	"github.com/TuftsBCB/seq"
)

// Gap is the residue used to pad taxa that are missing from a gene.
const Gap seq.Residue = '-'

// IsGap returns true if r is a gap or missing-data symbol ('-', '.' or '?').
func IsGap(r seq.Residue) bool {
	return r == '-' || r == '.' || r == '?'
}

// GapRow returns a sequence named name consisting of n gaps.
func GapRow(name string, n int) seq.Sequence {
	residues := make([]seq.Residue, n)
	for i := range residues {
		residues[i] = Gap
	}
	return seq.Sequence{Name: name, Residues: residues}
}

// IsAllGap returns true if every residue in rs is a gap. An empty slice is
// all gap.
func IsAllGap(rs []seq.Residue) bool {
	for _, r := range rs {
		if !IsGap(r) {
			return false
		}
	}
	return true
}

// CountResidues returns the number of non-gap residues in rs.
func CountResidues(rs []seq.Residue) int {
	n := 0
	for _, r := range rs {
		if !IsGap(r) {
			n++
		}
	}
	return n
}

// Degap returns a copy of s without gaps or unknown residues ('X').
func Degap(s seq.Sequence) seq.Sequence {
	residues := make([]seq.Residue, 0, len(s.Residues))
	for _, r := range s.Residues {
		if IsGap(r) || r == 'X' || r == 'x' {
			continue
		}
		residues = append(residues, r)
	}
	return seq.Sequence{Name: s.Name, Residues: residues}
}
