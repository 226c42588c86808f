// Package occupancy reports how much of each partition of a supermatrix is
// filled in for each taxon.
//
// The occupancy of a taxon in a partition is the fraction of the
// partition's columns in which the taxon has a residue rather than a gap or
// missing-data symbol. It is 0 exactly when the taxon's block is all gap.
package occupancy

import (
	"github.com/andrew-torda/matrix"

	"github.com/TuftsBCB/supermatrix/supermatrix"
)

// Report is the occupancy of every taxon in every partition.
type Report struct {
	Taxa       []string
	Partitions []supermatrix.Partition

	// Counts[i][j] is the number of residues of taxon i in partition j.
	Counts [][]int

	// Fractions.Mat[i][j] is Counts[i][j] divided by the length of
	// partition j.
	Fractions *matrix.FMatrix2d
}

// Compute returns the occupancy report of m under the partition table t.
// It fails with a *supermatrix.FormatError if the rows of m do not match
// the table.
func Compute(m *supermatrix.Supermatrix, t supermatrix.Table) (*Report, error) {
	if err := m.Check(t); err != nil {
		return nil, err
	}

	r := &Report{
		Taxa:       m.Taxa(),
		Partitions: t.Parts,
		Counts:     make([][]int, m.NumTaxa()),
		Fractions:  matrix.NewFMatrix2d(m.NumTaxa(), len(t.Parts)),
	}
	for i, row := range m.Rows {
		r.Counts[i] = make([]int, len(t.Parts))
		for j, p := range t.Parts {
			count := supermatrix.CountResidues(row.Residues[p.Start-1 : p.End])
			r.Counts[i][j] = count
			r.Fractions.Mat[i][j] = float32(count) / float32(p.Len())
		}
	}
	return r, nil
}

// Fraction returns the occupancy of taxon i in partition j.
func (r *Report) Fraction(i, j int) float64 {
	return float64(r.Fractions.Mat[i][j])
}

// Columns returns the total number of columns in all partitions.
func (r *Report) Columns() int {
	if len(r.Partitions) == 0 {
		return 0
	}
	return r.Partitions[len(r.Partitions)-1].End
}

// TaxonCount returns the number of residues of taxon i in the whole
// supermatrix.
func (r *Report) TaxonCount(i int) int {
	total := 0
	for _, c := range r.Counts[i] {
		total += c
	}
	return total
}

// TaxonFraction returns the occupancy of taxon i over the whole
// supermatrix.
func (r *Report) TaxonFraction(i int) float64 {
	if r.Columns() == 0 {
		return 0
	}
	return float64(r.TaxonCount(i)) / float64(r.Columns())
}

// TaxonPresent returns the number of partitions in which taxon i has at
// least one residue.
func (r *Report) TaxonPresent(i int) int {
	present := 0
	for _, c := range r.Counts[i] {
		if c > 0 {
			present++
		}
	}
	return present
}

// PartitionPresent returns the number of taxa with at least one residue in
// partition j.
func (r *Report) PartitionPresent(j int) int {
	present := 0
	for i := range r.Taxa {
		if r.Counts[i][j] > 0 {
			present++
		}
	}
	return present
}
