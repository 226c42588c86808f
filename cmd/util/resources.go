package util

import (
	"github.com/TuftsBCB/supermatrix/alignio"
	"github.com/TuftsBCB/supermatrix/supermatrix"
)

func Format(name string) alignio.Format {
	f, err := alignio.ParseFormat(name)
	Assert(err)
	return f
}

func AlignmentRead(path string, f alignio.Format) *supermatrix.Supermatrix {
	m, err := alignio.ReadFile(path, f)
	Assert(err, "Could not read alignment '%s'", path)
	return m
}

func AlignmentWrite(path string, m *supermatrix.Supermatrix, f alignio.Format) {
	Assert(alignio.WriteFile(path, m, f), "Could not write alignment '%s'", path)
}

// PartitionsRead reads the partition file at path. When path is empty, the
// whole alignment m is a single partition.
func PartitionsRead(path string, m *supermatrix.Supermatrix) supermatrix.Table {
	if len(path) == 0 {
		return supermatrix.NewTable(supermatrix.StyleComma, nil,
			[]int{m.Len()}, nil)
	}
	t, err := supermatrix.ReadPartitionFile(path)
	Assert(err, "Could not read partition file '%s'", path)
	return t
}

func PartitionsWrite(path string, t supermatrix.Table) {
	Assert(alignio.WritePartitionFile(path, t),
		"Could not write partition file '%s'", path)
}
