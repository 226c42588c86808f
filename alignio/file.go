package alignio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/TuftsBCB/supermatrix/supermatrix"
)

// ReadFile reads the alignment at path in format f. The file is mapped
// read-only; empty files are read as an empty alignment.
func ReadFile(path string, f Format) (*supermatrix.Supermatrix, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	var m *supermatrix.Supermatrix
	if info.Size() == 0 {
		m, err = Read(bytes.NewReader(nil), f)
	} else {
		mm, merr := mmap.Map(file, mmap.RDONLY, 0)
		if merr != nil {
			return nil, fmt.Errorf("could not map '%s': %s", path, merr)
		}
		m, err = Read(bytes.NewReader(mm), f)
		if uerr := mm.Unmap(); uerr != nil && err == nil {
			err = uerr
		}
	}
	if err != nil {
		if ferr, ok := err.(*supermatrix.FormatError); ok {
			ferr.Path = path
			return nil, ferr
		}
		return nil, fmt.Errorf("could not read '%s': %s", path, err)
	}
	return m, nil
}

// WriteFile writes m to path in format f. The alignment is written to a
// temporary file in the same directory and renamed into place, so path is
// never left partially written.
func WriteFile(path string, m *supermatrix.Supermatrix, f Format) error {
	return writeAtomic(path, func(w io.Writer) error {
		return Write(w, m, f)
	})
}

// WriteBlockFile writes the rows of a single gene to path in format f.
func WriteBlockFile(path string, b *supermatrix.Block, f Format) error {
	return WriteFile(path, b.Supermatrix(), f)
}

// WritePartitionFile writes t to path in its own style, atomically as
// WriteFile does.
func WritePartitionFile(path string, t supermatrix.Table) error {
	return writeAtomic(path, func(w io.Writer) error {
		return supermatrix.WritePartitions(w, t)
	})
}

func writeAtomic(path string, write func(w io.Writer) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := write(tmp); err != nil {
		if ferr, ok := err.(*supermatrix.FormatError); ok && ferr.Path == "" {
			ferr.Path = path
		}
		return cleanup(err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// GeneName returns the gene named by an alignment file: its base name
// without extension.
func GeneName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadBlocks reads one alignment per gene from paths, in order. Each
// gene is named by GeneName; two files naming the same gene are an error.
func ReadBlocks(paths []string, f Format) ([]*supermatrix.Block, error) {
	blocks := make([]*supermatrix.Block, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		gene := GeneName(path)
		if prev, ok := seen[gene]; ok {
			return nil, fmt.Errorf("'%s' and '%s' both name gene '%s'",
				prev, path, gene)
		}
		seen[gene] = path

		m, err := ReadFile(path, f)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, supermatrix.BlockOf(gene, m))
	}
	return blocks, nil
}

// ExpandPaths returns the files named by args. A single directory argument
// expands to the regular, non-hidden files inside it, sorted by name.
// Otherwise every argument must be an existing file.
func ExpandPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no files given")
	}
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return dirFiles(args[0])
		}
	}

	paths := make([]string, len(args))
	for i, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("'%s' is a directory; give either one "+
				"directory or a list of files", arg)
		}
		paths[i] = arg
	}
	return paths, nil
}

func dirFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("directory '%s' contains no files", dir)
	}
	sort.Strings(paths)
	return paths, nil
}
