package addtaxa

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StampFormat is the layout of the timestamp that prefixes the working
// directories of a run.
const StampFormat = "20060102-150405"

// Stamp formats t for use with NewLayout.
func Stamp(t time.Time) string {
	return t.Format(StampFormat)
}

// Layout names the directories a run writes to.
type Layout struct {
	// NewTaxa receives the unaligned candidates, new alignments and trees
	// of every gene.
	NewTaxa string

	// Hits receives the hmmsearch tables of every taxon against every gene.
	Hits string

	// SelfSearch receives the ungapped sequences and tables used to
	// calibrate E-value thresholds.
	SelfSearch string

	// Partitions receives each gene's input alignment and its profile.
	Partitions string
}

// NewLayout returns the default layout under root: timestamped
// '<stamp>_new_taxa', '<stamp>_hmm_hits' and '<stamp>_hmm_vs_self'
// directories, and a 'partitions' directory shared between runs.
func NewLayout(root, stamp string) Layout {
	return Layout{
		NewTaxa:    filepath.Join(root, stamp+"_new_taxa"),
		Hits:       filepath.Join(root, stamp+"_hmm_hits"),
		SelfSearch: filepath.Join(root, stamp+"_hmm_vs_self"),
		Partitions: filepath.Join(root, "partitions"),
	}
}

func (l Layout) dirs() []string {
	return []string{l.NewTaxa, l.Hits, l.SelfSearch, l.Partitions}
}

// Create makes every directory of the layout. Existing directories are
// reused; a path that exists as anything else is an error.
func (l Layout) Create() error {
	for _, dir := range l.dirs() {
		if len(dir) == 0 {
			return fmt.Errorf("layout has an empty directory: %+v", l)
		}
		info, err := os.Stat(dir)
		switch {
		case err == nil && !info.IsDir():
			return fmt.Errorf("cannot create directory '%s': a file with "+
				"that name exists", dir)
		case err == nil:
			continue
		case !os.IsNotExist(err):
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (l Layout) blockPath(gene string) string {
	return filepath.Join(l.Partitions, gene+".aln")
}

func (l Layout) profilePath(gene string) string {
	return filepath.Join(l.Partitions, gene+".hmm")
}

func (l Layout) selfSeqsPath(gene string) string {
	return filepath.Join(l.SelfSearch, gene+"_no_gaps.fasta")
}

func (l Layout) selfTablePath(gene string) string {
	return filepath.Join(l.SelfSearch, gene+"_self.tab")
}

func (l Layout) hitsPath(taxon, gene string) string {
	return filepath.Join(l.Hits, taxon+"_"+gene+".tab")
}

func (l Layout) domainHitsPath(taxon, gene string) string {
	return filepath.Join(l.Hits, taxon+"_"+gene+".domtab")
}

func (l Layout) unalignedPath(gene string) string {
	return filepath.Join(l.NewTaxa, gene+".fasta")
}

func (l Layout) alignmentPath(gene string) string {
	return filepath.Join(l.NewTaxa, gene+".aln")
}

func (l Layout) treePath(gene string) string {
	return filepath.Join(l.NewTaxa, gene+".tree")
}
