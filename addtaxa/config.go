/*
Package addtaxa extends a set of per-gene alignments with proteins from new
taxa.

For every gene a profile HMM is built from the existing alignment and
searched against the proteins of each new taxon. The best hits (by default
one per taxon) are added to the gene's alignment with MAFFT, and the
extended genes are concatenated back into a supermatrix in which taxa
without a hit in some gene are padded with gaps.

The external programs are reached through small interfaces, so that the
workflow can be driven by the wrappers in apps or by any other
implementation.
*/
package addtaxa

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/TuftsBCB/supermatrix/apps/hmmer"
	"github.com/TuftsBCB/supermatrix/apps/mafft"
	"github.com/TuftsBCB/supermatrix/search"
)

// ProfileBuilder builds a profile HMM from the alignment at the given path.
// hmmer.HMMBuildConfig satisfies it.
type ProfileBuilder interface {
	Run(alignment, out string) error
}

// Searcher searches a profile against a FASTA file of proteins.
// hmmer.HMMSearchConfig satisfies it.
type Searcher interface {
	Run(profile, seqdb, tblout, domtblout string) (*hmmer.Table, error)
}

// Aligner adds sequences to an alignment, or aligns them from scratch.
// mafft.Config satisfies it.
type Aligner interface {
	AddLong(existing, seqs, out string, keepLength bool) error
	Align(seqs, out string) error
}

// TreeBuilder infers a tree from an alignment. fasttree.Config satisfies it.
type TreeBuilder interface {
	Run(aln, out string) error
}

// Config controls a run. Start from DefaultConfig and set Layout.
type Config struct {
	Layout Layout

	Builder  ProfileBuilder
	Searcher Searcher
	Aligner  Aligner

	// Trees is optional. When set, a tree is built from every extended
	// gene.
	Trees TreeBuilder

	// EValue is the E-value threshold for hits. When zero, each gene's
	// threshold is calibrated by searching its profile against its own
	// ungapped sequences (see search.SelfEValue).
	EValue           float64
	EValueCorrection float64

	// ScoreFraction is relative to the best score of each search.
	ScoreFraction float64

	// LengthFraction is relative to the median ungapped length of each
	// gene's existing sequences.
	LengthFraction float64

	Selection search.Selection

	// When NoTrim is set, each gene is realigned from scratch (existing
	// sequences degapped) instead of adding the new sequences to the
	// existing alignment with its width kept.
	NoTrim bool

	// DomainTables makes each search write a per-domain table as well, so
	// that hits carry their best domain coordinates.
	DomainTables bool

	// Models are the substitution models of the genes, in order. They are
	// carried over to the partition table of the result.
	Models []string

	// Jobs is the number of genes processed at the same time.
	Jobs int

	Log log.FieldLogger

	// OnGene, if set, is called once for every gene when it is finished
	// (whether or not it failed). It may be called from several goroutines.
	OnGene func(gene string, err error)
}

var DefaultConfig = Config{
	Builder:          hmmer.HMMBuildDefault,
	Searcher:         hmmer.HMMSearchDefault,
	Aligner:          mafft.Default,
	Trees:            nil,
	EValue:           0,
	EValueCorrection: search.DefaultCorrection,
	ScoreFraction:    search.DefaultFilter.ScoreFraction,
	LengthFraction:   0.5,
	Selection:        search.DefaultSelection,
	NoTrim:           false,
	DomainTables:     true,
	Jobs:             1,
	Log:              discardLogger(),
}

func discardLogger() log.FieldLogger {
	l := log.New()
	l.Out = io.Discard
	return l
}
