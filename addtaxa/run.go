package addtaxa

import (
	"fmt"

	"github.com/TuftsBCB/seq"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/TuftsBCB/supermatrix/alignio"
	"github.com/TuftsBCB/supermatrix/search"
	"github.com/TuftsBCB/supermatrix/supermatrix"
)

// Result is the outcome of a run.
type Result struct {
	Matrix     *supermatrix.Supermatrix
	Partitions supermatrix.Table
	Genes      []GeneResult
}

// Failed returns the genes that could not be extended. Their original
// alignments are part of the result, padded for the new taxa.
func (r *Result) Failed() []GeneResult {
	var failed []GeneResult
	for _, g := range r.Genes {
		if g.Err != nil {
			failed = append(failed, g)
		}
	}
	return failed
}

// GeneResult is the outcome of a run for one gene.
type GeneResult struct {
	Gene string

	// Block is the extended alignment, or the input alignment if the gene
	// could not be extended. It is not padded.
	Block *supermatrix.Block

	EValue    float64
	MinLength int

	// Hits are the selected hits, in the order they were given to the
	// aligner, and Names the rows they were added as.
	Hits  []search.Hit
	Names []string

	// Paths of the files written for the gene. Empty when not written.
	Profile   string
	Unaligned string
	Alignment string
	Tree      string

	// Err is set when a step failed for the whole gene. Warnings are
	// failures that only affected part of it (one taxon's search, the
	// tree).
	Err      error
	Warnings []error
}

// geneRun is the working state of one gene. Each is only touched by one
// goroutine at a time.
type geneRun struct {
	GeneResult
	input      *supermatrix.Block
	candidates [][]search.Hit
	taken      map[string]bool
	log        log.FieldLogger
}

func (g *geneRun) fail(err error) {
	g.Err = err
	g.Block = g.input
	g.log.Warnf("gene kept without new taxa: %s", err)
}

func (g *geneRun) warn(err error) {
	g.Warnings = append(g.Warnings, err)
	g.log.Warn(err)
}

// Run extends blocks (one per gene, in partition order) with the proteins
// of taxa and assembles the result. style is the partition style of the
// returned table.
//
// Tool failures only affect the gene (or the taxon's search of the gene)
// they happen in and are reported in Result.Genes. An error is returned
// only for bad input or when the working directories or a taxon's protein
// file cannot be used.
func (conf Config) Run(
	blocks []*supermatrix.Block,
	style supermatrix.Style,
	taxa []Taxon,
) (*Result, error) {
	logger := conf.Log
	if logger == nil {
		logger = discardLogger()
	}
	existing, err := existingTaxa(blocks)
	if err != nil {
		return nil, err
	}
	for _, t := range taxa {
		for _, name := range existing {
			if name == t.Label {
				return nil, fmt.Errorf("new taxon '%s' is already in the "+
					"alignment", t.Label)
			}
		}
	}
	if err := conf.Layout.Create(); err != nil {
		return nil, err
	}

	taken := takenNames(existing, taxa)
	genes := make([]*geneRun, len(blocks))
	for i, b := range blocks {
		genes[i] = &geneRun{
			GeneResult: GeneResult{Gene: b.Gene, Block: b},
			input:      b,
			candidates: make([][]search.Hit, len(taxa)),
			taken:      taken,
			log:        logger.WithField("gene", b.Gene),
		}
	}

	logger.Infof("building profiles for %s genes",
		humanize.Comma(int64(len(genes))))
	conf.each(genes, conf.prepare)

	for ti, taxon := range taxa {
		proteins, err := taxon.Proteins()
		if err != nil {
			return nil, err
		}
		logger.WithField("taxon", taxon.Label).Infof(
			"searching %s proteins", humanize.Comma(int64(len(proteins))))
		conf.each(genes, func(g *geneRun) {
			if g.Err == nil {
				conf.searchTaxon(g, ti, taxon, proteins)
			}
		})
	}

	logger.Infof("aligning new sequences")
	conf.each(genes, func(g *geneRun) {
		if g.Err == nil {
			conf.extend(g)
		}
		if conf.OnGene != nil {
			conf.OnGene(g.Gene, g.Err)
		}
	})

	return conf.assemble(genes, existing, style, taxa)
}

// each calls f for every gene, running up to conf.Jobs at a time.
func (conf Config) each(genes []*geneRun, f func(g *geneRun)) {
	var group errgroup.Group
	jobs := conf.Jobs
	if jobs < 1 {
		jobs = 1
	}
	group.SetLimit(jobs)
	for _, g := range genes {
		g := g
		group.Go(func() error {
			f(g)
			return nil
		})
	}
	group.Wait()
}

// prepare writes the gene's alignment, builds its profile and settles its
// E-value and length thresholds.
func (conf Config) prepare(g *geneRun) {
	aln := conf.Layout.blockPath(g.Gene)
	if err := alignio.WriteBlockFile(aln, occupied(g.input), alignio.Fasta); err != nil {
		g.fail(err)
		return
	}
	g.Profile = conf.Layout.profilePath(g.Gene)
	if err := conf.Builder.Run(aln, g.Profile); err != nil {
		g.fail(err)
		return
	}

	median := search.Median(g.input.UngappedLengths())
	g.MinLength = search.MinLength(median, conf.LengthFraction)

	if conf.EValue > 0 {
		g.EValue = conf.EValue
		return
	}
	selfSeqs := conf.Layout.selfSeqsPath(g.Gene)
	if err := writeFasta(selfSeqs, g.input.Ungapped()); err != nil {
		g.fail(err)
		return
	}
	table, err := conf.Searcher.Run(
		g.Profile, selfSeqs, conf.Layout.selfTablePath(g.Gene), "")
	if err != nil {
		g.fail(fmt.Errorf("could not calibrate E-value: %w", err))
		return
	}
	g.EValue = search.SelfEValue(table, conf.EValueCorrection)
	g.log.Debugf("E-value threshold %.3e, minimum length %d",
		g.EValue, g.MinLength)
}

// searchTaxon finds the candidates of one taxon for the gene.
func (conf Config) searchTaxon(
	g *geneRun, ti int, taxon Taxon, proteins map[string][]seq.Residue,
) {
	tblout := conf.Layout.hitsPath(taxon.Label, g.Gene)
	domtblout := ""
	if conf.DomainTables {
		domtblout = conf.Layout.domainHitsPath(taxon.Label, g.Gene)
	}
	table, err := conf.Searcher.Run(g.Profile, taxon.Path, tblout, domtblout)
	if err != nil {
		g.warn(fmt.Errorf("search of '%s' failed: %w", taxon.Label, err))
		return
	}

	hits := search.FromTable(taxon.Label, g.Gene, table)
	for i := range hits {
		if residues, ok := proteins[hits[i].Target]; ok {
			hits[i].Residues = residues
			hits[i].Length = len(residues)
		}
	}
	filter := search.Filter{
		EValue:        g.EValue,
		ScoreFraction: conf.ScoreFraction,
		MinLength:     g.MinLength,
	}
	kept := make([]search.Hit, 0, len(hits))
	for _, h := range filter.Apply(hits) {
		if h.Residues == nil {
			g.warn(fmt.Errorf("hit '%s' is not in the proteins of '%s'",
				h.Target, taxon.Label))
			continue
		}
		kept = append(kept, h)
	}
	g.candidates[ti] = kept
	g.log.WithField("taxon", taxon.Label).Debugf(
		"%s of %s hits kept (best score %.1f)",
		humanize.Comma(int64(len(kept))), humanize.Comma(int64(len(hits))),
		table.MaxScore())
}

// extend selects the gene's new sequences and aligns them.
func (conf Config) extend(g *geneRun) {
	var hits []search.Hit
	for _, c := range g.candidates {
		hits = append(hits, c...)
	}
	g.Hits = conf.Selection.Select(hits)
	if len(g.Hits) == 0 {
		g.log.Info("no hits in any new taxon")
		return
	}
	g.Names = nameHits(g.Hits, g.taken)

	added := make([]seq.Sequence, len(g.Hits))
	for i, h := range g.Hits {
		added[i] = h.Sequence(g.Names[i])
	}

	g.Unaligned = conf.Layout.unalignedPath(g.Gene)
	g.Alignment = conf.Layout.alignmentPath(g.Gene)
	var err error
	if conf.NoTrim {
		seqs := append(g.input.Ungapped(), added...)
		if err = writeFasta(g.Unaligned, seqs); err == nil {
			err = conf.Aligner.Align(g.Unaligned, g.Alignment)
		}
	} else {
		if err = writeFasta(g.Unaligned, added); err == nil {
			err = conf.Aligner.AddLong(conf.Layout.blockPath(g.Gene),
				g.Unaligned, g.Alignment, true)
		}
	}
	if err != nil {
		g.fail(err)
		return
	}

	m, err := alignio.ReadFile(g.Alignment, alignio.Fasta)
	if err != nil {
		g.fail(err)
		return
	}
	extended := supermatrix.BlockOf(g.Gene, m)
	if err := checkExtended(g.input, extended, g.Names, !conf.NoTrim); err != nil {
		g.fail(fmt.Errorf("%s: %w", g.Alignment, err))
		return
	}
	g.Block = extended
	g.log.Infof("added %s sequences (%s columns)",
		humanize.Comma(int64(len(g.Hits))), humanize.Comma(int64(extended.Len())))

	if conf.Trees != nil {
		tree := conf.Layout.treePath(g.Gene)
		if err := conf.Trees.Run(g.Alignment, tree); err != nil {
			g.warn(fmt.Errorf("could not build tree: %w", err))
		} else {
			g.Tree = tree
		}
	}
}

// assemble concatenates the genes. Rows are the existing taxa followed by
// the rows of each new taxon in input order. A new taxon has as many rows
// as its most hits in any gene, and at least one, named as by nameHits.
func (conf Config) assemble(
	genes []*geneRun,
	existing []string,
	style supermatrix.Style,
	taxa []Taxon,
) (*Result, error) {
	rows := make(map[string]int, len(taxa))
	for _, g := range genes {
		counts := make(map[string]int)
		for _, h := range g.Hits {
			counts[h.Taxon]++
		}
		for label, n := range counts {
			if n > rows[label] {
				rows[label] = n
			}
		}
	}

	taken := takenNames(existing, taxa)
	names := append([]string{}, existing...)
	for _, t := range taxa {
		n := rows[t.Label]
		if n == 0 {
			n = 1
		}
		names = append(names, rowNames(t.Label, n, taken)...)
	}

	result := &Result{Genes: make([]GeneResult, len(genes))}
	blocks := make([]*supermatrix.Block, len(genes))
	for i, g := range genes {
		result.Genes[i] = g.GeneResult
		blocks[i] = g.Block
	}
	m, table, err := supermatrix.Assemble(blocks, names, style, conf.Models)
	if err != nil {
		return nil, err
	}
	result.Matrix, result.Partitions = m, table
	return result, nil
}

// existingTaxa returns the taxa of all blocks in order of first appearance.
// Gene names must be unique.
func existingTaxa(blocks []*supermatrix.Block) ([]string, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no alignments to extend")
	}
	var names []string
	seenTaxa := make(map[string]bool)
	seenGenes := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		if seenGenes[b.Gene] {
			return nil, fmt.Errorf("duplicate gene '%s'", b.Gene)
		}
		seenGenes[b.Gene] = true
		for _, name := range b.Names() {
			if !seenTaxa[name] {
				seenTaxa[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}
