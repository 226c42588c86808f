package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TuftsBCB/supermatrix/addtaxa"
	"github.com/TuftsBCB/supermatrix/alignio"
	"github.com/TuftsBCB/supermatrix/cmd/util"
	"github.com/TuftsBCB/supermatrix/search"
	"github.com/TuftsBCB/supermatrix/supermatrix"
)

var addTaxaCmd = &cobra.Command{
	Use:   "add-taxa",
	Short: "Add the proteins of new taxa to a supermatrix",
	Long: `Add the proteins of new taxa to a supermatrix

The input is either one supermatrix with its partition file (-a aln -i
partition), or one alignment per gene (-a gene1.aln,gene2.aln or -a dir).
Each new taxon is a FASTA file of proteins (-t), optionally gzipped. Taxa
are labelled with their file names unless -T gives the labels.

For every gene, hmmbuild builds a profile that hmmsearch searches against
each taxon. Hits are kept when their E-value is below the threshold (by
default calibrated from a search of the profile against the gene's own
sequences), their score is above a fraction of the best score and they are
long enough. The selected hits are added to the gene with 'mafft --addlong'.

Intermediate files go to timestamped directories in the current directory.
`,
	Run: func(cmd *cobra.Command, args []string) {
		util.FlagInit(cmd)

		alignments := append(util.GetFlagStringSlice(cmd, "alignments"), args...)
		partitionFile := util.GetFlagString(cmd, "partition")
		format := util.Format(util.GetFlagString(cmd, "format"))
		outFormat := format
		if name := util.GetFlagString(cmd, "out-format"); len(name) > 0 {
			outFormat = util.Format(name)
		}
		output := util.GetFlagString(cmd, "supermatrix")

		if len(alignments) == 0 {
			util.Fatalf("No alignments given (use -a).")
		}

		var blocks []*supermatrix.Block
		style := supermatrix.StyleComma
		var models []string
		if len(partitionFile) > 0 {
			if len(alignments) != 1 {
				util.Fatalf("A partition file (-i) needs exactly one "+
					"supermatrix, but %d alignments were given.", len(alignments))
			}
			m := util.AlignmentRead(alignments[0], format)
			t := util.PartitionsRead(partitionFile, m)
			var err error
			blocks, err = supermatrix.Split(m, t)
			util.Assert(err, "Could not split '%s' with '%s'",
				alignments[0], partitionFile)
			style, models = t.Style, t.Models()
		} else {
			paths, err := alignio.ExpandPaths(alignments)
			util.Assert(err)
			blocks, err = alignio.ReadBlocks(paths, format)
			util.Assert(err)
		}

		taxa, err := addtaxa.TaxaFromArgs(
			util.GetFlagStringSlice(cmd, "taxa"),
			util.GetFlagStringSlice(cmd, "taxa-names"))
		util.Assert(err)
		if len(taxa) == 0 {
			util.Fatalf("No new taxa given (use -t).")
		}

		conf := addTaxaConfig(cmd, models)
		progress := util.NewProgress(len(blocks), "genes")
		conf.OnGene = func(gene string, err error) {
			progress.JobDone(err)
		}

		log.Infof("adding %s taxa to %s genes",
			humanize.Comma(int64(len(taxa))), humanize.Comma(int64(len(blocks))))
		res, err := conf.Run(blocks, style, taxa)
		progress.Close()
		util.Assert(err)

		report(res)
		if len(output) == 0 {
			log.Infof("extended gene alignments are in '%s' (use -U to "+
				"write a supermatrix)", conf.Layout.NewTaxa)
			return
		}
		util.AlignmentWrite(output, res.Matrix, outFormat)
		util.PartitionsWrite(output+".partition.txt", res.Partitions)
		log.Infof("wrote %s taxa, %s columns to '%s'",
			humanize.Comma(int64(res.Matrix.NumTaxa())),
			humanize.Comma(int64(res.Matrix.Len())), output)
	},
}

func init() {
	rootCmd.AddCommand(addTaxaCmd)

	f := addTaxaCmd.Flags()
	f.StringSliceP("alignments", "a", nil,
		"Gene alignments, or one directory of them, or one supermatrix "+
			"when -i is given.")
	f.StringP("partition", "i", "",
		"The partition file of the supermatrix given with -a.")
	f.StringP("format", "f", "fasta", "The format of the input alignments.")
	f.StringP("out-format", "F", "",
		"The format of the output supermatrix (default: the input format).")
	f.StringSliceP("taxa", "t", nil,
		"FASTA files of the proteins of each new taxon, or one directory "+
			"of them.")
	f.StringSliceP("taxa-names", "T", nil,
		"Labels of the new taxa, in the order of -t.")
	f.StringP("supermatrix", "U", "",
		"Where to write the extended supermatrix. Its partitions are "+
			"written to '<path>.partition.txt'.")

	f.Float64P("evalue", "e", 0,
		"The E-value threshold of hits. When 0, it is calibrated for each "+
			"gene by searching the gene's profile against its own sequences.")
	f.Float64("evalue-correction", search.DefaultCorrection,
		"The calibrated threshold is the worst self-search E-value times "+
			"this factor.")
	f.Float64("score-fraction", addtaxa.DefaultConfig.ScoreFraction,
		"Hits must score above this fraction of the best hit's score.")
	f.Float64P("length", "l", addtaxa.DefaultConfig.LengthFraction,
		"Hits must be at least this fraction of the median length of the "+
			"gene's sequences.")
	f.IntP("max-hits", "m", 1,
		"The maximum number of hits added per taxon and gene "+
			"(implies --mode multiple when above 1).")
	f.String("mode", "best", "Hit selection: 'best' or 'multiple'.")
	f.BoolP("no-trim", "r", false,
		"Realign every gene from scratch instead of keeping its columns.")
	f.StringP("hmm-results", "s", "",
		"A file to keep hmmsearch's human readable output of the last "+
			"search in. Requires --jobs 1.")
	f.Bool("no-domains", false,
		"Do not ask hmmsearch for per-domain tables.")

	f.StringP("directory", "d", "new_taxa",
		"Suffix of the directory for new alignments.")
	f.StringP("hmm-dir", "S", "hmm_hits",
		"Suffix of the directory for hmmsearch results.")
	f.StringP("hmm-evalue-dir", "E", "hmm_vs_self",
		"Suffix of the directory for the E-value calibration searches.")
	f.StringP("partition-dir", "I", "partitions",
		"The directory for gene alignments and profiles.")
	f.Bool("trees", false, "Build a tree of every extended gene with FastTree.")
	f.Int("jobs", 1, "The number of genes processed at the same time.")

	util.FlagUse(addTaxaCmd,
		"cpu", "mafft", "hmmbin", "fasttree", "config",
		"verbose", "quiet", "progress")
}

func addTaxaConfig(cmd *cobra.Command, models []string) addtaxa.Config {
	stamp := addtaxa.Stamp(time.Now())
	prefixed := func(flag string) string {
		return stamp + "_" + util.GetFlagString(cmd, flag)
	}

	conf := addtaxa.DefaultConfig
	conf.Layout = addtaxa.Layout{
		NewTaxa:    prefixed("directory"),
		Hits:       prefixed("hmm-dir"),
		SelfSearch: prefixed("hmm-evalue-dir"),
		Partitions: filepath.Clean(util.GetFlagString(cmd, "partition-dir")),
	}

	searcher := util.HMMSearch()
	searcher.Output = util.GetFlagString(cmd, "hmm-results")
	conf.Builder = util.HMMBuild()
	conf.Searcher = searcher
	conf.Aligner = util.Mafft()
	if util.GetFlagBool(cmd, "trees") {
		conf.Trees = util.FastTree()
	}

	conf.EValue = util.GetFlagNonNegativeFloat64(cmd, "evalue")
	conf.EValueCorrection = util.GetFlagNonNegativeFloat64(cmd, "evalue-correction")
	conf.ScoreFraction = util.GetFlagNonNegativeFloat64(cmd, "score-fraction")
	conf.LengthFraction = util.GetFlagNonNegativeFloat64(cmd, "length")
	if conf.ScoreFraction > 1 || conf.LengthFraction > 1 {
		util.Fatalf("--score-fraction and --length must be at most 1.")
	}

	mode, err := search.ParseMode(util.GetFlagString(cmd, "mode"))
	util.Assert(err)
	maxHits := util.GetFlagInt(cmd, "max-hits")
	if maxHits > 1 && !cmd.Flags().Changed("mode") {
		mode = search.Multiple
	}
	conf.Selection = search.Selection{
		Mode:    mode,
		MaxHits: maxHits,
		Group:   search.ByTaxon,
	}

	conf.NoTrim = util.GetFlagBool(cmd, "no-trim")
	conf.DomainTables = !util.GetFlagBool(cmd, "no-domains")
	conf.Models = models
	conf.Jobs = util.GetFlagInt(cmd, "jobs")
	if conf.Jobs < 1 {
		util.Fatalf("--jobs must be at least 1.")
	}
	util.Assert(checkHMMResults(searcher.Output, conf.Jobs))
	conf.Log = log.StandardLogger()
	return conf
}

// checkHMMResults rejects a shared hmmsearch output file when several
// genes are searched at the same time.
func checkHMMResults(path string, jobs int) error {
	if len(path) > 0 && jobs > 1 {
		return fmt.Errorf("--hmm-results '%s' would be written by %d "+
			"searches at once; use --jobs 1", path, jobs)
	}
	return nil
}

func report(res *addtaxa.Result) {
	added := 0
	for _, g := range res.Genes {
		if g.Err == nil {
			added += len(g.Names)
		}
	}
	failed := res.Failed()
	log.Infof("added %s sequences to %s genes",
		humanize.Comma(int64(added)),
		humanize.Comma(int64(len(res.Genes)-len(failed))))
	if len(failed) > 0 {
		names := make([]string, len(failed))
		for i, g := range failed {
			names[i] = g.Gene
		}
		util.Warnf("%s genes were kept without new taxa: %s",
			humanize.Comma(int64(len(failed))), strings.Join(names, ", "))
	}
}
