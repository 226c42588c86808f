package main

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TuftsBCB/supermatrix/alignio"
	"github.com/TuftsBCB/supermatrix/cmd/util"
	"github.com/TuftsBCB/supermatrix/supermatrix"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a supermatrix into one alignment per partition",
	Long: `Split a supermatrix into one alignment per partition

Each partition is written to '<dir>/<name><ext>', where name is the
partition's name (or its columns, e.g. '1_136') and ext depends on the
output format.
`,
	Run: func(cmd *cobra.Command, args []string) {
		util.FlagInit(cmd)

		alnPath := util.GetFlagString(cmd, "alignment")
		partPath := util.GetFlagString(cmd, "partition")
		dir := util.GetFlagString(cmd, "out-dir")
		if len(alnPath) == 0 || len(partPath) == 0 {
			util.Fatalf("Both an alignment (-a) and a partition file (-i) " +
				"are required.")
		}
		format := util.Format(util.GetFlagString(cmd, "format"))
		outFormat := format
		if name := util.GetFlagString(cmd, "out-format"); len(name) > 0 {
			outFormat = util.Format(name)
		}

		m := util.AlignmentRead(alnPath, format)
		t := util.PartitionsRead(partPath, m)
		blocks, err := supermatrix.Split(m, t)
		util.Assert(err, "Could not split '%s'", alnPath)

		util.Assert(os.MkdirAll(dir, 0755), "Could not create '%s'", dir)
		for _, b := range blocks {
			path := filepath.Join(dir, b.Gene+outFormat.Ext())
			util.Assert(alignio.WriteBlockFile(path, b, outFormat))
			log.Debugf("wrote '%s' (%d columns)", path, b.Len())
		}
		log.Infof("wrote %d partitions to '%s'", len(blocks), dir)
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)

	f := splitCmd.Flags()
	f.StringP("alignment", "a", "", "The supermatrix.")
	f.StringP("partition", "i", "", "The partition file of the supermatrix.")
	f.StringP("format", "f", "fasta", "The format of the supermatrix.")
	f.StringP("out-format", "F", "",
		"The format of the partition alignments (default: the input format).")
	f.StringP("out-dir", "o", "partitions", "The output directory.")

	util.FlagUse(splitCmd, "config", "verbose", "quiet")
}
