package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/TuftsBCB/supermatrix/cmd/util"
	"github.com/TuftsBCB/supermatrix/occupancy"
)

var occupancyCmd = &cobra.Command{
	Use:   "occupancy",
	Short: "Report the occupancy of every taxon in every partition",
	Long: `Report the occupancy of every taxon in every partition

Occupancy is the fraction of a partition's columns in which a taxon has a
residue. The table is written to stdout; taxa whose overall occupancy is
below --min are highlighted. Without a partition file, the whole alignment
is one partition.
`,
	Run: func(cmd *cobra.Command, args []string) {
		util.FlagInit(cmd)

		alnPath := util.GetFlagString(cmd, "alignment")
		if len(alnPath) == 0 {
			if len(args) != 1 {
				util.Fatalf("Expected one alignment (use -a).")
			}
			alnPath = args[0]
		}
		m := util.AlignmentRead(alnPath,
			util.Format(util.GetFlagString(cmd, "format")))
		t := util.PartitionsRead(util.GetFlagString(cmd, "partition"), m)

		report, err := occupancy.Compute(m, t)
		util.Assert(err, "Could not compute the occupancy of '%s'", alnPath)

		out := bufio.NewWriter(os.Stdout)
		if util.GetFlagBool(cmd, "tsv") {
			util.Assert(report.WriteTSV(out))
		} else {
			util.Assert(report.Write(out,
				util.GetFlagNonNegativeFloat64(cmd, "min")))
		}
		util.Assert(out.Flush())

		if pngPath := util.GetFlagString(cmd, "png"); len(pngPath) > 0 {
			f := util.CreateFile(pngPath)
			util.Assert(report.WritePNG(f), "Could not write '%s'", pngPath)
			util.CloseFile(f)
		}
	},
}

func init() {
	rootCmd.AddCommand(occupancyCmd)

	f := occupancyCmd.Flags()
	f.StringP("alignment", "a", "", "The supermatrix.")
	f.StringP("partition", "i", "", "The partition file of the supermatrix.")
	f.StringP("format", "f", "fasta", "The format of the supermatrix.")
	f.Bool("tsv", false, "Write tab separated fractions instead of a table.")
	f.String("png", "", "Also draw the occupancy as a heat map to this PNG file.")
	f.Float64("min", 0.5, "Highlight taxa with an occupancy below this.")

	util.FlagUse(occupancyCmd, "config", "verbose", "quiet")
}
