package main

import (
	"github.com/spf13/cobra"

	"github.com/TuftsBCB/supermatrix/cmd/util"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an alignment from one format to another",
	Run: func(cmd *cobra.Command, args []string) {
		util.FlagInit(cmd)

		in := util.GetFlagString(cmd, "alignment")
		out := util.GetFlagString(cmd, "output")
		if len(in) == 0 || len(out) == 0 {
			util.Fatalf("Both an input (-a) and an output (-o) are required.")
		}
		m := util.AlignmentRead(in, util.Format(util.GetFlagString(cmd, "format")))
		util.AlignmentWrite(out, m,
			util.Format(util.GetFlagString(cmd, "out-format")))
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	f := convertCmd.Flags()
	f.StringP("alignment", "a", "", "The input alignment.")
	f.StringP("format", "f", "fasta", "The format of the input alignment.")
	f.StringP("output", "o", "", "The output alignment.")
	f.StringP("out-format", "F", "fasta", "The format of the output alignment.")

	util.FlagUse(convertCmd, "config", "verbose", "quiet")
}
