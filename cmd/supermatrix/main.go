package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TuftsBCB/supermatrix/alignio"
)

var rootCmd = &cobra.Command{
	Use:   "supermatrix",
	Short: "Extend multi-protein supermatrix alignments with new taxa",
	Long: `supermatrix works with concatenated protein alignments (supermatrices)
and their partition files.

add-taxa searches the proteins of new taxa with a profile HMM of every gene,
adds the best hits to each gene's alignment with MAFFT and writes the
extended supermatrix. Genes in which a new taxon has no hit are padded with
gaps.

Alignment formats: ` + strings.Join(alignio.FormatNames(), ", ") + `
`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
