package occupancy

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// Write writes the report as an aligned table: one row per taxon with its
// occupancy in every partition, followed by the number of taxa present in
// each partition. Taxa whose overall occupancy is below min are
// highlighted when color output is enabled.
func (r *Report) Write(w io.Writer, min float64) error {
	buf := new(bytes.Buffer)
	tabw := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)

	fmt.Fprint(tabw, "Taxon\tPresent\tResidues\tOccupancy")
	for _, p := range r.Partitions {
		fmt.Fprintf(tabw, "\t%s", p.Name)
	}
	fmt.Fprintln(tabw)
	for i, taxon := range r.Taxa {
		fmt.Fprintf(tabw, "%s\t%d/%d\t%d\t%.3f",
			taxon, r.TaxonPresent(i), len(r.Partitions),
			r.TaxonCount(i), r.TaxonFraction(i))
		for j := range r.Partitions {
			fmt.Fprintf(tabw, "\t%.3f", r.Fraction(i, j))
		}
		fmt.Fprintln(tabw)
	}
	fmt.Fprintf(tabw, "taxa present\t\t\t")
	for j := range r.Partitions {
		fmt.Fprintf(tabw, "\t%d/%d", r.PartitionPresent(j), len(r.Taxa))
	}
	fmt.Fprintln(tabw)
	if err := tabw.Flush(); err != nil {
		return err
	}

	// Color is applied to whole lines after tabwriter has aligned them.
	low := color.New(color.FgRed)
	scanner := bufio.NewScanner(buf)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for lineno := 0; scanner.Scan(); lineno++ {
		line := strings.TrimRight(scanner.Text(), " ")
		taxon := lineno - 1
		if taxon >= 0 && taxon < len(r.Taxa) && r.TaxonFraction(taxon) < min {
			line = low.Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// WriteTSV writes the occupancy fractions as tab separated values with a
// header row of partition names.
func (r *Report) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "taxon")
	for _, p := range r.Partitions {
		fmt.Fprintf(bw, "\t%s", p.Name)
	}
	fmt.Fprint(bw, "\ttotal\n")
	for i, taxon := range r.Taxa {
		fmt.Fprint(bw, taxon)
		for j := range r.Partitions {
			fmt.Fprintf(bw, "\t%.4f", r.Fraction(i, j))
		}
		fmt.Fprintf(bw, "\t%.4f\n", r.TaxonFraction(i))
	}
	return bw.Flush()
}
