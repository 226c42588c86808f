/*
Package supermatrix provides the data model used to extend a concatenated
multi-gene alignment with new taxa.

A Supermatrix is an ordered set of rows (one per taxon) that all have the
same length. A Table describes how that length is carved into genes: an
ordered list of contiguous, 1-based, inclusive Partitions. Splitting a
Supermatrix along a Table yields one Block per gene; Assemble does the
reverse, padding every taxon that is absent from a gene with gaps.

Partition files come in two styles. The comma style lists coordinates only:

	1:136,137:301,302:455

The RAxML style names each gene (and its substitution model):

	LG, cox1 = 1-136
	WAG, atp6 = 137-301

Both are read by ReadPartitions and written back in the style they were read
in by WritePartitions.
*/
package supermatrix
