/*
Package alignio reads and writes multiple sequence alignments in the formats
commonly used for supermatrices: aligned FASTA, PHYLIP (strict and relaxed),
Clustal, NEXUS and Stockholm.

Every format has its own typed reader and writer, selected with a Format
value, and all of them produce the same *supermatrix.Supermatrix. Writing a
supermatrix, reading it back and writing it again yields identical bytes.

Residues are never validated or case folded: gap ('-', '.') and
missing-data ('?') symbols survive a read/write cycle unchanged.
*/
package alignio
