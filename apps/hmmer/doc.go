/*
Package hmmer provides wrappers for running hmmbuild and hmmsearch from
HMMER 3, and readers for the per-target (--tblout) and per-domain
(--domtblout) tables that hmmsearch writes.

As with the other wrappers in apps, only the options needed to build a
profile from an alignment and search it against a set of proteins are
exposed.
*/
package hmmer
