package alignio

import (
	"bufio"
	"io"

	"github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/supermatrix/supermatrix"
)

func readFasta(r io.Reader) (*supermatrix.Supermatrix, error) {
	br := bufio.NewReader(r)
	if err := expectFastaHeader(br); err != nil {
		return nil, err
	}

	freader := fasta.NewReader(br)
	freader.TrustSequences = true
	seqs, err := freader.ReadAll()
	if err != nil {
		return nil, errorf("%s", err)
	}
	m := supermatrix.New()
	for _, s := range seqs {
		if err := m.Add(s); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// expectFastaHeader checks that the first non-blank byte of br is '>'
// without consuming it. Empty input is an empty alignment.
func expectFastaHeader(br *bufio.Reader) error {
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			br.ReadByte()
		case '>':
			return nil
		default:
			return errorf("expected '>' at the start of a FASTA file "+
				"but found '%c'", b[0])
		}
	}
}

func writeFasta(w io.Writer, m *supermatrix.Supermatrix) error {
	fwriter := fasta.NewWriter(w)
	fwriter.Columns = 0
	for _, row := range m.Rows {
		if err := fwriter.Write(row); err != nil {
			return err
		}
	}
	return fwriter.Flush()
}
