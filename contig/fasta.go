package contig

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/mr-c/circlator/utils"
	log "github.com/sirupsen/logrus"
)

const fastaWidth = 60

// ReadFasta loads every record of r keyed by record ID (the header up to the
// first blank). A repeated ID is an error.
func ReadFasta(r io.Reader) (Map, error) {
	m := make(Map)
	fafp := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))
	for {
		s, err := fafp.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("[ReadFasta] read record %d: %w", len(m)+1, err)
		}
		l := s.(*linear.Seq)
		seq := make([]byte, len(l.Seq))
		for i, v := range l.Seq {
			seq[i] = byte(v)
		}
		if err := m.Add(l.ID, seq); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ReadFastaFile is ReadFasta on a (possibly compressed) file.
func ReadFastaFile(fn string) (Map, error) {
	fp, err := utils.OpenFile(fn)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	m, err := ReadFasta(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	log.Debugf("[ReadFastaFile] loaded %d contigs, %d bases from %s\n", len(m), m.TotalLen(), fn)
	return m, nil
}

// WriteFasta writes m in sorted name order, 60 bases per line.
func WriteFasta(w io.Writer, m Map) error {
	fw := fasta.NewWriter(w, fastaWidth)
	for _, name := range m.Names() {
		seq := m[name]
		ls := make(alphabet.Letters, len(seq))
		for i, b := range seq {
			ls[i] = alphabet.Letter(b)
		}
		if _, err := fw.Write(linear.NewSeq(name, ls, alphabet.DNA)); err != nil {
			return fmt.Errorf("[WriteFasta] write %s: %w", name, err)
		}
	}
	return nil
}

func WriteFastaFile(fn string, m Map) error {
	fp, err := utils.CreateFile(fn)
	if err != nil {
		return err
	}
	if err := WriteFasta(fp, m); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
