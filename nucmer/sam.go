package nucmer

import (
	"fmt"
	"io"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	log "github.com/sirupsen/logrus"
)

var nmTag = sam.NewTag("NM")

type recordReader interface {
	Read() (*sam.Record, error)
}

// LoadSAMHits converts the alignments of a SAM stream (reference = original
// contigs, reads = reassembly contigs) to hits.
func LoadSAMHits(r io.Reader) ([]Hit, error) {
	sr, err := sam.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("[LoadSAMHits] create sam.NewReader err: %w", err)
	}
	return readRecords(sr)
}

func LoadBAMHits(r io.Reader) ([]Hit, error) {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return nil, fmt.Errorf("[LoadBAMHits] create bam.NewReader err: %w", err)
	}
	defer br.Close()
	return readRecords(br)
}

func readRecords(rr recordReader) (hits []Hit, err error) {
	num := 0
	for {
		r, err := rr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		num++
		h, ok, err := RecordToHit(r)
		if err != nil {
			return nil, &ParseError{Line: num, Record: r.Name, Err: err}
		}
		if ok {
			hits = append(hits, h)
		}
	}
	log.Debugf("[readRecords] %d alignment records, %d hits\n", num, len(hits))
	return hits, nil
}

// RecordToHit converts one mapped record. Unmapped and secondary records are
// skipped (ok == false). Query coordinates are given in the orientation the
// read had before mapping, so a reverse strand record yields QryStrand Minus.
func RecordToHit(r *sam.Record) (h Hit, ok bool, err error) {
	if r.Flags&(sam.Unmapped|sam.Secondary) != 0 || r.Ref == nil {
		return h, false, nil
	}
	var lead, trail, aligned, refLen, cols, diff int
	exact := false
	for _, co := range r.Cigar {
		switch co.Type() {
		case sam.CigarMatch:
			aligned += co.Len()
			refLen += co.Len()
			cols += co.Len()
		case sam.CigarEqual, sam.CigarMismatch:
			exact = true
			if co.Type() == sam.CigarMismatch {
				diff += co.Len()
			}
			aligned += co.Len()
			refLen += co.Len()
			cols += co.Len()
		case sam.CigarInsertion:
			aligned += co.Len()
			cols += co.Len()
			diff += co.Len()
		case sam.CigarDeletion:
			refLen += co.Len()
			cols += co.Len()
			diff += co.Len()
		case sam.CigarSkipped:
			refLen += co.Len()
		case sam.CigarSoftClipped, sam.CigarHardClipped:
			if aligned == 0 && refLen == 0 {
				lead += co.Len()
			} else {
				trail += co.Len()
			}
		}
	}
	if aligned == 0 || refLen == 0 {
		return h, false, nil
	}

	h.RefName, h.QryName = r.Ref.Name(), r.Name
	h.RefLen, h.QryLen = r.Ref.Len(), lead+aligned+trail
	h.RefStart, h.RefEnd, h.RefStrand = r.Pos+1, r.Pos+refLen, Plus
	h.HitLenRef, h.HitLenQry = refLen, aligned
	if r.Flags&sam.Reverse != 0 {
		h.QryStart, h.QryEnd, h.QryStrand = trail+1, trail+aligned, Minus
	} else {
		h.QryStart, h.QryEnd, h.QryStrand = lead+1, lead+aligned, Plus
	}
	if h.RefEnd > h.RefLen {
		return h, false, fmt.Errorf("alignment end %d beyond reference length %d of %s", h.RefEnd, h.RefLen, h.RefName)
	}

	h.PctID = 100
	if aux := r.AuxFields.Get(nmTag); aux != nil {
		nm, e := auxInt(aux.Value())
		if e != nil {
			return h, false, e
		}
		h.PctID = 100 * float64(cols-nm) / float64(cols)
	} else if exact {
		h.PctID = 100 * float64(cols-diff) / float64(cols)
	}
	if h.PctID < 0 {
		h.PctID = 0
	}
	return h, true, nil
}

func auxInt(v interface{}) (int, error) {
	switch x := v.(type) {
	case int8:
		return int(x), nil
	case uint8:
		return int(x), nil
	case int16:
		return int(x), nil
	case uint16:
		return int(x), nil
	case int32:
		return int(x), nil
	case uint32:
		return int(x), nil
	}
	return 0, fmt.Errorf("[auxInt] unknown type of NM: %T", v)
}
