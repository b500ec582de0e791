package merge

import (
	"fmt"

	"github.com/mr-c/circlator/contig"
	"github.com/mr-c/circlator/nucmer"
	"github.com/mr-c/circlator/utils"
	log "github.com/sirupsen/logrus"
)

// segment is one piece of a spliced contig: bases [from, to) of the
// oriented source copied to offset at.
type segment struct {
	src      string
	qry      bool
	from, to int
	at       int
	reversed bool
}

// Spliced is the result of splicing one join. The sequence is given in the
// bridging contig's orientation and named after the left contig.
type Spliced struct {
	Name    string
	Removed string
	Qry     string
	Seq     []byte
	// Direct is set when the two original contigs overlap each other and no
	// bridging contig base is used.
	Direct bool
	// Bridge is the hit of the bridging contig to the new contig, spanning
	// both joined hits.
	Bridge nucmer.Hit
	Join   Join

	segments []segment
}

func orient(seq []byte, h nucmer.Hit) ([]byte, bool) {
	if h.SameStrand() {
		return seq, false
	}
	return utils.ReverseComplement(seq), true
}

// orientedRange is the hit range on the reference once the reference is
// turned to the bridging contig's orientation.
func orientedRange(h nucmer.Hit) (start, end int) {
	if h.SameStrand() {
		return h.RefStart, h.RefEnd
	}
	return h.RefLen - h.RefEnd + 1, h.RefLen - h.RefStart + 1
}

func (sp *Spliced) add(src string, qry bool, seq []byte, from, to int, reversed bool) {
	if to <= from {
		return
	}
	sp.segments = append(sp.segments, segment{src: src, qry: qry, from: from, to: to, at: len(sp.Seq), reversed: reversed})
	sp.Seq = append(sp.Seq, seq[from:to]...)
}

// Splice builds the contig joining the two original contigs of j through
// their common reassembly contig. Each original contig is turned to the
// reassembly contig's orientation first. When the two hits are apart on the
// reassembly contig its bases between them are inserted, otherwise the left
// contig is cut where the right one starts. Hits naming contigs that are no
// longer in the maps give ErrStaleJoin. The maps are not changed.
func Splice(j Join, original, reassembly contig.Map) (*Spliced, error) {
	l, r := j.Left, j.Right
	if r.QryStart < l.QryStart {
		l, r = r, l
	}
	if l.QryName != r.QryName || l.RefName == r.RefName {
		return nil, fmt.Errorf("[Splice] hits %s/%s and %s/%s do not form a join", l.RefName, l.QryName, r.RefName, r.QryName)
	}
	for _, h := range []nucmer.Hit{l, r} {
		if !fresh(h, original, reassembly) {
			return nil, fmt.Errorf("[Splice] %s/%s: %w", h.RefName, h.QryName, ErrStaleJoin)
		}
	}

	q := reassembly[l.QryName]
	oL, lRev := orient(original[l.RefName], l)
	oR, rRev := orient(original[r.RefName], r)
	lStart, lEnd := orientedRange(l)
	rStart, rEnd := orientedRange(r)

	sp := &Spliced{Name: l.RefName, Removed: r.RefName, Qry: l.QryName, Join: Join{Left: l, Right: r}}
	sp.Seq = make([]byte, 0, len(oL)+len(oR)+utils.MaxInt(0, r.QryStart-l.QryEnd))
	if l.QryEnd < r.QryStart {
		sp.add(l.RefName, false, oL, 0, lEnd, lRev)
		sp.add(l.QryName, true, q, l.QryEnd, r.QryStart-1, false)
		sp.add(r.RefName, false, oR, rStart-1, len(oR), rRev)
	} else {
		sp.Direct = true
		cut := utils.ClampInt(lStart-1+r.QryStart-l.QryStart, 0, lEnd)
		sp.add(l.RefName, false, oL, 0, cut, lRev)
		sp.add(r.RefName, false, oR, rStart-1, len(oR), rRev)
	}

	n := len(sp.Seq)
	sp.Bridge = nucmer.Hit{
		RefStart:  lStart,
		RefEnd:    n - (len(oR) - rEnd),
		QryStart:  l.QryStart,
		QryEnd:    r.QryEnd,
		PctID:     l.PctID,
		RefLen:    n,
		QryLen:    l.QryLen,
		RefStrand: nucmer.Plus,
		QryStrand: nucmer.Plus,
		RefName:   sp.Name,
		QryName:   l.QryName,
	}
	if r.PctID < sp.Bridge.PctID {
		sp.Bridge.PctID = r.PctID
	}
	sp.Bridge.HitLenRef = sp.Bridge.RefEnd - sp.Bridge.RefStart + 1
	sp.Bridge.HitLenQry = sp.Bridge.QryEnd - sp.Bridge.QryStart + 1
	log.Debugf("[Splice] %s(%d) + %s(%d) via %s: %d bases, direct: %v\n", l.RefName, len(oL), r.RefName, len(oR), l.QryName, n, sp.Direct)
	return sp, nil
}

// Apply stores the spliced contig under its name and removes the right
// contig from original.
func (sp *Spliced) Apply(original contig.Map) {
	original.Put(sp.Name, sp.Seq)
	original.Delete(sp.Removed)
}

// Lift maps a hit against one of the two joined contigs onto the spliced
// contig. It fails when the hit is not wholly inside a kept segment.
func (sp *Spliced) Lift(h nucmer.Hit) (nucmer.Hit, bool) {
	for _, s := range sp.segments {
		if s.qry || s.src != h.RefName {
			continue
		}
		start, end := h.RefStart, h.RefEnd
		if s.reversed {
			start, end = h.RefLen-h.RefEnd+1, h.RefLen-h.RefStart+1
		}
		if start-1 < s.from || end > s.to {
			continue
		}
		lh := h
		lh.RefName, lh.RefLen = sp.Name, len(sp.Seq)
		lh.RefStart, lh.RefEnd = s.at+start-s.from, s.at+end-s.from
		if s.reversed {
			lh.RefStrand, lh.QryStrand = nucmer.Plus, nucmer.Plus
			if h.SameStrand() {
				lh.QryStrand = nucmer.Minus
			}
		}
		return lh, true
	}
	return h, false
}

// MergePair splices j, applies it to original and removes the bridging
// contig from reassembly.
func MergePair(j Join, original, reassembly contig.Map) (*Spliced, error) {
	sp, err := Splice(j, original, reassembly)
	if err != nil {
		return nil, err
	}
	sp.Apply(original)
	reassembly.Delete(sp.Qry)
	return sp, nil
}
