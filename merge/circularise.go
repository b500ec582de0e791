package merge

import (
	"fmt"

	"github.com/mr-c/circlator/contig"
	"github.com/mr-c/circlator/nucmer"
	"github.com/mr-c/circlator/utils"
	log "github.com/sirupsen/logrus"
)

const (
	MethodCircularNode = "circular-node"
	MethodHits         = "hits"
)

// CircularCandidate is a replacement sequence for one original contig made
// from one reassembly contig.
type CircularCandidate struct {
	Ref, Qry string
	Seq      []byte
	Method   string
	// Start and End are the hits used by the hits method.
	Start, End *nucmer.Hit
}

// CircularNodeContig returns a copy of the first circular reassembly node
// that one of refHits covers well enough, in hit order.
func CircularNodeContig(cfg Config, refHits []nucmer.Hit, circular contig.NameSet, reassembly contig.Map) (seq []byte, qry string, ok bool) {
	for _, h := range refHits {
		if !circular.Has(h.QryName) || !reassembly.Has(h.QryName) || h.QryLen <= 0 {
			continue
		}
		if h.PctID < cfg.MinNucmerIdentity || 100*float64(h.HitLenQry)/float64(h.QryLen) < cfg.MinSpadesCircularPercent {
			continue
		}
		node := reassembly[h.QryName]
		return append([]byte(nil), node...), h.QryName, true
	}
	return nil, "", false
}

// canCircularise checks that the two hits run off opposite ends of the
// reassembly contig the way a closed circle does: on the reassembly the hit
// at the contig end comes first when forward, last when reversed.
func canCircularise(start, end nucmer.Hit, tol int) bool {
	switch {
	case start.SameStrand() && end.SameStrand():
		return start.AtEnd(nucmer.QryAxis, tol) && end.AtStart(nucmer.QryAxis, tol) &&
			end.QryStart < start.QryStart && end.QryEnd < start.QryEnd
	case !start.SameStrand() && !end.SameStrand():
		return start.AtStart(nucmer.QryAxis, tol) && end.AtEnd(nucmer.QryAxis, tol) &&
			start.QryStart < end.QryStart && start.QryEnd < end.QryEnd
	}
	return false
}

// FindCircularHits looks, for one original contig, for a reassembly contig
// with one hit anchoring the contig start and another anchoring its end so
// that the reassembly contig closes the circle. The best combined length
// wins, queries taken in sorted order.
func FindCircularHits(cfg Config, refHits []nucmer.Hit) (start, end nucmer.Hit, ok bool) {
	byQry := nucmer.GroupByQuery(nucmer.Filter(refHits, cfg.MinNucmerLength, cfg.MinNucmerIdentity))
	best := -1
	for _, q := range nucmer.SortedKeys(byQry) {
		var sl, el []nucmer.Hit
		for _, h := range byQry[q] {
			if h.AtStart(nucmer.RefAxis, cfg.RefEndTolerance) {
				sl = append(sl, h)
			}
			if h.AtEnd(nucmer.RefAxis, cfg.RefEndTolerance) {
				el = append(el, h)
			}
		}
		sl, el = nucmer.RemoveRedundant(sl, el, nucmer.RefAxis)
		s, sok := nucmer.LongestHit(sl)
		e, eok := nucmer.LongestHit(el)
		if !sok || !eok || s == e || !canCircularise(s, e, cfg.QryEndTolerance) {
			continue
		}
		if score := s.HitLenRef + e.HitLenRef; score > best {
			start, end, best, ok = s, e, score, true
		}
	}
	return
}

// Circularise builds the linear form of the circle closed by start (hit at
// the original contig start) and end (hit at its end). When the hits are
// apart on the original contig its middle is kept and the reassembly bases
// across the junction are appended. When they meet, the reassembly contig
// spans the whole circle: its covered part is taken in the original's
// orientation and the duplicated junction trimmed off.
func Circularise(start, end nucmer.Hit, original, reassembly contig.Map) ([]byte, error) {
	if start.RefName != end.RefName || start.QryName != end.QryName {
		return nil, fmt.Errorf("[Circularise] hits %s/%s and %s/%s name different contigs", start.RefName, start.QryName, end.RefName, end.QryName)
	}
	if !fresh(start, original, reassembly) || !fresh(end, original, reassembly) {
		return nil, fmt.Errorf("[Circularise] %s/%s: %w", start.RefName, start.QryName, ErrStaleJoin)
	}
	ref, q := original[start.RefName], reassembly[start.QryName]
	forward := start.SameStrand()

	if start.RefEnd < end.RefStart {
		lo, hi := end.QryStart-1, start.QryEnd
		if !forward {
			lo, hi = start.QryStart-1, end.QryEnd
		}
		if lo >= hi {
			return nil, fmt.Errorf("[Circularise] %s/%s: hits out of circle order on the reassembly: %w", start.RefName, start.QryName, ErrDegenerateCircle)
		}
		seq := append([]byte(nil), ref[start.RefEnd:end.RefStart-1]...)
		if forward {
			seq = append(seq, q[lo:hi]...)
		} else {
			seq = append(seq, utils.ReverseComplement(q[lo:hi])...)
		}
		return seq, nil
	}

	lo := utils.MinInt(start.QryStart, end.QryStart) - 1
	hi := utils.MaxInt(start.QryEnd, end.QryEnd)
	seq := append([]byte(nil), q[lo:hi]...)
	if !forward {
		seq = utils.ReverseComplement(seq)
	}
	trim := start.RefEnd - end.RefStart + 1
	if trim >= len(seq) {
		return nil, fmt.Errorf("[Circularise] junction of %d bases covers the whole %s: %w", trim, start.QryName, ErrDegenerateCircle)
	}
	log.Debugf("[Circularise] %s spans %s, trimmed %d junction bases\n", start.QryName, start.RefName, trim)
	return seq[:len(seq)-trim], nil
}

// FindCircularisation tries the circular node path first, then the hit
// geometry. ok is false when the contig stays as it is; hits that anchor
// both ends without closing a circle also give an error wrapping
// ErrDegenerateCircle, which callers skip.
func FindCircularisation(cfg Config, ref string, refHits []nucmer.Hit, circular contig.NameSet, original, reassembly contig.Map) (c CircularCandidate, ok bool, err error) {
	if seq, qry, found := CircularNodeContig(cfg, refHits, circular, reassembly); found {
		return CircularCandidate{Ref: ref, Qry: qry, Seq: seq, Method: MethodCircularNode}, true, nil
	}
	start, end, found := FindCircularHits(cfg, refHits)
	if !found {
		return c, false, nil
	}
	seq, err := Circularise(start, end, original, reassembly)
	if err != nil {
		return CircularCandidate{Ref: ref, Qry: start.QryName}, false, err
	}
	return CircularCandidate{Ref: ref, Qry: start.QryName, Seq: seq, Method: MethodHits, Start: &start, End: &end}, true, nil
}
