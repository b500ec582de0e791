package merge

import (
	"github.com/mr-c/circlator/contig"
	"github.com/mr-c/circlator/nucmer"
	"github.com/mr-c/circlator/utils"
	log "github.com/sirupsen/logrus"
)

// Join is a pair of hits of one bridging reassembly contig to two different
// original contigs. Left lies nearer the bridging contig's start.
type Join struct {
	Left, Right nucmer.Hit
}

// Qry is the bridging contig name.
func (j Join) Qry() string { return j.Left.QryName }

// Gap is the number of bridging contig bases between the two hits, negative
// when the hits overlap on it.
func (j Join) Gap() int {
	return j.Right.QryStart - j.Left.QryEnd - 1
}

func (j Join) Score() int {
	return j.Left.HitLenRef + j.Right.HitLenRef
}

// fresh reports whether h still matches both contig maps.
func fresh(h nucmer.Hit, original, reassembly contig.Map) bool {
	return original.Len(h.RefName) == h.RefLen && reassembly.Len(h.QryName) == h.QryLen
}

func atTerminal(h nucmer.Hit, a nucmer.Axis, tol int) bool {
	return h.AtStart(a, tol) || h.AtEnd(a, tol)
}

// bridgeOrientation checks that l leaves its contig towards the bridging
// contig's middle and r enters its contig from there.
func bridgeOrientation(l, r nucmer.Hit, tol int) bool {
	lok := (l.SameStrand() && l.AtEnd(nucmer.RefAxis, tol)) || (!l.SameStrand() && l.AtStart(nucmer.RefAxis, tol))
	rok := (r.SameStrand() && r.AtStart(nucmer.RefAxis, tol)) || (!r.SameStrand() && r.AtEnd(nucmer.RefAxis, tol))
	return lok && rok
}

// selfCircular reports two different hits of one original contig anchoring
// both ends of the reassembly contig.
func selfCircular(hits []nucmer.Hit, tol int) bool {
	for i, s := range hits {
		if !s.AtStart(nucmer.QryAxis, tol) {
			continue
		}
		for k, e := range hits {
			if k != i && e != s && e.AtEnd(nucmer.QryAxis, tol) {
				return true
			}
		}
	}
	return false
}

// FindJoin looks for one join among the hits of a single reassembly contig.
// Hits are filtered by length, identity and against the current maps; each
// original contig keeps its longest hit touching both its own terminal region
// and the reassembly contig's. An original contig anchoring both ends of the
// reassembly contig is a circularisation case and never joined. ok is false
// when no consistent pair exists.
func FindJoin(cfg Config, hits []nucmer.Hit, original, reassembly contig.Map) (j Join, ok bool) {
	byRef := make(map[string][]nucmer.Hit)
	var order []string
	for _, h := range nucmer.Filter(hits, cfg.MinNucmerLength, cfg.MinNucmerIdentity) {
		if !fresh(h, original, reassembly) {
			continue
		}
		if !atTerminal(h, nucmer.QryAxis, cfg.QryEndTolerance) || !atTerminal(h, nucmer.RefAxis, cfg.RefEndTolerance) {
			continue
		}
		if _, seen := byRef[h.RefName]; !seen {
			order = append(order, h.RefName)
		}
		byRef[h.RefName] = append(byRef[h.RefName], h)
	}

	var cands []nucmer.Hit
	for _, ref := range order {
		if selfCircular(byRef[ref], cfg.QryEndTolerance) {
			log.Debugf("[FindJoin] %s anchors both ends of %s, left to circularisation\n", ref, byRef[ref][0].QryName)
			continue
		}
		h, _ := nucmer.LongestHit(byRef[ref])
		cands = append(cands, h)
	}
	if len(cands) < 2 {
		return j, false
	}

	var start, end []nucmer.Hit
	for _, h := range cands {
		if h.AtStart(nucmer.QryAxis, cfg.QryEndTolerance) {
			start = append(start, h)
		}
		if h.AtEnd(nucmer.QryAxis, cfg.QryEndTolerance) {
			end = append(end, h)
		}
	}
	start, end = nucmer.RemoveRedundant(start, end, nucmer.QryAxis)

	var best Join
	for _, l := range start {
		for _, r := range end {
			if l.RefName == r.RefName || l.QryStart >= r.QryStart || l.QryEnd >= r.QryEnd {
				continue
			}
			if !bridgeOrientation(l, r, cfg.RefEndTolerance) {
				continue
			}
			c := Join{Left: l, Right: r}
			if !ok || better(cfg.PairSelection, c, best) {
				best, ok = c, true
			}
		}
	}
	if ok {
		log.Debugf("[FindJoin] %s joins %s and %s, gap %d\n", best.Qry(), best.Left.RefName, best.Right.RefName, best.Gap())
	}
	return best, ok
}

// better reports whether c beats the current best pair. Equal pairs keep
// the earlier one.
func better(selection string, c, best Join) bool {
	if selection == SelectLongest {
		return c.Score() > best.Score()
	}
	cg, bg := utils.AbsInt(c.Gap()), utils.AbsInt(best.Gap())
	if cg != bg {
		return cg < bg
	}
	return c.Score() > best.Score()
}
