// Package merge joins and circularises original contigs using their
// alignment hits to a reassembly.
package merge

import (
	"errors"
	"fmt"

	"github.com/mr-c/circlator/contig"
	"github.com/mr-c/circlator/nucmer"
	log "github.com/sirupsen/logrus"
)

type EventKind string

const (
	EventCircularised       EventKind = "circularised"
	EventJoined             EventKind = "joined"
	EventSkippedStale       EventKind = "skipped-stale"
	EventAmbiguousCircular  EventKind = "skipped-ambiguous-circular"
	EventDegenerateCircular EventKind = "skipped-degenerate-circular"
	EventKept               EventKind = "kept"
)

// Event records one decision of a run. Ref is the original contig kept or
// changed, Other the original contig merged into it, Qry the reassembly
// contig used.
type Event struct {
	Kind   EventKind `yaml:"kind"`
	Ref    string    `yaml:"ref,omitempty"`
	Other  string    `yaml:"other,omitempty"`
	Qry    string    `yaml:"qry,omitempty"`
	Detail string    `yaml:"detail,omitempty"`
}

// Result reports one run. Contigs is the original map after merging.
type Result struct {
	Contigs      contig.Map
	Removed      []string
	Replaced     []string
	Circularised []string
	Consumed     []string
	Events       []Event
	Fingerprint  uint64
}

type qryState uint8

const (
	unprocessed qryState = iota
	joined
	consumed
)

// Merger runs the circularisation and join stages over two contig maps.
// The maps are changed in place and must not be used elsewhere during Run.
type Merger struct {
	cfg        Config
	original   contig.Map
	reassembly contig.Map
	circular   contig.NameSet

	// circular reassembly nodes claimed by several contigs
	ambiguous contig.NameSet

	events       []Event
	removed      contig.NameSet
	replaced     contig.NameSet
	circularised contig.NameSet
	consumed     contig.NameSet
}

func NewMerger(cfg Config, original, reassembly contig.Map, circular contig.NameSet) *Merger {
	if circular == nil {
		circular = contig.NewNameSet()
	}
	return &Merger{
		cfg:          cfg,
		original:     original,
		reassembly:   reassembly,
		circular:     circular,
		ambiguous:    contig.NewNameSet(),
		removed:      contig.NewNameSet(),
		replaced:     contig.NewNameSet(),
		circularised: contig.NewNameSet(),
		consumed:     contig.NewNameSet(),
	}
}

func (m *Merger) event(e Event) {
	log.Debugf("[Merger] %s ref: %s other: %s qry: %s %s\n", e.Kind, e.Ref, e.Other, e.Qry, e.Detail)
	m.events = append(m.events, e)
}

// checkMaps verifies every hit against the sequences it names.
func (m *Merger) checkMaps(hits []nucmer.Hit) error {
	if err := nucmer.CheckLengths(hits); err != nil {
		return err
	}
	for _, h := range hits {
		if l := m.original.Len(h.RefName); l != h.RefLen {
			return &nucmer.DataConsistencyError{Name: h.RefName, Axis: nucmer.RefAxis, Lengths: lengths(h.RefLen, l)}
		}
		if l := m.reassembly.Len(h.QryName); l != h.QryLen {
			return &nucmer.DataConsistencyError{Name: h.QryName, Axis: nucmer.QryAxis, Lengths: lengths(h.QryLen, l)}
		}
	}
	return nil
}

// lengths lists the hit length and the sequence length, a missing sequence
// left out.
func lengths(hitLen, seqLen int) []int {
	if seqLen < 0 {
		return []int{hitLen}
	}
	if seqLen < hitLen {
		return []int{seqLen, hitLen}
	}
	return []int{hitLen, seqLen}
}

// Run merges using hits keyed by original contig name. Circularisation is
// tried first for every original contig; the remaining hits then drive the
// joins, reassembly contigs taken in sorted order until a pass makes no join.
func (m *Merger) Run(hitsByRef map[string][]nucmer.Hit) (*Result, error) {
	hits := nucmer.Flatten(hitsByRef)
	if err := m.checkMaps(hits); err != nil {
		return nil, fmt.Errorf("[Run] %w", err)
	}
	if err := m.circulariseAll(hitsByRef); err != nil {
		return nil, err
	}

	var rest []nucmer.Hit
	for _, h := range hits {
		if m.circularised.Has(h.RefName) || !m.reassembly.Has(h.QryName) || m.circular.Has(h.QryName) || m.ambiguous.Has(h.QryName) {
			continue
		}
		rest = append(rest, h)
	}
	pool := nucmer.GroupByQuery(rest)
	if err := m.joinAll(pool); err != nil {
		return nil, err
	}

	for _, name := range m.original.Names() {
		if !m.replaced.Has(name) {
			m.event(Event{Kind: EventKept, Ref: name})
		}
	}
	for _, name := range m.reassembly.Names() {
		m.event(Event{Kind: EventKept, Qry: name})
	}
	return m.result(), nil
}

func (m *Merger) circulariseAll(hitsByRef map[string][]nucmer.Hit) error {
	var cands []CircularCandidate
	claims := make(map[string]int)
	for _, ref := range nucmer.SortedKeys(hitsByRef) {
		c, ok, err := FindCircularisation(m.cfg, ref, hitsByRef[ref], m.circular, m.original, m.reassembly)
		if errors.Is(err, ErrDegenerateCircle) {
			m.event(Event{Kind: EventDegenerateCircular, Ref: ref, Qry: c.Qry, Detail: err.Error()})
			continue
		}
		if err != nil {
			return fmt.Errorf("[circulariseAll] %s: %w", ref, err)
		}
		if ok {
			cands = append(cands, c)
			claims[c.Qry]++
		}
	}
	for _, c := range cands {
		if claims[c.Qry] > 1 {
			m.event(Event{Kind: EventAmbiguousCircular, Ref: c.Ref, Qry: c.Qry, Detail: fmt.Sprintf("claimed by %d contigs", claims[c.Qry])})
			m.ambiguous.Add(c.Qry)
			continue
		}
		m.original.Put(c.Ref, c.Seq)
		m.reassembly.Delete(c.Qry)
		m.circularised.Add(c.Ref)
		m.replaced.Add(c.Ref)
		m.consumed.Add(c.Qry)
		m.event(Event{Kind: EventCircularised, Ref: c.Ref, Qry: c.Qry, Detail: fmt.Sprintf("%s, %d bases", c.Method, len(c.Seq))})
	}
	return nil
}

func (m *Merger) joinAll(pool map[string][]nucmer.Hit) error {
	state := make(map[string]qryState, len(pool))
	for pass := 0; pass <= len(pool); pass++ {
		progress := false
		for _, q := range nucmer.SortedKeys(pool) {
			if state[q] != unprocessed {
				continue
			}
			n, err := m.joinQuery(q, pool)
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			progress = true
			state[q] = joined
			m.reassembly.Delete(q)
			delete(pool, q)
			m.consumed.Add(q)
			state[q] = consumed
		}
		if !progress {
			return nil
		}
	}
	log.Warnf("[joinAll] stopped after %d passes without reaching a fixed point\n", len(pool)+1)
	return nil
}

// joinQuery splices joins of one reassembly contig until none is left. Each
// join removes one original contig, so the distinct contigs it touches bound
// the loop.
func (m *Merger) joinQuery(q string, pool map[string][]nucmer.Hit) (n int, err error) {
	refs := contig.NewNameSet()
	for _, h := range pool[q] {
		refs.Add(h.RefName)
	}
	for i := 0; i < len(refs); i++ {
		j, ok := FindJoin(m.cfg, pool[q], m.original, m.reassembly)
		if !ok {
			break
		}
		sp, err := Splice(j, m.original, m.reassembly)
		if errors.Is(err, ErrStaleJoin) {
			m.event(Event{Kind: EventSkippedStale, Ref: j.Left.RefName, Other: j.Right.RefName, Qry: q, Detail: err.Error()})
			pool[q] = without(pool[q], j.Left, j.Right)
			continue
		} else if err != nil {
			return n, err
		}
		sp.Apply(m.original)
		m.removed.Add(sp.Removed)
		m.replaced.Add(sp.Name)
		detail := fmt.Sprintf("gap %d, %d bases", sp.Join.Gap(), len(sp.Seq))
		if sp.Direct {
			detail = fmt.Sprintf("overlap %d, %d bases", -sp.Join.Gap(), len(sp.Seq))
		}
		m.event(Event{Kind: EventJoined, Ref: sp.Name, Other: sp.Removed, Qry: q, Detail: detail})
		m.rewrite(pool, sp)
		n++
	}
	return n, nil
}

func without(hits []nucmer.Hit, drop ...nucmer.Hit) []nucmer.Hit {
	var kept []nucmer.Hit
	for _, h := range hits {
		skip := false
		for _, d := range drop {
			if h == d {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, h)
		}
	}
	return kept
}

// rewrite moves the hits of the two joined contigs onto the spliced one. The
// joined hits become the bridge hit; hits outside the kept segments are
// dropped as stale.
func (m *Merger) rewrite(pool map[string][]nucmer.Hit, sp *Spliced) {
	for _, q := range nucmer.SortedKeys(pool) {
		var nh []nucmer.Hit
		bridged := false
		for _, h := range pool[q] {
			if h.RefName != sp.Name && h.RefName != sp.Removed {
				nh = append(nh, h)
				continue
			}
			if q == sp.Qry && (h == sp.Join.Left || h == sp.Join.Right) {
				if !bridged {
					nh = append(nh, sp.Bridge)
					bridged = true
				}
				continue
			}
			if lh, ok := sp.Lift(h); ok {
				nh = append(nh, lh)
				continue
			}
			m.event(Event{Kind: EventSkippedStale, Ref: h.RefName, Qry: q, Detail: "hit outside spliced contig " + sp.Name + ": " + h.String()})
		}
		pool[q] = nh
	}
}

func (m *Merger) result() *Result {
	res := &Result{
		Contigs:      m.original,
		Removed:      m.removed.Sorted(),
		Circularised: m.circularised.Sorted(),
		Consumed:     m.consumed.Sorted(),
		Events:       m.events,
		Fingerprint:  Fingerprint(m.original),
	}
	for _, name := range m.replaced.Sorted() {
		if m.original.Has(name) {
			res.Replaced = append(res.Replaced, name)
		}
	}
	return res
}
