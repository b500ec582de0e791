// Package nucmer holds the alignment hit model shared by the merge code:
// parsing of show-coords records, grouping and the hit filters.
package nucmer

import (
	"fmt"
	"strconv"
	"strings"
)

type Strand int8

const (
	Plus  Strand = 1
	Minus Strand = -1
)

func (s Strand) String() string {
	if s == Minus {
		return "-1"
	}
	return "1"
}

// Axis picks the reference or the query side of a hit.
type Axis uint8

const (
	RefAxis Axis = iota
	QryAxis
)

func (a Axis) String() string {
	if a == QryAxis {
		return "query"
	}
	return "reference"
}

// Hit is one local alignment between a reference (original) contig and a
// query (reassembly) contig. Coordinates are 1-based inclusive with
// start <= end on both axes; orientation lives in the strand fields.
type Hit struct {
	RefStart, RefEnd int
	QryStart, QryEnd int
	HitLenRef        int
	HitLenQry        int
	PctID            float64
	RefLen, QryLen   int
	RefStrand        Strand
	QryStrand        Strand
	RefName, QryName string
	Tag              string
}

// SameStrand reports whether the query aligns to the reference without
// reverse complementing either of them.
func (h Hit) SameStrand() bool {
	return h.RefStrand == h.QryStrand
}

// RefSpan is the tie-break length used by LongestHit.
func (h Hit) RefSpan() int {
	return h.RefEnd - h.RefStart
}

func (h Hit) Start(a Axis) int {
	if a == QryAxis {
		return h.QryStart
	}
	return h.RefStart
}

func (h Hit) End(a Axis) int {
	if a == QryAxis {
		return h.QryEnd
	}
	return h.RefEnd
}

func (h Hit) Len(a Axis) int {
	if a == QryAxis {
		return h.QryLen
	}
	return h.RefLen
}

func (h Hit) Name(a Axis) string {
	if a == QryAxis {
		return h.QryName
	}
	return h.RefName
}

// DistToStart is the number of bases between the contig start and the hit.
func (h Hit) DistToStart(a Axis) int {
	return h.Start(a) - 1
}

// DistToEnd is the number of bases between the hit and the contig end.
func (h Hit) DistToEnd(a Axis) int {
	return h.Len(a) - h.End(a)
}

// AtStart reports whether the hit lies within tol bases of the contig start.
func (h Hit) AtStart(a Axis, tol int) bool {
	return h.DistToStart(a) <= tol
}

func (h Hit) AtEnd(a Axis, tol int) bool {
	return h.DistToEnd(a) <= tol
}

// Intersects reports whether the two hits share at least one base on axis a.
// The hits are assumed to name the same contig on that axis.
func (h Hit) Intersects(o Hit, a Axis) bool {
	return h.Start(a) <= o.End(a) && o.Start(a) <= h.End(a)
}

// RawRef returns the reference coordinates in aligner order.
func (h Hit) RawRef() (start, end int) {
	if h.RefStrand == Minus {
		return h.RefEnd, h.RefStart
	}
	return h.RefStart, h.RefEnd
}

// RawQry returns the query coordinates in aligner order, start > end on the
// reverse strand.
func (h Hit) RawQry() (start, end int) {
	if h.QryStrand == Minus {
		return h.QryEnd, h.QryStart
	}
	return h.QryStart, h.QryEnd
}

// String formats the hit back as a tab separated show-coords record.
func (h Hit) String() string {
	rs, re := h.RawRef()
	qs, qe := h.RawQry()
	fields := []string{
		strconv.Itoa(rs), strconv.Itoa(re),
		strconv.Itoa(qs), strconv.Itoa(qe),
		strconv.Itoa(h.HitLenRef), strconv.Itoa(h.HitLenQry),
		strconv.FormatFloat(h.PctID, 'f', 2, 64),
		strconv.Itoa(h.RefLen), strconv.Itoa(h.QryLen),
		h.RefStrand.String(), h.QryStrand.String(),
		h.RefName, h.QryName,
	}
	if h.Tag != "" {
		fields = append(fields, h.Tag)
	}
	return strings.Join(fields, "\t")
}

const minFieldNum = 13

// ParseHit builds a Hit from the fields of one show-coords -T record:
// S1 E1 S2 E2 LEN1 LEN2 %IDY LENR LENQ FRMR FRMQ REF QRY [TAGS...]
func ParseHit(fields []string) (h Hit, err error) {
	if len(fields) < minFieldNum {
		return h, fmt.Errorf("expected at least %d fields, found %d", minFieldNum, len(fields))
	}
	var iv [8]int
	for i, idx := range []int{0, 1, 2, 3, 4, 5, 7, 8} {
		v, err := strconv.Atoi(fields[idx])
		if err != nil {
			return h, fmt.Errorf("field %d: %w", idx+1, err)
		}
		iv[i] = v
	}
	rs, re, qs, qe := iv[0], iv[1], iv[2], iv[3]
	h.HitLenRef, h.HitLenQry = iv[4], iv[5]
	h.RefLen, h.QryLen = iv[6], iv[7]
	h.PctID, err = strconv.ParseFloat(fields[6], 64)
	if err != nil {
		return h, fmt.Errorf("field 7: %w", err)
	}
	if h.PctID < 0 || h.PctID > 100 {
		return h, fmt.Errorf("percent identity %v outside [0,100]", h.PctID)
	}
	frmRef, err := parseFrame(fields[9])
	if err != nil {
		return h, fmt.Errorf("field 10: %w", err)
	}
	frmQry, err := parseFrame(fields[10])
	if err != nil {
		return h, fmt.Errorf("field 11: %w", err)
	}
	h.RefName, h.QryName = fields[11], fields[12]
	if len(fields) > minFieldNum {
		h.Tag = strings.Join(fields[minFieldNum:], " ")
	}

	h.RefStart, h.RefEnd, h.RefStrand = orderCoords(rs, re, frmRef)
	h.QryStart, h.QryEnd, h.QryStrand = orderCoords(qs, qe, frmQry)
	if h.RefStart < 1 || h.QryStart < 1 {
		return h, fmt.Errorf("coordinates must be >= 1")
	}
	if h.RefEnd > h.RefLen {
		return h, fmt.Errorf("reference coordinate %d beyond length %d of %s", h.RefEnd, h.RefLen, h.RefName)
	}
	if h.QryEnd > h.QryLen {
		return h, fmt.Errorf("query coordinate %d beyond length %d of %s", h.QryEnd, h.QryLen, h.QryName)
	}
	return h, nil
}

func parseFrame(s string) (Strand, error) {
	switch s {
	case "1", "+1", "+":
		return Plus, nil
	case "-1", "-":
		return Minus, nil
	}
	return Plus, fmt.Errorf("unknown frame %q", s)
}

// orderCoords derives start <= end and the strand from the raw coordinate
// order. A one base alignment carries no order, so the frame token decides.
func orderCoords(s, e int, frame Strand) (int, int, Strand) {
	switch {
	case s < e:
		return s, e, Plus
	case s > e:
		return e, s, Minus
	}
	return s, e, frame
}
