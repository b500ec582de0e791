package nucmer

import (
	"fmt"
	"sort"
	"strings"
)

// ParseError reports a malformed alignment record.
type ParseError struct {
	File   string
	Line   int
	Record string
	Err    error
}

func (e *ParseError) Error() string {
	where := "line " + fmt.Sprint(e.Line)
	if e.File != "" {
		where = e.File + ":" + fmt.Sprint(e.Line)
	}
	return fmt.Sprintf("malformed alignment record at %s: %v: %q", where, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DataConsistencyError reports one contig name carrying different lengths,
// which means the hits and the sequence files do not belong together.
type DataConsistencyError struct {
	Name    string
	Axis    Axis
	Lengths []int
}

func (e *DataConsistencyError) Error() string {
	ls := make([]string, len(e.Lengths))
	for i, l := range e.Lengths {
		ls[i] = fmt.Sprint(l)
	}
	return fmt.Sprintf("inconsistent lengths for %s contig %s: %s", e.Axis, e.Name, strings.Join(ls, ", "))
}

// CheckLengths verifies that every contig name has one length across hits.
func CheckLengths(hits []Hit) error {
	for _, a := range []Axis{RefAxis, QryAxis} {
		lens := make(map[string]map[int]bool)
		var order []string
		for _, h := range hits {
			n := h.Name(a)
			if lens[n] == nil {
				lens[n] = make(map[int]bool)
				order = append(order, n)
			}
			lens[n][h.Len(a)] = true
		}
		for _, n := range order {
			if len(lens[n]) > 1 {
				e := &DataConsistencyError{Name: n, Axis: a}
				for l := range lens[n] {
					e.Lengths = append(e.Lengths, l)
				}
				sort.Ints(e.Lengths)
				return e
			}
		}
	}
	return nil
}
