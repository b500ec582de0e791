package nucmer

import "sort"

// GroupByRef keys hits by reference name, input order kept within a group.
func GroupByRef(hits []Hit) map[string][]Hit {
	d := make(map[string][]Hit)
	for _, h := range hits {
		d[h.RefName] = append(d[h.RefName], h)
	}
	return d
}

// GroupByQuery keys hits by query name, input order kept within a group.
func GroupByQuery(hits []Hit) map[string][]Hit {
	d := make(map[string][]Hit)
	for _, h := range hits {
		d[h.QryName] = append(d[h.QryName], h)
	}
	return d
}

func SortedKeys(d map[string][]Hit) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten concatenates the groups in sorted key order.
func Flatten(d map[string][]Hit) []Hit {
	var hits []Hit
	for _, k := range SortedKeys(d) {
		hits = append(hits, d[k]...)
	}
	return hits
}

// Filter keeps hits at least minLen long on the reference with identity of
// at least minID percent.
func Filter(hits []Hit, minLen int, minID float64) []Hit {
	var fh []Hit
	for _, h := range hits {
		if h.HitLenRef >= minLen && h.PctID >= minID {
			fh = append(fh, h)
		}
	}
	return fh
}

// LongestHit returns the hit with the largest RefEnd-RefStart, the first one
// on ties.
func LongestHit(hits []Hit) (longest Hit, ok bool) {
	maxLen := -1
	for _, h := range hits {
		if h.RefSpan() > maxLen {
			longest, maxLen, ok = h, h.RefSpan(), true
		}
	}
	return
}

func indexOf(hits []Hit, h Hit) int {
	for i, x := range hits {
		if x == h {
			return i
		}
	}
	return -1
}

// RemoveRedundant resolves hits found in both the start list and the end
// list of one contig, measured on axis a. A hit must anchor exactly one end:
// a lone ambiguous hit stays in the list of the end it lies nearer to (the
// start on ties). When several hits are ambiguous, the one nearest the start
// stays in start, the one nearest the end among the others stays in end, the
// rest are dropped from both.
func RemoveRedundant(start, end []Hit, a Axis) (fs, fe []Hit) {
	var common []Hit
	for _, h := range start {
		if indexOf(end, h) >= 0 && indexOf(common, h) < 0 {
			common = append(common, h)
		}
	}
	if len(common) == 0 {
		return start, end
	}

	keepStart, keepEnd := -1, -1
	if len(common) == 1 {
		if common[0].DistToStart(a) <= common[0].DistToEnd(a) {
			keepStart = 0
		} else {
			keepEnd = 0
		}
	} else {
		keepStart = 0
		for i, h := range common {
			if h.DistToStart(a) < common[keepStart].DistToStart(a) {
				keepStart = i
			}
		}
		for i, h := range common {
			if i == keepStart {
				continue
			}
			if keepEnd < 0 || h.DistToEnd(a) < common[keepEnd].DistToEnd(a) {
				keepEnd = i
			}
		}
	}

	for _, h := range start {
		i := indexOf(common, h)
		if i < 0 || i == keepStart {
			fs = append(fs, h)
		}
	}
	for _, h := range end {
		i := indexOf(common, h)
		if i < 0 || i == keepEnd {
			fe = append(fe, h)
		}
	}
	return fs, fe
}
