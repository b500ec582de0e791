package nucmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeHits(t *testing.T) []Hit {
	return []Hit{
		mustHit(t, "61\t500\t61\t500\t440\t440\t100.00\t500\t500\t1\t1\tref1\tqry1"),
		mustHit(t, "10\t50\t11\t52\t51\t52\t99.42\t500\t500\t1\t1\tref1\tqry1"),
		mustHit(t, "1\t500\t1\t499\t500\t499\t99.40\t500\t499\t1\t1\tref2\tqry2\t[IDENTITY]"),
	}
}

func TestGroupByQuery(t *testing.T) {
	hits := threeHits(t)
	got := GroupByQuery(hits)
	assert.Equal(t, map[string][]Hit{
		"qry1": {hits[0], hits[1]},
		"qry2": {hits[2]},
	}, got)
	assert.Equal(t, []string{"qry1", "qry2"}, SortedKeys(got))
	assert.Equal(t, hits, Flatten(GroupByRef(hits)))
}

func TestLongestHit(t *testing.T) {
	hits := threeHits(t)
	got, ok := LongestHit(hits)
	require.True(t, ok)
	assert.Equal(t, hits[2], got)

	_, ok = LongestHit(nil)
	assert.False(t, ok)
}

func TestLongestHitTiesAndOrder(t *testing.T) {
	a := mustHit(t, "1\t100\t1\t100\t100\t100\t100.00\t500\t500\t1\t1\ta\tq")
	b := mustHit(t, "201\t300\t201\t300\t100\t100\t100.00\t500\t500\t1\t1\tb\tq")
	c := mustHit(t, "1\t50\t1\t50\t50\t50\t100.00\t500\t500\t1\t1\tc\tq")
	got, _ := LongestHit([]Hit{a, b, c})
	assert.Equal(t, a, got)
	got, _ = LongestHit([]Hit{b, a, c})
	assert.Equal(t, b, got)

	// order among non tied hits does not matter
	long := mustHit(t, "1\t400\t1\t400\t400\t400\t100.00\t500\t500\t1\t1\td\tq")
	got, _ = LongestHit([]Hit{a, c, long})
	assert.Equal(t, long, got)
	got, _ = LongestHit([]Hit{long, c, a})
	assert.Equal(t, long, got)
}

func TestFilter(t *testing.T) {
	hits := threeHits(t)
	assert.Equal(t, []Hit{hits[0], hits[2]}, Filter(hits, 100, 99))
	assert.Equal(t, []Hit{hits[0]}, Filter(hits, 100, 99.5))
	assert.Empty(t, Filter(hits, 1000, 0))
}

func TestRemoveRedundant(t *testing.T) {
	hits := []Hit{
		mustHit(t, "1\t100\t3\t105\t100\t112\t100.00\t110\t120\t1\t1\tref1\tqry1"),
		mustHit(t, "2\t101\t4\t106\t101\t113\t100.00\t111\t121\t1\t1\tref2\tqry1"),
	}
	start := append([]Hit(nil), hits...)
	end := append([]Hit(nil), hits...)
	gotStart, gotEnd := RemoveRedundant(start, end, QryAxis)
	assert.Equal(t, []Hit{hits[0]}, gotStart)
	assert.Equal(t, []Hit{hits[1]}, gotEnd)
}

func TestRemoveRedundantSingleAmbiguous(t *testing.T) {
	s := mustHit(t, "1\t100\t1\t100\t100\t100\t100.00\t500\t1000\t1\t1\ta\tq")
	mid := mustHit(t, "1\t500\t350\t650\t300\t300\t100.00\t500\t1000\t1\t1\tb\tq")
	e := mustHit(t, "1\t300\t700\t1000\t300\t300\t100.00\t500\t1000\t1\t1\tc\tq")
	fs, fe := RemoveRedundant([]Hit{s, mid}, []Hit{mid, e}, QryAxis)
	assert.Equal(t, []Hit{s, mid}, fs)
	assert.Equal(t, []Hit{e}, fe)

	late := mustHit(t, "1\t500\t360\t990\t300\t300\t100.00\t500\t1000\t1\t1\tb\tq")
	fs, fe = RemoveRedundant([]Hit{s, late}, []Hit{late, e}, QryAxis)
	assert.Equal(t, []Hit{s}, fs)
	assert.Equal(t, []Hit{late, e}, fe)
}

func TestRemoveRedundantDropsExtraAmbiguous(t *testing.T) {
	a := mustHit(t, "1\t100\t2\t95\t100\t94\t100.00\t100\t100\t1\t1\ta\tq")
	b := mustHit(t, "1\t100\t5\t99\t100\t95\t100.00\t100\t100\t1\t1\tb\tq")
	c := mustHit(t, "1\t100\t4\t97\t100\t94\t100.00\t100\t100\t1\t1\tc\tq")
	fs, fe := RemoveRedundant([]Hit{a, b, c}, []Hit{a, b, c}, QryAxis)
	assert.Equal(t, []Hit{a}, fs)
	assert.Equal(t, []Hit{b}, fe)
}

func TestRemoveRedundantIdempotent(t *testing.T) {
	a := mustHit(t, "1\t100\t2\t95\t100\t94\t100.00\t100\t100\t1\t1\ta\tq")
	b := mustHit(t, "1\t100\t5\t99\t100\t95\t100.00\t100\t100\t1\t1\tb\tq")
	c := mustHit(t, "1\t100\t4\t97\t100\t94\t100.00\t100\t100\t1\t1\tc\tq")
	d := mustHit(t, "1\t100\t1\t20\t100\t20\t100.00\t100\t100\t1\t1\td\tq")
	for _, lists := range [][2][]Hit{
		{{a, b, c, d}, {a, b, c}},
		{{d}, {a}},
		{{a, d}, {a}},
		{nil, {b}},
	} {
		fs, fe := RemoveRedundant(lists[0], lists[1], QryAxis)
		fs2, fe2 := RemoveRedundant(fs, fe, QryAxis)
		assert.Equal(t, fs, fs2)
		assert.Equal(t, fe, fe2)
	}
}
