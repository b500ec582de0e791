package merge

import (
	"errors"
	"testing"

	"github.com/mr-c/circlator/nucmer"
	"github.com/mr-c/circlator/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePairGap(t *testing.T) {
	s := gapScenario()
	ref1, ref2 := s.original["ref1"], s.original["ref2"]
	q := s.reassembly["reassembly"]

	sp, err := MergePair(Join{Left: s.hits[0], Right: s.hits[1]}, s.original, s.reassembly)
	require.NoError(t, err)
	assert.Empty(t, s.reassembly)
	require.Len(t, s.original, 1)
	got := s.original["ref1"]
	assert.Len(t, got, 2039)
	assert.Equal(t, s.want, got)
	assert.False(t, sp.Direct)
	assert.Equal(t, "ref2", sp.Removed)

	// prefix of ref1 and suffix of ref2 survive
	assert.Equal(t, ref1[:999], got[:999])
	assert.Equal(t, ref2, got[len(got)-len(ref2):])

	b := sp.Bridge
	assert.Equal(t, []int{721, 1459, 5, 743, 2039, 753}, []int{b.RefStart, b.RefEnd, b.QryStart, b.QryEnd, b.RefLen, b.QryLen})
	assert.True(t, b.SameStrand())
	assert.Equal(t, q[4:743], got[b.RefStart-1:b.RefEnd])
}

func TestMergePairReverseIsReverseComplement(t *testing.T) {
	fwd, rev := gapScenario(), gapScenarioReverse()
	_, err := MergePair(Join{Left: fwd.hits[0], Right: fwd.hits[1]}, fwd.original, fwd.reassembly)
	require.NoError(t, err)

	sp, err := MergePair(Join{Left: rev.hits[0], Right: rev.hits[1]}, rev.original, rev.reassembly)
	require.NoError(t, err)
	assert.Equal(t, "ref2", sp.Name)
	assert.Empty(t, rev.reassembly)
	require.Len(t, rev.original, 1)
	assert.Equal(t, utils.ReverseComplement(fwd.original["ref1"]), rev.original["ref2"])
	assert.Equal(t, rev.want, rev.original["ref2"])
}

func TestSpliceOrdersHitsAlongQuery(t *testing.T) {
	s := gapScenario()
	sp, err := Splice(Join{Left: s.hits[1], Right: s.hits[0]}, s.original, s.reassembly)
	require.NoError(t, err)
	assert.Equal(t, "ref1", sp.Name)
	assert.Equal(t, s.want, sp.Seq)
	// nothing applied yet
	assert.Len(t, s.original, 2)
	assert.Len(t, s.reassembly, 1)
}

func TestMergePairDirectOverlap(t *testing.T) {
	for name, s := range map[string]scenario{"forward": overlapScenario(), "reverse": overlapScenarioReverse()} {
		j, ok := FindJoin(testConfig(), s.hits, s.original, s.reassembly)
		require.True(t, ok, name)
		sp, err := MergePair(j, s.original, s.reassembly)
		require.NoError(t, err, name)
		assert.True(t, sp.Direct, name)
		assert.Empty(t, s.reassembly, name)
		require.Len(t, s.original, 1, name)
		assert.Equal(t, s.want, s.original[sp.Name], name)
		assert.Len(t, sp.Seq, 1960, name)
	}
}

func TestSpliceStale(t *testing.T) {
	s := gapScenario()
	j := Join{Left: s.hits[0], Right: s.hits[1]}

	delete(s.original, "ref2")
	_, err := Splice(j, s.original, s.reassembly)
	assert.True(t, errors.Is(err, ErrStaleJoin))

	s = gapScenario()
	s.original["ref1"] = s.original["ref1"][:900]
	_, err = MergePair(j, s.original, s.reassembly)
	assert.True(t, errors.Is(err, ErrStaleJoin))
	assert.Len(t, s.original, 2)
	assert.Len(t, s.reassembly, 1)
}

func TestSpliceRejectsSameContig(t *testing.T) {
	s := gapScenario()
	h := s.hits[0]
	_, err := Splice(Join{Left: h, Right: h}, s.original, s.reassembly)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrStaleJoin))
}

func TestLift(t *testing.T) {
	s := gapScenario()
	sp, err := Splice(Join{Left: s.hits[0], Right: s.hits[1]}, s.original, s.reassembly)
	require.NoError(t, err)

	h := mkHit(501, 900, 1, 400, 1000, 500, "ref2", "other")
	lh, ok := sp.Lift(h)
	require.True(t, ok)
	assert.Equal(t, "ref1", lh.RefName)
	assert.Equal(t, []int{1540, 1939, 2039}, []int{lh.RefStart, lh.RefEnd, lh.RefLen})
	assert.Equal(t, []int{1, 400}, []int{lh.QryStart, lh.QryEnd})
	assert.Equal(t, s.original["ref2"][500:900], sp.Seq[lh.RefStart-1:lh.RefEnd])

	_, ok = sp.Lift(mkHit(901, 1000, 1, 100, 1000, 500, "ref1", "other"))
	assert.False(t, ok)
	_, ok = sp.Lift(mkHit(1, 100, 1, 100, 1000, 500, "ref3", "other"))
	assert.False(t, ok)
}

func TestLiftReversedSegment(t *testing.T) {
	s := gapScenarioReverse()
	sp, err := Splice(Join{Left: s.hits[0], Right: s.hits[1]}, s.original, s.reassembly)
	require.NoError(t, err)

	h := mkHit(1, 100, 1, 100, 1000, 500, "ref1", "other")
	lh, ok := sp.Lift(h)
	require.True(t, ok)
	assert.Equal(t, "ref2", lh.RefName)
	assert.Equal(t, []int{1940, 2039}, []int{lh.RefStart, lh.RefEnd})
	assert.Equal(t, nucmer.Minus, lh.QryStrand)
	assert.False(t, lh.SameStrand())
	assert.Equal(t, utils.ReverseComplement(s.original["ref1"][:100]), sp.Seq[lh.RefStart-1:lh.RefEnd])
}
