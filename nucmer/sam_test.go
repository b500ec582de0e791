package nucmer

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samRecord(name string, flag int, ref string, pos int, cigar string, seqLen int, tags ...string) string {
	seq := "*"
	if seqLen > 0 {
		seq = strings.Repeat("A", seqLen)
	}
	fields := []string{name, strconv.Itoa(flag), ref, strconv.Itoa(pos), "60", cigar, "*", "0", "0", seq, "*"}
	return strings.Join(append(fields, tags...), "\t") + "\n"
}

const samHeader = "@SQ\tSN:ref1\tLN:1000\n@SQ\tSN:ref2\tLN:1000\n"

func TestLoadSAMHits(t *testing.T) {
	in := samHeader +
		samRecord("reassembly", 0, "ref1", 721, "4S279M470S", 753, "NM:i:0") +
		samRecord("reassembly", 16, "ref2", 1, "10S280M463S", 753, "NM:i:2") +
		samRecord("reassembly", 256, "ref2", 1, "10S280M463S", 753) +
		samRecord("other", 4, "*", 0, "*", 0)
	hits, err := LoadSAMHits(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, hits, 2)

	f := hits[0]
	assert.Equal(t, "ref1", f.RefName)
	assert.Equal(t, "reassembly", f.QryName)
	assert.Equal(t, []int{721, 999, 5, 283}, []int{f.RefStart, f.RefEnd, f.QryStart, f.QryEnd})
	assert.Equal(t, 1000, f.RefLen)
	assert.Equal(t, 753, f.QryLen)
	assert.Equal(t, 100.0, f.PctID)
	assert.True(t, f.SameStrand())

	r := hits[1]
	assert.Equal(t, []int{1, 280, 464, 743}, []int{r.RefStart, r.RefEnd, r.QryStart, r.QryEnd})
	assert.Equal(t, Minus, r.QryStrand)
	assert.InDelta(t, 100*278.0/280.0, r.PctID, 1e-9)
}

func TestLoadSAMHitsBeyondReference(t *testing.T) {
	in := samHeader + samRecord("q", 0, "ref1", 900, "200M", 200)
	_, err := LoadSAMHits(strings.NewReader(in))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
	assert.Equal(t, "q", pe.Record)
}

func TestLoadBAMHits(t *testing.T) {
	in := samHeader +
		samRecord("reassembly", 0, "ref1", 721, "4S279M470S", 753, "NM:i:0") +
		samRecord("reassembly", 16, "ref2", 1, "10S280M463S", 753, "NM:i:2") +
		samRecord("reassembly", 256, "ref2", 1, "10S280M463S", 753) +
		samRecord("other", 4, "*", 0, "*", 0)
	want, err := LoadSAMHits(strings.NewReader(in))
	require.NoError(t, err)

	sr, err := sam.NewReader(strings.NewReader(in))
	require.NoError(t, err)
	var buf bytes.Buffer
	bw, err := bam.NewWriter(&buf, sr.Header(), 1)
	require.NoError(t, err)
	for {
		r, err := sr.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, bw.Write(r))
	}
	require.NoError(t, bw.Close())

	got, err := LoadBAMHits(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want, got)
}
