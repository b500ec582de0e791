package merge

import (
	"math/rand"
	"strconv"

	"github.com/mr-c/circlator/contig"
	"github.com/mr-c/circlator/nucmer"
	"github.com/mr-c/circlator/utils"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinNucmerLength = 100
	cfg.RefEndTolerance = 30
	cfg.QryEndTolerance = 30
	return cfg
}

func span(s, e int) int {
	return utils.AbsInt(e-s) + 1
}

// mkHit builds a hit from raw aligner coordinates, qs > qe meaning reverse.
func mkHit(rs, re, qs, qe, rlen, qlen int, ref, qry string) nucmer.Hit {
	frame := "1"
	if qs > qe {
		frame = "-1"
	}
	it := strconv.Itoa
	h, err := nucmer.ParseHit([]string{
		it(rs), it(re), it(qs), it(qe), it(span(rs, re)), it(span(qs, qe)), "100.00",
		it(rlen), it(qlen), "1", frame, ref, qry,
	})
	if err != nil {
		panic(err)
	}
	return h
}

func randSeq(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	s := make([]byte, n)
	for i := range s {
		s[i] = "ACGT"[r.Intn(4)]
	}
	return s
}

func cat(parts ...[]byte) []byte {
	var s []byte
	for _, p := range parts {
		s = append(s, p...)
	}
	return s
}

type scenario struct {
	original   contig.Map
	reassembly contig.Map
	hits       []nucmer.Hit
	want       []byte
}

// gapScenario: reassembly (753) carries ref1[721..999] at 5..283 and
// ref2[1..420] at 324..743, 40 bridging bases between them.
func gapScenario() scenario {
	ref1, ref2 := randSeq(1000, 1), randSeq(1000, 2)
	q := randSeq(753, 3)
	copy(q[4:283], ref1[720:999])
	copy(q[323:743], ref2[0:420])
	return scenario{
		original:   contig.Map{"ref1": ref1, "ref2": ref2},
		reassembly: contig.Map{"reassembly": q},
		hits: []nucmer.Hit{
			mkHit(721, 999, 5, 283, 1000, 753, "ref1", "reassembly"),
			mkHit(1, 420, 324, 743, 1000, 753, "ref2", "reassembly"),
		},
		want: cat(ref1[:999], q[283:323], ref2),
	}
}

// gapScenarioReverse is gapScenario with the reassembly reverse complemented.
func gapScenarioReverse() scenario {
	s := gapScenario()
	s.reassembly["reassembly"] = utils.ReverseComplement(s.reassembly["reassembly"])
	s.hits = []nucmer.Hit{
		mkHit(1, 420, 430, 11, 1000, 753, "ref2", "reassembly"),
		mkHit(721, 999, 749, 471, 1000, 753, "ref1", "reassembly"),
	}
	s.want = utils.ReverseComplement(s.want)
	return s
}

// overlapScenario: ref1 (960) and ref2 (1060) share 60 bases, the
// reassembly (840) covers ref1[541..960] and ref2[1..480].
func overlapScenario() scenario {
	ref2 := randSeq(1060, 4)
	ref1 := cat(randSeq(900, 5), ref2[:60])
	q := cat(ref1[540:960], ref2[60:480])
	return scenario{
		original:   contig.Map{"ref1": ref1, "ref2": ref2},
		reassembly: contig.Map{"reassembly": q},
		hits: []nucmer.Hit{
			mkHit(541, 960, 1, 420, 960, 840, "ref1", "reassembly"),
			mkHit(1, 480, 361, 840, 1060, 840, "ref2", "reassembly"),
		},
		want: cat(ref1[:900], ref2),
	}
}

func overlapScenarioReverse() scenario {
	s := overlapScenario()
	s.reassembly["reassembly"] = utils.ReverseComplement(s.reassembly["reassembly"])
	s.hits = []nucmer.Hit{
		mkHit(1, 480, 480, 1, 1060, 840, "ref2", "reassembly"),
		mkHit(541, 960, 840, 421, 960, 840, "ref1", "reassembly"),
	}
	s.want = utils.ReverseComplement(s.want)
	return s
}

// circleScenario: the reassembly (689) closes ref (817), ref[5..360] at
// 334..689 and ref[481..813] at 1..333.
func circleScenario() scenario {
	ref := randSeq(817, 6)
	q := cat(ref[480:813], ref[4:360])
	return scenario{
		original:   contig.Map{"ref": ref},
		reassembly: contig.Map{"reassembly": q},
		hits: []nucmer.Hit{
			mkHit(5, 360, 334, 689, 817, 689, "ref", "reassembly"),
			mkHit(481, 813, 1, 333, 817, 689, "ref", "reassembly"),
		},
		want: cat(ref[360:480], q),
	}
}

func circleConfig() Config {
	cfg := testConfig()
	cfg.RefEndTolerance, cfg.QryEndTolerance = 100, 100
	return cfg
}
