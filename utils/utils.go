package utils

import (
	"github.com/jwaldrip/odin/cli"
	log "github.com/sirupsen/logrus"
)

type ArgsOpt struct {
	Prefix  string
	CfgFn   string
	Verbose bool
}

// return global arguments and check if successed
func CheckGlobalArgs(c cli.Command) (opt ArgsOpt, succ bool) {
	opt.Prefix = c.Flag("p").String()
	if opt.Prefix == "" {
		log.Fatalf("[CheckGlobalArgs] args 'p' not set\n")
	}
	opt.CfgFn = c.Flag("C").String()

	var ok bool
	opt.Verbose, ok = c.Flag("v").Get().(bool)
	if !ok {
		log.Fatalf("[CheckGlobalArgs] args 'v' : %v set error\n", c.Flag("v").String())
	}
	if opt.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	return opt, true
}

func AbsInt(a int) int {
	if a < 0 {
		return -a
	} else {
		return a
	}
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	} else {
		return b
	}
}

func MinInt(a, b int) int {
	if a > b {
		return b
	} else {
		return a
	}
}

// ClampInt limits v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var complement [256]byte

func init() {
	for i := range complement {
		complement[i] = byte(i)
	}
	pairs := []string{"AT", "CG", "RY", "KM", "BV", "DH", "SS", "WW", "NN"}
	for _, p := range pairs {
		up, lo := []byte(p), []byte{p[0] + 'a' - 'A', p[1] + 'a' - 'A'}
		complement[up[0]], complement[up[1]] = up[1], up[0]
		complement[lo[0]], complement[lo[1]] = lo[1], lo[0]
	}
}

// ReverseComplement returns a new slice, letter case kept.
// Bytes that are not IUPAC nucleotides are copied unchanged.
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	rc := make([]byte, n)
	for i, c := range seq {
		rc[n-1-i] = complement[c]
	}
	return rc
}

func Complement(c byte) byte {
	return complement[c]
}
