package nucmer

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mr-c/circlator/utils"
	log "github.com/sirupsen/logrus"
)

// ReadHits parses show-coords output. The preamble written by show-coords
// (the two file names on the first line, "NUCMER", the "[S1] [E1] ..."
// header) is skipped; a file made of bare records is accepted as well. Any
// other line must be a record.
func ReadHits(r io.Reader) ([]Hit, error) {
	return readHits(r, "")
}

func readHits(r io.Reader, fn string) (hits []Hit, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	preamble := true
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r\n")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if preamble {
			if strings.HasPrefix(fields[0], "[") {
				preamble = false
				continue
			}
			if isPreamble(fields, lineNum) {
				continue
			}
			preamble = false
		}
		h, e := ParseHit(fields)
		if e != nil {
			return nil, &ParseError{File: fn, Line: lineNum, Record: line, Err: e}
		}
		hits = append(hits, h)
	}
	if err = sc.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

// isPreamble recognises the lines show-coords writes before its header:
// "<ref file> <qry file>" first, then the program name.
func isPreamble(fields []string, lineNum int) bool {
	if len(fields) == 2 && lineNum == 1 {
		_, err := strconv.Atoi(fields[0])
		return err != nil
	}
	return len(fields) == 1 && (fields[0] == "NUCMER" || fields[0] == "PROMER")
}

// LoadHits parses show-coords output into hits keyed by reference name,
// each list in input order.
func LoadHits(r io.Reader) (map[string][]Hit, error) {
	hits, err := ReadHits(r)
	if err != nil {
		return nil, err
	}
	return GroupByRef(hits), nil
}

// LoadHitsFile is LoadHits on a (possibly compressed) file.
func LoadHitsFile(fn string) (map[string][]Hit, error) {
	fp, err := utils.OpenFile(fn)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	hits, err := readHits(fp, fn)
	if err != nil {
		return nil, err
	}
	log.Debugf("[LoadHitsFile] loaded %d hits from %s\n", len(hits), fn)
	return GroupByRef(hits), nil
}

// WriteHits writes hits as show-coords -T records.
func WriteHits(w io.Writer, hits []Hit) error {
	bw := bufio.NewWriter(w)
	for _, h := range hits {
		if _, err := bw.WriteString(h.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
