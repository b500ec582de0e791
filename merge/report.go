package merge

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/cespare/xxhash"
	"github.com/mr-c/circlator/contig"
	"gopkg.in/yaml.v3"
)

// Fingerprint digests a contig map in sorted name order. Two runs on the
// same input give the same value.
func Fingerprint(m contig.Map) uint64 {
	d := xxhash.New()
	for _, name := range m.Names() {
		d.Write([]byte(name))
		d.Write([]byte{0})
		d.Write(m[name])
		d.Write([]byte{0})
	}
	return d.Sum64()
}

// WriteEvents writes the event log as tab separated lines.
func WriteEvents(w io.Writer, events []Event) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("#kind\tref\tother\tqry\tdetail\n")
	for _, e := range events {
		fields := []string{string(e.Kind), dash(e.Ref), dash(e.Other), dash(e.Qry), dash(e.Detail)}
		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Summary is the yaml report of one run.
type Summary struct {
	Config       Config         `yaml:"config"`
	Contigs      int            `yaml:"contigs"`
	Bases        int            `yaml:"bases"`
	Removed      []string       `yaml:"removed"`
	Replaced     []string       `yaml:"replaced"`
	Circularised []string       `yaml:"circularised"`
	Consumed     []string       `yaml:"consumed"`
	Events       map[string]int `yaml:"events"`
	Fingerprint  string         `yaml:"fingerprint"`
}

func NewSummary(cfg Config, res *Result) Summary {
	s := Summary{
		Config:       cfg,
		Contigs:      len(res.Contigs),
		Bases:        res.Contigs.TotalLen(),
		Removed:      res.Removed,
		Replaced:     res.Replaced,
		Circularised: res.Circularised,
		Consumed:     res.Consumed,
		Events:       make(map[string]int),
		Fingerprint:  strconv.FormatUint(res.Fingerprint, 16),
	}
	for _, e := range res.Events {
		s.Events[string(e.Kind)]++
	}
	return s
}

func WriteSummary(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// GraphvizJoins draws the final contigs and the joins that built them: an
// edge runs from every removed contig to the contig it was merged into,
// labelled with the reassembly contig. Circularised contigs get a self loop.
func GraphvizJoins(res *Result, w io.Writer) error {
	g := gographviz.NewGraph()
	g.SetName("G")
	g.SetDir(true)
	g.SetStrict(false)
	nodes := contig.NewNameSet()
	addNode := func(name, color, label string) {
		if nodes.Has(name) {
			return
		}
		nodes.Add(name)
		attr := make(map[string]string)
		attr["color"] = color
		attr["shape"] = "record"
		if label != "" {
			attr["label"] = strconv.Quote(label)
		}
		g.AddNode("G", strconv.Quote(name), attr)
	}
	for _, name := range res.Contigs.Names() {
		addNode(name, "Green", name+" len:"+strconv.Itoa(len(res.Contigs[name])))
	}
	for _, e := range res.Events {
		switch e.Kind {
		case EventJoined:
			addNode(e.Other, "Gray", "")
			attr := make(map[string]string)
			attr["color"] = "Blue"
			attr["label"] = strconv.Quote(e.Qry)
			g.AddEdge(strconv.Quote(e.Other), strconv.Quote(e.Ref), true, attr)
		case EventCircularised:
			attr := make(map[string]string)
			attr["color"] = "Red"
			attr["label"] = strconv.Quote(e.Qry)
			g.AddEdge(strconv.Quote(e.Ref), strconv.Quote(e.Ref), true, attr)
		}
	}
	_, err := io.WriteString(w, g.String())
	return err
}
