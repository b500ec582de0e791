package contig

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/mr-c/circlator/utils"
)

// FastgNode is one FASTG record header: NAME:NEXT,NEXT';
// A trailing "'" marks the reverse complement of a node.
type FastgNode struct {
	Name string
	Next []string
	Len  int
}

// ReadFastgNodes returns the node headers of a FASTG stream in file order.
func ReadFastgNodes(r io.Reader) (nodes []FastgNode, err error) {
	fafp := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))
	for {
		s, err := fafp.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("[ReadFastgNodes] read record %d: %w", len(nodes)+1, err)
		}
		l := s.(*linear.Seq)
		nodes = append(nodes, parseFastgHeader(l.ID, len(l.Seq)))
	}
	return nodes, nil
}

func parseFastgHeader(id string, length int) FastgNode {
	id = strings.TrimRight(id, ";")
	parts := strings.Split(id, ":")
	n := FastgNode{Name: parts[0], Len: length}
	if len(parts) == 2 && parts[1] != "" {
		n.Next = strings.Split(parts[1], ",")
	}
	return n
}

// CircularNodes returns the names of nodes closed on themselves in both
// orientations: a record N:N and a record N':N'.
func CircularNodes(r io.Reader) (NameSet, error) {
	nodes, err := ReadFastgNodes(r)
	if err != nil {
		return nil, err
	}
	return CircularNodesOf(nodes), nil
}

func CircularNodesFile(fn string) (NameSet, error) {
	fp, err := utils.OpenFile(fn)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	cs, err := CircularNodes(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return cs, nil
}

// CircularNodesOf applies the CircularNodes rule to already parsed nodes.
func CircularNodesOf(nodes []FastgNode) NameSet {
	fwd, rev := NewNameSet(), NewNameSet()
	for _, n := range nodes {
		if len(n.Next) != 1 || n.Next[0] != n.Name {
			continue
		}
		if strings.HasSuffix(n.Name, "'") {
			rev.Add(strings.TrimSuffix(n.Name, "'"))
		} else {
			fwd.Add(n.Name)
		}
	}
	circ := NewNameSet()
	for name := range fwd {
		if rev.Has(name) {
			circ.Add(name)
		}
	}
	return circ
}

// GraphvizFastg renders the FASTG adjacencies as a DOT digraph, circular
// nodes drawn in red.
func GraphvizFastg(nodes []FastgNode, w io.Writer) error {
	g := gographviz.NewGraph()
	g.SetName("G")
	g.SetDir(true)
	g.SetStrict(false)
	circ := CircularNodesOf(nodes)
	seen := NewNameSet()
	addNode := func(name string, length int) {
		if seen.Has(name) {
			return
		}
		seen.Add(name)
		attr := make(map[string]string)
		attr["color"] = "Green"
		if circ.Has(strings.TrimSuffix(name, "'")) {
			attr["color"] = "Red"
		}
		attr["shape"] = "record"
		if length > 0 {
			attr["label"] = strconv.Quote(name + " len:" + strconv.Itoa(length))
		}
		g.AddNode("G", strconv.Quote(name), attr)
	}
	for _, n := range nodes {
		addNode(n.Name, n.Len)
	}
	for _, n := range nodes {
		for _, next := range n.Next {
			addNode(next, 0)
			attr := make(map[string]string)
			attr["color"] = "Blue"
			g.AddEdge(strconv.Quote(n.Name), strconv.Quote(next), true, attr)
		}
	}
	_, err := io.WriteString(w, g.String())
	return err
}
