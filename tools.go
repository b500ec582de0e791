package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jwaldrip/odin/cli"
	"github.com/mr-c/circlator/contig"
	"github.com/mr-c/circlator/nucmer"
	"github.com/mr-c/circlator/utils"
	log "github.com/sirupsen/logrus"
)

type optionsCircNodes struct {
	utils.ArgsOpt
	Fastg string
	Graph bool
}

type optionsHits struct {
	Coords      string
	Sam         string
	Bam         string
	Output      string
	MinLen      int
	MinIdentity float64
}

func checkArgsCircNodes(c cli.Command) (opt optionsCircNodes, suc bool) {
	opt.Fastg = c.Flag("fastg").String()
	opt.Graph = c.Flag("Graph").Get().(bool)
	if opt.Fastg == "" {
		log.Errorf("[checkArgsCircNodes] args 'fastg' must be set\n")
		return opt, false
	}
	return opt, true
}

func checkArgsHits(c cli.Command) (opt optionsHits, suc bool) {
	opt.Coords = c.Flag("coords").String()
	opt.Sam = c.Flag("sam").String()
	opt.Bam = c.Flag("bam").String()
	opt.Output = c.Flag("output").String()
	opt.MinLen = c.Flag("minLen").Get().(int)
	opt.MinIdentity = c.Flag("minIdentity").Get().(float64)
	if countSet(opt.Coords, opt.Sam, opt.Bam) != 1 {
		log.Errorf("[checkArgsHits] exactly one of 'coords', 'sam', 'bam' must be set\n")
		return opt, false
	}
	if opt.MinLen < 0 || opt.MinIdentity < 0 || opt.MinIdentity > 100 {
		log.Errorf("[checkArgsHits] args 'minLen': %d or 'minIdentity': %v out of range\n", opt.MinLen, opt.MinIdentity)
		return opt, false
	}
	return opt, true
}

func CircNodes(c cli.Command) {
	gOpt, suc := utils.CheckGlobalArgs(c.Parent())
	if suc == false {
		log.Fatalf("[CircNodes] check global Arguments error, opt: %v\n", gOpt)
	}
	opt, suc := checkArgsCircNodes(c)
	if suc == false {
		log.Fatalf("[CircNodes] check Arguments error, opt: %v\n", opt)
	}
	opt.ArgsOpt = gOpt
	if err := runCircNodes(opt, os.Stdout); err != nil {
		log.Fatalf("[CircNodes] %v\n", err)
	}
}

// runCircNodes prints one circular node name per line and, with Graph,
// writes the node graph to <prefix>.fastg.dot.
func runCircNodes(opt optionsCircNodes, w io.Writer) error {
	fp, err := utils.OpenFile(opt.Fastg)
	if err != nil {
		return err
	}
	defer fp.Close()
	nodes, err := contig.ReadFastgNodes(fp)
	if err != nil {
		return fmt.Errorf("%s: %w", opt.Fastg, err)
	}
	circular := contig.CircularNodesOf(nodes)
	log.Infof("[runCircNodes] %d nodes, %d circular\n", len(nodes), len(circular))
	for _, name := range circular.Sorted() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	if opt.Graph {
		return writeTo(opt.Prefix+".fastg.dot", func(fp io.Writer) error { return contig.GraphvizFastg(nodes, fp) })
	}
	return nil
}

func Hits(c cli.Command) {
	gOpt, suc := utils.CheckGlobalArgs(c.Parent())
	if suc == false {
		log.Fatalf("[Hits] check global Arguments error, opt: %v\n", gOpt)
	}
	opt, suc := checkArgsHits(c)
	if suc == false {
		log.Fatalf("[Hits] check Arguments error, opt: %v\n", opt)
	}
	n, err := runHits(opt)
	if err != nil {
		log.Fatalf("[Hits] %v\n", err)
	}
	log.Infof("[Hits] %d hits written to %s\n", n, opt.Output)
}

// runHits checks the hits against each other and writes the filtered ones
// sorted by reference name.
func runHits(opt optionsHits) (int, error) {
	d, err := loadHits(opt.Coords, opt.Sam, opt.Bam)
	if err != nil {
		return 0, err
	}
	all := nucmer.Flatten(d)
	if err := nucmer.CheckLengths(all); err != nil {
		return 0, err
	}
	hits := nucmer.Filter(all, opt.MinLen, opt.MinIdentity)
	log.Debugf("[runHits] %d of %d hits kept\n", len(hits), len(all))
	err = writeTo(opt.Output, func(fp io.Writer) error { return nucmer.WriteHits(fp, hits) })
	return len(hits), err
}
