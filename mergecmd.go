package main

import (
	"fmt"
	"io"

	"github.com/jwaldrip/odin/cli"
	"github.com/mr-c/circlator/contig"
	"github.com/mr-c/circlator/merge"
	"github.com/mr-c/circlator/nucmer"
	"github.com/mr-c/circlator/utils"
	log "github.com/sirupsen/logrus"
)

type optionsMerge struct {
	utils.ArgsOpt
	Original   string
	Reassembly string
	Coords     string
	Sam        string
	Bam        string
	Fastg      string
	Graph      bool
	Cfg        merge.Config
}

func checkArgsMerge(c cli.Command) (opt optionsMerge, suc bool) {
	opt.Original = c.Flag("original").String()
	opt.Reassembly = c.Flag("reassembly").String()
	opt.Coords = c.Flag("coords").String()
	opt.Sam = c.Flag("sam").String()
	opt.Bam = c.Flag("bam").String()
	opt.Fastg = c.Flag("fastg").String()
	opt.Graph = c.Flag("Graph").Get().(bool)
	if opt.Original == "" || opt.Reassembly == "" {
		log.Errorf("[checkArgsMerge] args 'original' and 'reassembly' must be set\n")
		return opt, false
	}
	if countSet(opt.Coords, opt.Sam, opt.Bam) != 1 {
		log.Errorf("[checkArgsMerge] exactly one of 'coords', 'sam', 'bam' must be set\n")
		return opt, false
	}
	return opt, true
}

func countSet(fns ...string) (n int) {
	for _, fn := range fns {
		if fn != "" {
			n++
		}
	}
	return
}

// flagConfig lays the flags that differ from the compiled defaults over cfg.
func flagConfig(c cli.Command, cfg merge.Config) merge.Config {
	def := merge.DefaultConfig()
	if v := c.Flag("min-nucmer-length").Get().(int); v != def.MinNucmerLength {
		cfg.MinNucmerLength = v
	}
	if v := c.Flag("min-nucmer-identity").Get().(float64); v != def.MinNucmerIdentity {
		cfg.MinNucmerIdentity = v
	}
	if v := c.Flag("ref-end-tolerance").Get().(int); v != def.RefEndTolerance {
		cfg.RefEndTolerance = v
	}
	if v := c.Flag("qry-end-tolerance").Get().(int); v != def.QryEndTolerance {
		cfg.QryEndTolerance = v
	}
	if v := c.Flag("min-spades-circular-percent").Get().(float64); v != def.MinSpadesCircularPercent {
		cfg.MinSpadesCircularPercent = v
	}
	if v := c.Flag("pair-selection").String(); v != def.PairSelection {
		cfg.PairSelection = v
	}
	return cfg
}

func Merge(c cli.Command) {
	gOpt, suc := utils.CheckGlobalArgs(c.Parent())
	if suc == false {
		log.Fatalf("[Merge] check global Arguments error, opt: %v\n", gOpt)
	}
	opt, suc := checkArgsMerge(c)
	if suc == false {
		log.Fatalf("[Merge] check Arguments error, opt: %v\n", opt)
	}
	opt.ArgsOpt = gOpt
	cfg, err := merge.LoadConfig(gOpt.CfgFn)
	if err != nil {
		log.Fatalf("[Merge] %v\n", err)
	}
	opt.Cfg = flagConfig(c, cfg)
	if err := opt.Cfg.Validate(); err != nil {
		log.Fatalf("[Merge] %v\n", err)
	}
	log.Infof("[Merge] Arguments: %+v\n", opt)

	res, err := runMerge(opt)
	if err != nil {
		log.Fatalf("[Merge] %v\n", err)
	}
	log.Infof("[Merge] %d contigs written to %s.fasta, removed: %d, circularised: %d, reassembly contigs used: %d\n",
		len(res.Contigs), opt.Prefix, len(res.Removed), len(res.Circularised), len(res.Consumed))
}

func loadHits(coords, sam, bam string) (map[string][]nucmer.Hit, error) {
	if coords != "" {
		return nucmer.LoadHitsFile(coords)
	}
	fn, load := sam, nucmer.LoadSAMHits
	if bam != "" {
		fn, load = bam, nucmer.LoadBAMHits
	}
	fp, err := utils.OpenFile(fn)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	hits, err := load(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	log.Debugf("[loadHits] loaded %d hits from %s\n", len(hits), fn)
	return nucmer.GroupByRef(hits), nil
}

// runMerge loads the inputs named by opt, runs one merge and writes
// <prefix>.fasta, <prefix>.log, <prefix>.summary.yaml and, with Graph,
// <prefix>.joins.dot.
func runMerge(opt optionsMerge) (*merge.Result, error) {
	original, err := contig.ReadFastaFile(opt.Original)
	if err != nil {
		return nil, err
	}
	reassembly, err := contig.ReadFastaFile(opt.Reassembly)
	if err != nil {
		return nil, err
	}
	hits, err := loadHits(opt.Coords, opt.Sam, opt.Bam)
	if err != nil {
		return nil, err
	}
	circular := contig.NewNameSet()
	if opt.Fastg != "" {
		if circular, err = contig.CircularNodesFile(opt.Fastg); err != nil {
			return nil, err
		}
		log.Debugf("[runMerge] %d circular nodes in %s\n", len(circular), opt.Fastg)
	}

	res, err := merge.NewMerger(opt.Cfg, original, reassembly, circular).Run(hits)
	if err != nil {
		return nil, err
	}

	if err := contig.WriteFastaFile(opt.Prefix+".fasta", res.Contigs); err != nil {
		return nil, err
	}
	if err := writeTo(opt.Prefix+".log", func(fp io.Writer) error { return merge.WriteEvents(fp, res.Events) }); err != nil {
		return nil, err
	}
	sum := merge.NewSummary(opt.Cfg, res)
	if err := writeTo(opt.Prefix+".summary.yaml", func(fp io.Writer) error { return merge.WriteSummary(fp, sum) }); err != nil {
		return nil, err
	}
	if opt.Graph {
		if err := writeTo(opt.Prefix+".joins.dot", func(fp io.Writer) error { return merge.GraphvizJoins(res, fp) }); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func writeTo(fn string, write func(fp io.Writer) error) error {
	fp, err := utils.CreateFile(fn)
	if err != nil {
		return err
	}
	if err := write(fp); err != nil {
		fp.Close()
		return fmt.Errorf("[writeTo] write file: %s failed: %w", fn, err)
	}
	return fp.Close()
}
