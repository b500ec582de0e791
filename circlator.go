package main

import (
	"github.com/jwaldrip/odin/cli"
	"github.com/mr-c/circlator/merge"
)

var app = cli.New("1.0.0", "merge and circularise assembly contigs using a reassembly", func(c cli.Command) {})

func init() {
	def := merge.DefaultConfig()
	app.DefineStringFlag("C", "", "configure file[yaml|toml|json]")
	app.DefineStringFlag("p", "circlator.merge", "prefix of the output file")
	app.DefineBoolFlag("v", false, "verbose, log debug messages")

	mg := app.DefineSubCommand("merge", "merge original contigs bridged by reassembly contigs and circularise closed contigs", Merge)
	{
		mg.DefineStringFlag("original", "", "original assembly contigs fasta file")
		mg.DefineStringFlag("reassembly", "", "reassembly contigs fasta file")
		mg.DefineStringFlag("coords", "", "show-coords -T file of the reassembly against the original contigs")
		mg.DefineStringFlag("sam", "", "SAM file of the reassembly contigs mapped to the original contigs")
		mg.DefineStringFlag("bam", "", "BAM file of the reassembly contigs mapped to the original contigs")
		mg.DefineStringFlag("fastg", "", "reassembly graph, its circular nodes are used to circularise")
		mg.DefineIntFlag("min-nucmer-length", def.MinNucmerLength, "minimum alignment length on the original contig")
		mg.DefineFloat64Flag("min-nucmer-identity", def.MinNucmerIdentity, "minimum alignment percent identity")
		mg.DefineIntFlag("ref-end-tolerance", def.RefEndTolerance, "max distance of an alignment to an original contig end")
		mg.DefineIntFlag("qry-end-tolerance", def.QryEndTolerance, "max distance of an alignment to a reassembly contig end")
		mg.DefineFloat64Flag("min-spades-circular-percent", def.MinSpadesCircularPercent, "min percent of a circular node covered by an alignment")
		mg.DefineStringFlag("pair-selection", def.PairSelection, "join choice among several candidates[closest|longest]")
		mg.DefineBoolFlag("Graph", false, "output dot graph file of the joins")
	}
	cn := app.DefineSubCommand("circnodes", "list the circular nodes of a FASTG assembly graph", CircNodes)
	{
		cn.DefineStringFlag("fastg", "", "input fastg file")
		cn.DefineBoolFlag("Graph", false, "output dot graph file of the fastg")
	}
	ht := app.DefineSubCommand("hits", "check alignment hits and write them as show-coords -T records", Hits)
	{
		ht.DefineStringFlag("coords", "", "input show-coords -T file")
		ht.DefineStringFlag("sam", "", "input SAM file")
		ht.DefineStringFlag("bam", "", "input BAM file")
		ht.DefineStringFlag("output", "-", "output file, compressed by suffix[.gz|.zst|.br]")
		ht.DefineIntFlag("minLen", 0, "filter by alignment length on the reference")
		ht.DefineFloat64Flag("minIdentity", 0, "filter by percent identity")
	}
}

func main() {
	app.Start()
}
