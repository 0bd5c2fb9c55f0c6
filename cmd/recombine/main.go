/*
recombine is the command-line driver for this module's recombination
core. Its app structure follows the teacher's poly/main.go template
almost exactly: a cli.App built by application(), a run(args) wrapper
separated out for testability, and main() reduced to run(os.Args).
*/
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	run(os.Args)
}

// run is separated from main and application for debugging's sake,
// same division of labor as the teacher's cmd entry point.
func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

// application defines the single "recombine" command and its flags,
// which mirror the tunables SPEC_FULL.md §6 CLI surface lists.
func application() *cli.App {
	return &cli.App{
		Name:  "recombine",
		Usage: "Detect recombinant blocks on a phylogenetic tree and rescale its branches.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "alignment", Required: true, Usage: "Path to the multi-FASTA alignment of samples."},
			&cli.StringFlag{Name: "tree", Required: true, Usage: "Path to the input Newick tree."},
			&cli.StringFlag{Name: "vcf", Required: true, Usage: "Path to the VCF giving variable-site genome coordinates."},
			&cli.StringFlag{Name: "reference", Required: true, Usage: "Path to a reference FASTA, used only for its genome length."},
			&cli.IntFlag{Name: "min-snps", Value: 3, Usage: "Minimum branch-unique SNPs for a branch to be scanned."},
			&cli.IntFlag{Name: "window-min", Value: 100, Usage: "Smallest window width (genome bp) to test."},
			&cli.IntFlag{Name: "window-max", Value: 10000, Usage: "Largest window width (genome bp) to test."},
			&cli.Float64Flag{Name: "p-value", Value: 0.05, Usage: "Uncorrected p-value threshold (p*)."},
			&cli.Float64Flag{Name: "trimming-ratio", Value: 0, Usage: "Fraction of each accepted block's ends to trim."},
			&cli.BoolFlag{Name: "extensive-search", Value: false, Usage: "Test every window width instead of a doubling schedule."},
			&cli.IntFlag{Name: "threads", Value: 1, Usage: "Number of branch-scan worker goroutines."},
			&cli.StringFlag{Name: "out-prefix", Value: "recombine_out", Usage: "Prefix for output files."},
			&cli.BoolFlag{Name: "verbose", Value: false, Usage: "Log per-iteration progress and reconstruction changes."},
		},
		Action: runCommand,
	}
}
