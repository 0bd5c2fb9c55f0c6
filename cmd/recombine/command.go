package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bactphylo/recombine/alignment"
	"github.com/bactphylo/recombine/ancestor"
	"github.com/bactphylo/recombine/bio/fasta"
	"github.com/bactphylo/recombine/bio/newick"
	"github.com/bactphylo/recombine/bio/phylip"
	"github.com/bactphylo/recombine/bio/stats"
	"github.com/bactphylo/recombine/bio/vcf"
	"github.com/bactphylo/recombine/phylotree"
	"github.com/bactphylo/recombine/recombination"
	"github.com/bactphylo/recombine/rescale"
)

// runCommand wires the five core components together exactly as
// SPEC_FULL.md §2's data flow describes: load alignment + tree,
// reconstruct ancestors, scan to convergence, rescale, emit.
func runCommand(c *cli.Context) error {
	store, tree, genomeLength, err := loadInputs(c)
	if err != nil {
		return err
	}

	reconciler := &ancestor.Reconciler{Verbose: c.Bool("verbose")}
	if c.Bool("verbose") {
		reconciler.PreviousRows = map[string]string{}
	}
	reconciler.Reconstruct(store, tree)

	originalCounts := rescale.OriginalBranchSNPCounts(store, tree)

	scanner := &recombination.Scanner{
		Reconciler: reconciler,
		NumThreads: c.Int("threads"),
		Verbose:    c.Bool("verbose"),
	}
	params := recombination.Params{
		MinSNPs:         c.Int("min-snps"),
		WindowMin:       c.Int("window-min"),
		WindowMax:       c.Int("window-max"),
		PValueThreshold: c.Float64("p-value"),
		TrimmingRatio:   c.Float64("trimming-ratio"),
		ExtensiveSearch: c.Bool("extensive-search"),
	}
	iterations := scanner.RunToConvergence(store, tree, params, genomeLength)
	if c.Bool("verbose") {
		log.Printf("recombine: converged after %d iterations", iterations)
	}

	recombination.FinalizeStats(store, tree, genomeLength)
	rescale.Rescale(store, tree, originalCounts)

	return emitOutputs(c, store, tree)
}

// loadInputs parses the alignment, VCF, and tree files and builds the
// alignment.Store and phylotree.Tree, per spec.md §6 Inputs.
func loadInputs(c *cli.Context) (*alignment.Store, *phylotree.Tree, int, error) {
	positions, vcfSampleNames, err := vcf.ReadPositions(c.String("vcf"))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("recombine: %w", err)
	}

	records, err := fasta.Read(c.String("alignment"))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("recombine: %w", err)
	}

	names := make([]string, len(records))
	sequences := make([][]byte, len(records))
	for i, rec := range records {
		names[i] = rec.Name
		sequences[i] = []byte(rec.Sequence)
	}
	_ = vcfSampleNames // the alignment file's own record order is authoritative for sample order.

	store, err := alignment.Load(sequences, names, positions)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("recombine: %w", err)
	}

	newickText, err := os.ReadFile(c.String("tree"))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("recombine: %w", err)
	}
	tree, err := newick.Parse(string(newickText))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("recombine: %w", err)
	}

	nameToSlot := make(map[string]int, len(names))
	for i, name := range names {
		nameToSlot[name] = i
	}
	if err := tree.AssignLeafSlots(nameToSlot); err != nil {
		return nil, nil, 0, fmt.Errorf("recombine: %w", err)
	}

	internalNames := make([]string, 0)
	tree.AssignInternalSlots(len(names))
	for i := range tree.Internal {
		internalNames = append(internalNames, fmt.Sprintf("NODE_%04d", i+1))
	}
	for i, n := range tree.Internal {
		n.Name = internalNames[i]
	}
	store.EnsureInternalRows(internalNames)

	genomeLength, err := fasta.GenomeLength(c.String("reference"))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("recombine: %w", err)
	}

	return store, tree, genomeLength, nil
}

// emitOutputs hands the final artifacts to the bio/* writers, per
// spec.md §6 Outputs.
func emitOutputs(c *cli.Context, store *alignment.Store, tree *phylotree.Tree) error {
	prefix := c.String("out-prefix")

	if err := os.WriteFile(prefix+".tre", []byte(newick.Write(tree)), 0644); err != nil {
		return fmt.Errorf("recombine: %w", err)
	}

	referenceRow := 0
	filteredCols := store.Refilter(referenceRow)
	matrix := store.Rotate(filteredCols)
	filteredPositions := make([]int, len(filteredCols))
	for i, col := range filteredCols {
		filteredPositions[i] = store.SNPLocation(col)
	}

	names := make([]string, store.NumRows())
	for i := range names {
		names[i] = store.Name(i)
	}

	phylipFile, err := os.Create(prefix + ".phylip")
	if err != nil {
		return fmt.Errorf("recombine: %w", err)
	}
	defer phylipFile.Close()
	if err := phylip.Write(phylipFile, names, matrix); err != nil {
		return fmt.Errorf("recombine: %w", err)
	}

	var records []fasta.Record
	for row, name := range names {
		seq := make([]byte, len(matrix))
		for col := range matrix {
			seq[col] = matrix[col][row].Byte()
		}
		records = append(records, fasta.Record{Name: name, Sequence: string(seq)})
	}
	if err := fasta.Write(records, prefix+".fasta"); err != nil {
		return fmt.Errorf("recombine: %w", err)
	}

	vcfFile, err := os.Create(prefix + ".vcf")
	if err != nil {
		return fmt.Errorf("recombine: %w", err)
	}
	defer vcfFile.Close()
	if err := vcf.Write(vcfFile, filteredPositions, names, matrix); err != nil {
		return fmt.Errorf("recombine: %w", err)
	}

	statsFile, err := os.Create(prefix + ".stats.tsv")
	if err != nil {
		return fmt.Errorf("recombine: %w", err)
	}
	defer statsFile.Close()
	rows := make([]alignment.Stats, store.NumRows())
	for i := range rows {
		rows[i] = *store.Stats(i)
	}
	if err := stats.Write(statsFile, names, rows); err != nil {
		return fmt.Errorf("recombine: %w", err)
	}

	return nil
}
