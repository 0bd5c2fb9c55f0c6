/*
Package recombination is the Branch Recombination Scanner of spec.md
§4.4: for each branch it computes branch-unique SNPs, runs the
window-scan density test, merges and extends candidate blocks over
gaps, masks accepted bases, and updates per-sample statistics. It is
re-run to a fixed point in post-order across the whole tree (§4.4 Step
F) by a bounded worker pool (§5).
*/
package recombination

import (
	"github.com/bactphylo/recombine/alignment"
	"github.com/bactphylo/recombine/phylotree"
)

// BranchUniqueSNPs returns, in column order, the column indices where
// the concrete base at the child differs from the concrete base at
// the parent. Columns where either endpoint is non-informative (N or
// gap) do not contribute, per spec.md §4.4 Step A.
func BranchUniqueSNPs(store *alignment.Store, parent, child *phylotree.Node) []int {
	var cols []int
	for col := 0; col < store.NumColumns(); col++ {
		p := store.Read(parent.Slot, col)
		c := store.Read(child.Slot, col)
		if p.IsReal() && c.IsReal() && p != c {
			cols = append(cols, col)
		}
	}
	return cols
}

// EffectiveBranchSequence builds the per-branch string of spec.md
// §4.4 Step B: length equal to the column count, the child's base at
// every branch-unique-SNP column, gap everywhere else.
func EffectiveBranchSequence(store *alignment.Store, child *phylotree.Node, brsnp []int) []alignment.Base {
	seq := make([]alignment.Base, store.NumColumns())
	for i := range seq {
		seq[i] = alignment.BaseGap
	}
	for _, col := range brsnp {
		seq[col] = store.Read(child.Slot, col)
	}
	return seq
}

// InformativeLength computes L_eff: genomeLength (the reference genome
// length, from bio/fasta.GenomeLength) minus the number of known SNP
// columns where either endpoint is gap. Only SNP columns are tracked
// by the Alignment Store (spec.md §3 scopes the store to variable
// sites), so non-variable genome positions are assumed informative by
// construction — they cannot carry a branch-unique SNP and the store
// has no per-endpoint gap record for them. This is the L_eff
// resolution of the Open Question in spec.md §9; see DESIGN.md.
func InformativeLength(store *alignment.Store, parent, child *phylotree.Node, genomeLength int) int {
	length := genomeLength
	for col := 0; col < store.NumColumns(); col++ {
		p := store.Read(parent.Slot, col)
		c := store.Read(child.Slot, col)
		if p.IsGap() || c.IsGap() {
			length--
		}
	}
	if length < 0 {
		length = 0
	}
	return length
}
