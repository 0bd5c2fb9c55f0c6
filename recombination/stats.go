package recombination

import (
	"github.com/bactphylo/recombine/alignment"
	"github.com/bactphylo/recombine/phylotree"
)

// FinalizeStats fills in the statistics fields that only make sense
// once the outer convergence loop (Scanner.RunToConvergence) has
// stopped: the remaining branch-unique SNP count, and the two
// genome-length fields, per spec.md §3's per-sample accumulator list.
// The per-block fields (NumberOfBlocks, BasesInRecombinations, ...)
// are already filled in incrementally by ApplyBlock.
func FinalizeStats(store *alignment.Store, tree *phylotree.Tree, genomeLength int) {
	tree.Traverse(phylotree.PreOrder, func(n *phylotree.Node) {
		s := store.Stats(n.Slot)
		s.GenomeLengthWithoutGaps = countNonGap(store, n.Slot)
		s.GenomeLengthExcludingBlocksAndGaps = s.GenomeLengthWithoutGaps - s.BasesInRecombinations

		if n.Parent == nil {
			return
		}
		s.NumberOfSNPs = len(BranchUniqueSNPs(store, n.Parent, n))
	})
}

func countNonGap(store *alignment.Store, slot int) int {
	count := 0
	for col := 0; col < store.NumColumns(); col++ {
		if !store.Read(slot, col).IsGap() {
			count++
		}
	}
	return count
}
