/*
Package rescale implements the Tree Rescaler of spec.md §4.5: after
convergence, each branch length is multiplied by
remaining_branch_snps / original_branch_snps.
*/
package rescale

import (
	"github.com/bactphylo/recombine/alignment"
	"github.com/bactphylo/recombine/phylotree"
	"github.com/bactphylo/recombine/recombination"
)

// OriginalBranchSNPCounts snapshots each branch's branch-unique SNP
// count before the masking loop runs. Call this once, right after the
// first ancestor reconstruction and before recombination.Scanner's
// convergence loop, since masking destroys the information needed for
// the "original" half of spec.md §4.5's rescaling ratio.
func OriginalBranchSNPCounts(store *alignment.Store, tree *phylotree.Tree) map[*phylotree.Node]int {
	counts := make(map[*phylotree.Node]int, len(tree.Leaves)+len(tree.Internal))
	tree.Traverse(phylotree.PreOrder, func(n *phylotree.Node) {
		if n.Parent == nil {
			return
		}
		counts[n] = len(recombination.BranchUniqueSNPs(store, n.Parent, n))
	})
	return counts
}

// Rescale multiplies every branch length by the ratio of its
// remaining (non-recombinant) branch-unique SNPs — read from store
// after convergence — to its original count from originalCounts, or
// sets it to zero when the original count was not positive, per
// spec.md §4.5 and testable property 14.
func Rescale(store *alignment.Store, tree *phylotree.Tree, originalCounts map[*phylotree.Node]int) {
	tree.RescaleBranches(func(n *phylotree.Node) float64 {
		if n.Parent == nil {
			return 1
		}
		original := originalCounts[n]
		if original <= 0 {
			return 0
		}
		remaining := len(recombination.BranchUniqueSNPs(store, n.Parent, n))
		return float64(remaining) / float64(original)
	})
}
