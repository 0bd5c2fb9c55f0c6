package recombination

import (
	"github.com/bactphylo/recombine/alignment"
	"github.com/bactphylo/recombine/phylotree"
)

// ApplyBlock performs spec.md §4.4 Step E for one accepted block on
// the branch leading to child: masks every concrete base at child
// within the block's genome-coordinate range to N, appends the block
// to child's block list, and updates child's statistics accumulator.
// brsnpLocations holds the genome coordinates of the branch-unique
// SNPs; the return value is how many of them lie outside the block,
// computed via ExcludeSNPSitesInBlock.
func ApplyBlock(store *alignment.Store, child *phylotree.Node, block BranchBlock, brsnpLocations []int) (remainingAfter int) {
	informative := 0
	variableSitesInBlock := 0
	for col := 0; col < store.NumColumns(); col++ {
		loc := store.SNPLocation(col)
		if loc < block.Start || loc > block.End {
			continue
		}
		variableSitesInBlock++
		b := store.Read(child.Slot, col)
		if b.IsReal() {
			store.Write(child.Slot, col, alignment.BaseN)
		}
		if b.IsReal() || b.IsAmbiguous() {
			informative++
		}
	}

	child.AppendBlock(phylotree.NewBlock(block.Start, block.End, block.SNPCount))

	stats := store.Stats(child.Slot)
	stats.NumberOfBlocks++
	stats.NumberOfRecombinations++
	stats.BasesInRecombinations += informative
	stats.BasesInRecombinationsIncludingGaps += block.End - block.Start + 1
	stats.BranchBasesInRecombinations += block.SNPCount
	// variableSitesInBlock counts every tracked variable site in range,
	// not just this branch's own branch-unique SNPs (block.SNPCount) --
	// the "including gaps" variant widens the strict brsnp count the
	// same way BasesInRecombinationsIncludingGaps widens the informative
	// count, by including sites that are gap on this particular branch.
	stats.BranchBasesInRecombinationsIncludingGaps += variableSitesInBlock

	return ExcludeSNPSitesInBlock(block.Start, block.End, brsnpLocations)
}
