package recombination

import (
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/bactphylo/recombine/alignment"
	"github.com/bactphylo/recombine/ancestor"
	"github.com/bactphylo/recombine/phylotree"
)

// ScanBranch runs spec.md §4.4 Steps A-E for one branch (parent -> child).
// It returns the number of blocks accepted on this branch during this
// pass. A branch with fewer than params.MinSNPs branch-unique SNPs, or
// whose informative length is zero, is skipped per §4.4 failure
// semantics.
func ScanBranch(store *alignment.Store, parent, child *phylotree.Node, params Params, genomeLength int) int {
	brsnp := BranchUniqueSNPs(store, parent, child)
	if len(brsnp) < params.MinSNPs {
		return 0
	}
	informativeLength := InformativeLength(store, parent, child, genomeLength)
	if informativeLength <= 0 {
		return 0
	}

	candidates := ScanWindows(store, parent.Slot, child.Slot, brsnp, informativeLength, params)
	if len(candidates) == 0 {
		return 0
	}

	snpCols, brsnpSet, branchIsGap := branchView(store, child, brsnp)

	blocks := make([]BranchBlock, 0, len(candidates))
	for _, c := range candidates {
		blocks = append(blocks, BranchBlock{Start: c.Start, End: c.End, SNPCount: c.SNPCount})
	}

	// Extend every candidate over gap before merging, per Step D.
	for i, b := range blocks {
		b.Start = ExtendLeft(b.Start, snpCols, brsnpSet, branchIsGap)
		b.End = ExtendRight(b.End, snpCols, brsnpSet, branchIsGap)
		blocks[i] = b
	}

	blocks = MergeAdjacent(blocks, snpCols, branchIsGap)

	brsnpLocations := make([]int, len(brsnp))
	for i, col := range brsnp {
		brsnpLocations[i] = store.SNPLocation(col)
	}

	accepted := 0
	for _, b := range blocks {
		innerStart, innerEnd := innermostSNPBounds(b, brsnpLocations)
		trimmed := TrimBlock(b, params.TrimmingRatio, innerStart, innerEnd)
		ApplyBlock(store, child, trimmed, brsnpLocations)
		accepted++
	}
	return accepted
}

// innermostSNPBounds returns the genome-coordinate range spanned by
// the branch-unique SNPs actually falling within b, so TrimBlock never
// trims away the evidence that justified accepting the block. If no
// tracked SNP location falls within b (can happen after extension
// pulls the boundary past the last known branch-unique SNP), b's own
// bounds are returned, disabling trimming for that block.
func innermostSNPBounds(b BranchBlock, brsnpLocations []int) (start, end int) {
	start, end = b.End, b.Start
	found := false
	for _, loc := range brsnpLocations {
		if loc < b.Start || loc > b.End {
			continue
		}
		if !found || loc < start {
			start = loc
		}
		if !found || loc > end {
			end = loc
		}
		found = true
	}
	if !found {
		return b.Start, b.End
	}
	return start, end
}

// branchView builds the lookup structures ExtendLeft/ExtendRight/
// MergeAdjacent need: every variable-site genome coordinate in
// increasing order, which of those columns are branch-unique SNPs,
// and a gap predicate over the child's effective branch sequence
// (spec.md §4.4 Step B).
func branchView(store *alignment.Store, child *phylotree.Node, brsnp []int) ([]int, map[int]bool, func(int) bool) {
	snpCols := make([]int, store.NumColumns())
	for col := range snpCols {
		snpCols[col] = store.SNPLocation(col)
	}
	brsnpSet := make(map[int]bool, len(brsnp))
	for _, col := range brsnp {
		brsnpSet[col] = true
	}
	effective := EffectiveBranchSequence(store, child, brsnp)
	branchIsGap := func(colIdx int) bool { return effective[colIdx].IsGap() }
	return snpCols, brsnpSet, branchIsGap
}

// Scanner drives the outer fixed-point loop of spec.md §4.4 Step F and
// the §5 parallel-workers-over-branches scheduling within each pass.
type Scanner struct {
	Reconciler *ancestor.Reconciler
	NumThreads int
	Verbose    bool
}

// RunToConvergence repeatedly reconstructs ancestors and scans every
// branch until no branch accepts any block in a pass, per spec.md
// §4.4 Step F / testable property 13. genomeLength is the reference
// genome length used for L_eff. It returns the number of outer
// iterations performed.
func (s *Scanner) RunToConvergence(store *alignment.Store, tree *phylotree.Tree, params Params, genomeLength int) int {
	iteration := 0
	for {
		iteration++
		s.Reconciler.Reconstruct(store, tree)

		branches := collectBranches(tree)
		acceptedThisPass := s.scanBranchesConcurrently(store, branches, params, genomeLength)

		if s.Verbose {
			log.Printf("recombination: iteration %d accepted %d blocks across %d branches", iteration, acceptedThisPass, len(branches))
		}
		if acceptedThisPass == 0 {
			return iteration
		}
	}
}

type branch struct {
	parent, child *phylotree.Node
}

// collectBranches lists every (parent, child) branch in the tree in
// post-order, excluding the root (which has no parent). Within one outer pass
// these are independent: masking only touches the child's row, and
// BranchUniqueSNPs only reads rows parent/child, which are disjoint
// across sibling branches (spec.md §5).
func collectBranches(tree *phylotree.Tree) []branch {
	var branches []branch
	tree.Traverse(phylotree.PostOrder, func(n *phylotree.Node) {
		if n.Parent != nil {
			branches = append(branches, branch{parent: n.Parent, child: n})
		}
	})
	return branches
}

// scanBranchesConcurrently runs ScanBranch over every branch using a
// bounded worker pool, following the same golang.org/x/sync/errgroup
// idiom the teacher's bio/bio.go uses to parallelize record parsing,
// bounded via SetLimit since the branch count can exceed the desired
// parallelism.
func (s *Scanner) scanBranchesConcurrently(store *alignment.Store, branches []branch, params Params, genomeLength int) int {
	threads := s.NumThreads
	if threads < 1 {
		threads = 1
	}

	var g errgroup.Group
	g.SetLimit(threads)
	results := make([]int, len(branches))

	for i, br := range branches {
		i, br := i, br
		g.Go(func() error {
			results[i] = ScanBranch(store, br.parent, br.child, params, genomeLength)
			return nil
		})
	}
	g.Wait()

	total := 0
	for _, r := range results {
		total += r
	}
	return total
}
