package recombination

import "sort"

// BranchBlock is a candidate or accepted block in genome-coordinate
// space, used internally by the merge/extend geometry before a block
// is promoted to a phylotree.Block (scan.go only promotes surviving
// entries, so a merged-away candidate is never seen by the tree
// model at all). MergeAdjacent drops a subsumed candidate from its
// result slice outright rather than zeroing it in place; testable
// property 2's "count decreases" half is what TestMergeAdjacentBlocksBesideEachOther
// and its neighbors pin directly against MergeAdjacent's output.
type BranchBlock struct {
	Start, End int
	SNPCount   int
}

// ExtendRight advances a block's End across a run of genome-coordinate-
// contiguous variable sites to the rightmost branch-unique SNP among
// them, per spec.md §4.4 "Extend right over gap". snpCols is every
// variable-site column's genome coordinate in increasing order;
// brsnpSet marks which of those columns are branch-unique SNPs;
// branchIsGap reports whether the branch's effective sequence is gap
// at a given column index into snpCols.
//
// Contiguity is checked in genome coordinates, not column index: a
// tracked column only extends the reach of the previous one when its
// coordinate is exactly one more than its predecessor's. A jump across
// untracked genome (no column in between) breaks the chain even
// though both ends are themselves tracked columns, per testable
// property 7. Within one contiguous run, every branch-unique SNP
// reached updates the candidate end; a non-gap, non-SNP column halts
// the scan (it cannot arise from EffectiveBranchSequence in
// production, where every column is one or the other, but the
// function stays defensive about it).
func ExtendRight(end int, snpCols []int, brsnpSet map[int]bool, branchIsGap func(colIdx int) bool) int {
	idx := indexAtOrAfter(snpCols, end)
	if idx < 0 || snpCols[idx] != end {
		return end // end is not itself a variable-site coordinate; nothing to extend from.
	}
	result := end
	for i := idx + 1; i < len(snpCols); i++ {
		if snpCols[i] != snpCols[i-1]+1 {
			break // coordinate jump: the chain of tracked positions breaks here.
		}
		if brsnpSet[i] {
			result = snpCols[i]
			continue
		}
		if !branchIsGap(i) {
			break
		}
	}
	return result
}

// ExtendLeft is the mirror of ExtendRight, advancing Start leftward.
func ExtendLeft(start int, snpCols []int, brsnpSet map[int]bool, branchIsGap func(colIdx int) bool) int {
	idx := indexAtOrAfter(snpCols, start)
	if idx < 0 || snpCols[idx] != start {
		return start
	}
	result := start
	for i := idx - 1; i >= 0; i-- {
		if snpCols[i] != snpCols[i+1]-1 {
			break
		}
		if brsnpSet[i] {
			result = snpCols[i]
			continue
		}
		if !branchIsGap(i) {
			break
		}
	}
	return result
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func indexAtOrAfter(xs []int, v int) int {
	i := sort.SearchInts(xs, v)
	if i >= len(xs) {
		return -1
	}
	return i
}

// MergeAdjacent merges blocks on the same branch until a fixed point,
// per spec.md §4.4 Step D: two blocks (a,b) and (c,d) merge into (a,d)
// when b >= c-1 (touching or overlapping) or when every variable site
// between them on this branch is gap ("straddles a gap"). The merged
// end is max(b,d), not d unconditionally: after ExtendLeft/ExtendRight
// run on candidates (see scan.go) a block can fully nest inside its
// neighbor, and taking the later block's End regardless would silently
// drop the outer block's tail. snpCols and branchIsGap give the same
// branch-sequence view ExtendRight/ExtendLeft use. Input blocks need
// not be sorted; the result is sorted by Start.
func MergeAdjacent(blocks []BranchBlock, snpCols []int, branchIsGap func(colIdx int) bool) []BranchBlock {
	if len(blocks) == 0 {
		return nil
	}
	cur := append([]BranchBlock(nil), blocks...)
	sort.Slice(cur, func(i, j int) bool { return cur[i].Start < cur[j].Start })

	for {
		merged := false
		var next []BranchBlock
		i := 0
		for i < len(cur) {
			if i+1 < len(cur) && shouldMerge(cur[i], cur[i+1], snpCols, branchIsGap) {
				next = append(next, BranchBlock{
					Start:    cur[i].Start,
					End:      maxInt(cur[i].End, cur[i+1].End),
					SNPCount: cur[i].SNPCount + cur[i+1].SNPCount,
				})
				i += 2
				merged = true
				continue
			}
			next = append(next, cur[i])
			i++
		}
		cur = next
		if !merged {
			break
		}
	}
	return cur
}

func shouldMerge(a, b BranchBlock, snpCols []int, branchIsGap func(colIdx int) bool) bool {
	if b.Start <= a.End+1 {
		return true
	}
	return straddlesOnlyGaps(a.End, b.Start, snpCols, branchIsGap)
}

// straddlesOnlyGaps reports whether at least one variable site lies
// strictly between genome coordinates lo and hi and every such site is
// gap on this branch. A span with no tracked variable sites in it at
// all is NOT treated as gap: this module's store only records variable
// sites, so an empty interior means "no evidence either way," not
// "confirmed gap" — two distant blocks separated by ordinary
// non-variant genome must not merge just because nothing variable
// happens to lie between them.
func straddlesOnlyGaps(lo, hi int, snpCols []int, branchIsGap func(colIdx int) bool) bool {
	found := false
	for i, loc := range snpCols {
		if loc <= lo || loc >= hi {
			continue
		}
		if !branchIsGap(i) {
			return false
		}
		found = true
	}
	return found
}

// TrimBlock applies the post-acceptance edge trim of trimming_ratio
// (spec.md §9 Open Question resolution): trimming_ratio/2 of the
// block's genome-coordinate length is trimmed from each end, floored,
// but never past the innermost branch-unique SNP coordinate
// (innermostStart, innermostEnd), so a block never loses its own
// evidence entirely.
func TrimBlock(b BranchBlock, trimmingRatio float64, innermostStart, innermostEnd int) BranchBlock {
	if trimmingRatio <= 0 {
		return b
	}
	length := b.End - b.Start + 1
	trim := int(float64(length) * trimmingRatio / 2)
	start := b.Start + trim
	end := b.End - trim
	if start > innermostStart {
		start = innermostStart
	}
	if end < innermostEnd {
		end = innermostEnd
	}
	if start > end {
		start, end = b.Start, b.End
	}
	return BranchBlock{Start: start, End: end, SNPCount: b.SNPCount}
}

// ExcludeSNPSitesInBlock returns the count of entries in list that lie
// outside [start, end], per spec.md §4.4 Step E
// "exclude_snp_sites_in_block". list need not be sorted.
func ExcludeSNPSitesInBlock(start, end int, list []int) int {
	count := 0
	for _, loc := range list {
		if loc < start || loc > end {
			count++
		}
	}
	return count
}
