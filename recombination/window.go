package recombination

import (
	"math"

	"github.com/bactphylo/recombine/alignment"
)

// Params bundles the tunables of spec.md §6 CLI surface that govern
// the window-scan test and block geometry.
type Params struct {
	MinSNPs         int
	WindowMin       int
	WindowMax       int
	PValueThreshold float64
	TrimmingRatio   float64
	ExtensiveSearch bool
}

// Candidate is a genomic window whose branch-unique SNP density test
// gives a p-value below the configured threshold.
type Candidate struct {
	Start, End int // genome coordinates, inclusive
	SNPCount   int
	PValue     float64
}

// ScanWindows runs the window-scan density test of spec.md §4.4 Step C
// over a branch's SNP columns. store gives genome coordinates via
// SNPLocation; brsnp is the branch-unique SNP column list (Step A);
// informativeLength is L_eff for the whole branch (used to set the
// null substitution rate n/L_eff).
func ScanWindows(store *alignment.Store, parentSlot, childSlot int, brsnp []int, informativeLength int, params Params) []Candidate {
	n := len(brsnp)
	if n < params.MinSNPs || informativeLength <= 0 {
		return nil
	}
	rate := float64(n) / float64(informativeLength)

	widths := windowWidths(params)
	var candidates []Candidate
	for _, width := range widths {
		candidates = append(candidates, scanOneWidth(store, brsnp, width, rate, params)...)
	}
	return dedupeOverlapping(candidates)
}

// windowWidths returns the sequence of window widths to try, per
// spec.md §4.4: every width in [window_min, window_max] when
// extensive_search is enabled, otherwise a doubling schedule.
func windowWidths(params Params) []int {
	if params.WindowMax < params.WindowMin {
		return nil
	}
	if params.ExtensiveSearch {
		widths := make([]int, 0, params.WindowMax-params.WindowMin+1)
		for w := params.WindowMin; w <= params.WindowMax; w++ {
			widths = append(widths, w)
		}
		return widths
	}
	var widths []int
	for w := params.WindowMin; w <= params.WindowMax; w *= 2 {
		widths = append(widths, w)
		if w == 0 {
			break
		}
	}
	if len(widths) == 0 || widths[len(widths)-1] != params.WindowMax {
		widths = append(widths, params.WindowMax)
	}
	return widths
}

// scanOneWidth slides a window of the given genome-coordinate width
// across every branch-unique SNP's neighborhood, testing each offset
// anchored at a branch-unique SNP (sufficient to find every maximal
// significant window, since a window's significance only changes at
// SNP boundaries).
func scanOneWidth(store *alignment.Store, brsnp []int, width int, rate float64, params Params) []Candidate {
	var out []Candidate
	for _, anchorCol := range brsnp {
		anchorLoc := store.SNPLocation(anchorCol)
		start := anchorLoc
		end := start + width - 1

		k, nw := windowCounts(store, brsnp, start, end)
		if k < params.MinSNPs {
			continue
		}
		p := UpperTailProbability(k, nw, rate)
		if p < params.PValueThreshold {
			out = append(out, Candidate{Start: start, End: end, SNPCount: k, PValue: p})
		}
	}
	return out
}

// windowCounts returns k (branch-unique SNPs in [start,end]) and N_w,
// which is the full window width end-start+1. Unlike InformativeLength
// for the whole branch, N_w does not subtract SNP columns that are gap
// at either endpoint; every position in the window counts as a trial.
func windowCounts(store *alignment.Store, brsnp []int, start, end int) (k, nw int) {
	brsnpSet := make(map[int]bool, len(brsnp))
	for _, c := range brsnp {
		brsnpSet[c] = true
	}
	nw = end - start + 1
	for col := 0; col < store.NumColumns(); col++ {
		loc := store.SNPLocation(col)
		if loc < start || loc > end {
			continue
		}
		if brsnpSet[col] {
			k++
		}
	}
	return k, nw
}

// dedupeOverlapping keeps, among overlapping candidates, the one with
// the smallest p-value; ties are broken by earlier start, then by
// greater length, per spec.md §4.4 Step C tie-break rule. Each
// candidate is compared only with the first kept candidate it
// overlaps, so the result depends on the input order; ScanWindows
// supplies candidates in a fixed order (width schedule, then anchor
// SNP), which keeps the result deterministic for a given branch.
func dedupeOverlapping(candidates []Candidate) []Candidate {
	if len(candidates) == 0 {
		return nil
	}
	better := func(a, b Candidate) bool {
		if a.PValue != b.PValue {
			return a.PValue < b.PValue
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return (a.End - a.Start) > (b.End - b.Start)
	}

	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		overlapIdx := -1
		for i, k := range kept {
			if overlaps(c, k) {
				overlapIdx = i
				break
			}
		}
		if overlapIdx == -1 {
			kept = append(kept, c)
			continue
		}
		if better(c, kept[overlapIdx]) {
			kept[overlapIdx] = c
		}
	}
	return sortCandidates(kept)
}

func overlaps(a, b Candidate) bool {
	return a.Start <= b.End && b.Start <= a.End
}

func sortCandidates(cs []Candidate) []Candidate {
	out := append([]Candidate(nil), cs...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Start > out[j].Start; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// poissonUpperTail is retained as an alternate null model, the classic
// large-count approximation, next to the normal approximation used by
// UpperTailProbability; ScanWindows does not use it (see DESIGN.md
// Open Question 1) but it is
// exercised directly in pvalue_test.go to pin its behavior against
// UpperTailProbability on shared fixtures.
func poissonUpperTail(k int, lambda float64) float64 {
	if math.IsNaN(lambda) {
		return 1
	}
	if lambda <= 0 {
		if k <= 0 {
			return 1
		}
		return 0
	}
	// P(X >= k) = 1 - P(X <= k-1), with the CDF summed directly from
	// the Poisson probability masses for 0..k-1.
	sum := 0.0
	term := math.Exp(-lambda)
	for i := 0; i < k; i++ {
		sum += term
		term *= lambda / float64(i+1)
	}
	return 1 - sum
}
