/*
Package stats writes the per-sample statistics table of spec.md §6,
supplementing the distilled spec with the original's
create_tree_statistics_file output (SPEC_FULL.md §9).
*/
package stats

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bactphylo/recombine/alignment"
)

var columns = []string{
	"sample_name",
	"number_of_recombinations",
	"number_of_snps",
	"genome_length_without_gaps",
	"number_of_blocks",
	"bases_in_recombinations",
	"bases_in_recombinations_including_gaps",
	"branch_bases_in_recombinations",
	"branch_bases_in_recombinations_including_gaps",
	"genome_length_excluding_blocks_and_gaps",
}

// Write emits one row per sequence slot, in the order names/rows are
// given, with the header row spec.md §6 lists.
func Write(w io.Writer, names []string, rows []alignment.Stats) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for i, col := range columns {
		if i > 0 {
			bw.WriteByte('\t')
		}
		bw.WriteString(col)
	}
	bw.WriteByte('\n')

	for i, name := range names {
		s := rows[i]
		fmt.Fprintf(bw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			name,
			s.NumberOfRecombinations,
			s.NumberOfSNPs,
			s.GenomeLengthWithoutGaps,
			s.NumberOfBlocks,
			s.BasesInRecombinations,
			s.BasesInRecombinationsIncludingGaps,
			s.BranchBasesInRecombinations,
			s.BranchBasesInRecombinationsIncludingGaps,
			s.GenomeLengthExcludingBlocksAndGaps,
		)
	}
	return bw.Flush()
}
