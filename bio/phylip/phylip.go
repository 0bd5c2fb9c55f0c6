/*
Package phylip writes the filtered variant-site matrix in PHYLIP
format (spec.md §6), grounded on the name-padded-row contract of
original_source/src/parse_phylip.h.
*/
package phylip

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bactphylo/recombine/alignment"
)

// nameFieldWidth is the fixed width PHYLIP pads sample names to.
const nameFieldWidth = 10

// Write emits a relaxed-PHYLIP-style alignment: a header line with the
// sequence count and column count, then one row per sequence slot with
// its name padded to nameFieldWidth followed by its bases.
func Write(w io.Writer, names []string, matrix [][]alignment.Base) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	numSeqs := 0
	if len(matrix) > 0 {
		numSeqs = len(matrix[0])
	}
	fmt.Fprintf(bw, " %d %d\n", numSeqs, len(matrix))

	for row := 0; row < numSeqs; row++ {
		fmt.Fprintf(bw, "%-*s", nameFieldWidth, names[row])
		for col := 0; col < len(matrix); col++ {
			bw.WriteByte(matrix[col][row].Byte())
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
