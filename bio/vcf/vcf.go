/*
Package vcf reads and writes the minimal slice of VCF this module
needs: the POS column of variable-site genome coordinates on input
(spec.md §6), and the remaining (non-recombinant) SNPs with one column
per sequence slot on output.
*/
package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bactphylo/recombine/alignment"
)

// ErrMalformedVCF is returned for a VCF missing the #CHROM header row
// or whose POS column is not an integer.
var ErrMalformedVCF = errors.New("vcf: malformed file")

// ReadPositions reads path and returns the 1-based POS column values
// in file order, plus the sample names from the #CHROM header row
// (columns after FORMAT; with no FORMAT column, no names are returned).
func ReadPositions(path string) (positions []int, sampleNames []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("vcf: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	posCol := -1
	sampleStartCol := -1
	sawHeader := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "##") {
			continue
		}
		fields := strings.Split(line, "\t")
		if strings.HasPrefix(line, "#CHROM") {
			sawHeader = true
			for i, f := range fields {
				switch f {
				case "POS":
					posCol = i
				case "FORMAT":
					sampleStartCol = i + 1
				}
			}
			if sampleStartCol == -1 {
				sampleStartCol = len(fields) // no samples present.
			}
			if sampleStartCol <= len(fields) {
				sampleNames = append(sampleNames, fields[min(sampleStartCol, len(fields)):]...)
			}
			continue
		}
		if !sawHeader || posCol < 0 {
			return nil, nil, fmt.Errorf("%w: missing #CHROM header", ErrMalformedVCF)
		}
		if posCol >= len(fields) {
			return nil, nil, fmt.Errorf("%w: record has no POS field", ErrMalformedVCF)
		}
		pos, err := strconv.Atoi(fields[posCol])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid POS %q", ErrMalformedVCF, fields[posCol])
		}
		positions = append(positions, pos)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("vcf: %w", err)
	}
	return positions, sampleNames, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Write emits a VCF listing the remaining variant sites, one row per
// site and one column per sequence slot, per spec.md §6.
func Write(w io.Writer, positions []int, names []string, matrix [][]alignment.Base) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	fmt.Fprintln(bw, "##fileformat=VCFv4.2")
	fmt.Fprint(bw, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT")
	for _, name := range names {
		fmt.Fprintf(bw, "\t%s", name)
	}
	fmt.Fprintln(bw)

	for col, pos := range positions {
		ref := referenceBase(matrix[col])
		fmt.Fprintf(bw, "REF\t%d\t.\t%s\tN\t.\tPASS\t.\tGT", pos, ref.String())
		for _, b := range matrix[col] {
			fmt.Fprintf(bw, "\t%s", b.String())
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// referenceBase picks the first concrete base in a column as REF, or N
// if every row is non-informative at that column.
func referenceBase(column []alignment.Base) alignment.Base {
	for _, b := range column {
		if b.IsReal() {
			return b
		}
	}
	return alignment.BaseN
}
