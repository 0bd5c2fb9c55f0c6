package alignment

import "fmt"

// Load builds a Store from a full multi-FASTA alignment (equal-length
// sequences, one per sample) and the external VCF's POS column. It
// keeps only the columns at the given genome coordinates and computes
// which of those are true variable sites among the included rows,
// per spec.md §4.1 "load(multifasta)".
//
// sequences and names must be the same length and in input sample
// order; sequences[i] must be exactly len(genomeCoordinates) bases
// long after the caller has already projected the full genome down to
// the VCF's POS columns (bio/vcf + bio/fasta do this projection before
// calling Load).
func Load(sequences [][]byte, names []string, genomeCoordinates []int) (*Store, error) {
	if len(sequences) != len(names) {
		return nil, fmt.Errorf("alignment: %d sequences but %d names", len(sequences), len(names))
	}
	for i, seq := range sequences {
		if len(seq) != len(genomeCoordinates) {
			return nil, fmt.Errorf("%w: sample %q has %d bases, want %d", ErrRowLengthMismatch, names[i], len(seq), len(genomeCoordinates))
		}
	}
	if !isStrictlyIncreasing(genomeCoordinates) {
		return nil, ErrNonMonotonicSNPs
	}

	rows := make([][]Base, len(sequences))
	for i, seq := range sequences {
		row := make([]Base, len(seq))
		for c, raw := range seq {
			row[c] = FromByte(raw)
		}
		rows[i] = row
	}

	// Keep only columns that are genuinely variable among concrete
	// bases across the included rows.
	var keptCols []int
	var keptLoc []int
	for col := range genomeCoordinates {
		if columnVariable(rows, col) {
			keptCols = append(keptCols, col)
			keptLoc = append(keptLoc, genomeCoordinates[col])
		}
	}

	filteredRows := make([][]Base, len(rows))
	for i, row := range rows {
		fr := make([]Base, len(keptCols))
		for j, col := range keptCols {
			fr[j] = row[col]
		}
		filteredRows[i] = fr
	}

	return NewStore(filteredRows, names, keptLoc)
}

func columnVariable(rows [][]Base, col int) bool {
	seen := Base(255)
	for _, row := range rows {
		b := row[col]
		if !b.IsReal() {
			continue
		}
		if seen == 255 {
			seen = b
			continue
		}
		if b != seen {
			return true
		}
	}
	return false
}
