package alignment

import (
	"errors"
	"fmt"

	"lukechampine.com/blake3"
)

// ErrRowLengthMismatch is returned when an input alignment's sequences
// are not all the same length.
var ErrRowLengthMismatch = errors.New("alignment: row length mismatch")

// ErrNonMonotonicSNPs is returned when a caller attempts to install a
// snp_location slice that is not strictly increasing.
var ErrNonMonotonicSNPs = errors.New("alignment: snp locations are not strictly increasing")

// Stats accumulates the per-sequence-slot statistics of spec.md §3.
type Stats struct {
	NumberOfRecombinations                   int
	NumberOfSNPs                             int
	GenomeLengthWithoutGaps                  int
	NumberOfBlocks                           int
	BasesInRecombinations                    int
	BasesInRecombinationsIncludingGaps       int
	BranchBasesInRecombinations              int
	BranchBasesInRecombinationsIncludingGaps int
	GenomeLengthExcludingBlocksAndGaps       int
}

// Store is the Alignment Store of spec.md §4.1: a rectangular grid of
// Base values indexed by (sequence slot, variable-site column), plus
// the strictly increasing genome coordinates those columns correspond
// to and one Stats accumulator per slot.
type Store struct {
	rows        [][]Base
	snpLocation []int
	names       []string // sample/internal-node names, parallel to rows
	stats       []Stats
	numSamples  int
}

// NewStore builds a Store from S equal-length sample rows already
// split into Base values and the genome coordinate each column
// corresponds to. The caller (bio/fasta + bio/vcf glue) is responsible
// for turning raw file contents into this shape; see cmd/recombine.
func NewStore(sampleRows [][]Base, sampleNames []string, snpLocation []int) (*Store, error) {
	if len(sampleRows) != len(sampleNames) {
		return nil, fmt.Errorf("alignment: %d rows but %d names", len(sampleRows), len(sampleNames))
	}
	width := len(snpLocation)
	for i, row := range sampleRows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: sample %q has %d columns, want %d", ErrRowLengthMismatch, sampleNames[i], len(row), width)
		}
	}
	if !isStrictlyIncreasing(snpLocation) {
		return nil, ErrNonMonotonicSNPs
	}

	s := &Store{
		rows:        make([][]Base, len(sampleRows)),
		snpLocation: append([]int(nil), snpLocation...),
		names:       append([]string(nil), sampleNames...),
		stats:       make([]Stats, len(sampleRows)),
		numSamples:  len(sampleRows),
	}
	for i, row := range sampleRows {
		s.rows[i] = append([]Base(nil), row...)
	}
	return s, nil
}

func isStrictlyIncreasing(xs []int) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}

// EnsureInternalRows appends one all-N row for each internal tree
// node, named by the corresponding entry of names. It is an error to call
// this more than once on the same Store.
func (s *Store) EnsureInternalRows(names []string) {
	width := len(s.snpLocation)
	for _, name := range names {
		row := make([]Base, width)
		for i := range row {
			row[i] = BaseN
		}
		s.rows = append(s.rows, row)
		s.names = append(s.names, name)
		s.stats = append(s.stats, Stats{})
	}
}

// NumRows returns S + I, the total number of sequence slots.
func (s *Store) NumRows() int { return len(s.rows) }

// NumSamples returns S, the number of input leaf samples.
func (s *Store) NumSamples() int { return s.numSamples }

// NumColumns returns the current column count (length of snp_location).
func (s *Store) NumColumns() int { return len(s.snpLocation) }

// SNPLocation returns the genome coordinate for column col.
func (s *Store) SNPLocation(col int) int { return s.snpLocation[col] }

// Name returns the sample or internal-node identifier for slot row.
func (s *Store) Name(row int) string { return s.names[row] }

// Stats returns a pointer to the mutable statistics accumulator for slot row.
func (s *Store) Stats(row int) *Stats { return &s.stats[row] }

// Read returns the base at (row, col). O(1).
func (s *Store) Read(row, col int) Base { return s.rows[row][col] }

// Write sets the base at (row, col). A write that would replace a
// concrete base with the identical concrete base is a silent no-op,
// per spec.md §4.1; every other transition (including Base->N masking
// and N->Base reconstruction) is applied.
func (s *Store) Write(row, col int, b Base) {
	cur := s.rows[row][col]
	if cur == b && cur.IsReal() {
		return
	}
	s.rows[row][col] = b
}

// ColumnIsSNP reports whether at least one included row at column col
// holds a concrete base distinct from referenceBase.
func (s *Store) ColumnIsSNP(col int, referenceBase Base) bool {
	for row := 0; row < len(s.rows); row++ {
		b := s.rows[row][col]
		if b.IsReal() && b != referenceBase {
			return true
		}
	}
	return false
}

// Refilter recomputes, after a full inference pass, which columns
// still contain at least two distinct concrete bases, using
// referenceRow's base at each column as the comparison point. It
// returns the filtered column indices (in original column order) and
// their count K. Used to drop columns that became monomorphic once
// recombinant bases were masked to N.
func (s *Store) Refilter(referenceRow int) []int {
	var kept []int
	for col := 0; col < len(s.snpLocation); col++ {
		ref := s.rows[referenceRow][col]
		if !ref.IsReal() {
			// No concrete reference base: fall back to "any two rows differ".
			if s.columnHasTwoDistinct(col) {
				kept = append(kept, col)
			}
			continue
		}
		if s.ColumnIsSNP(col, ref) {
			kept = append(kept, col)
		}
	}
	return kept
}

func (s *Store) columnHasTwoDistinct(col int) bool {
	seen := Base(255)
	for row := 0; row < len(s.rows); row++ {
		b := s.rows[row][col]
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

// Rotate produces a column-major [K][rows] view over the given
// filtered columns, substituting N for any row position equal to gap
// — used by the downstream PHYLIP/FASTA/VCF emitters.
func (s *Store) Rotate(filteredColumns []int) [][]Base {
	out := make([][]Base, len(filteredColumns))
	for i, col := range filteredColumns {
		rowValues := make([]Base, len(s.rows))
		for row := range s.rows {
			b := s.rows[row][col]
			if b.IsGap() {
				b = BaseN
			}
			rowValues[row] = b
		}
		out[i] = rowValues
	}
	return out
}

// RowHash returns a stable content digest of row, used to verify
// reconstruction determinism (testable property 12) without comparing
// full row contents in every test.
func (s *Store) RowHash(row int) [32]byte {
	buf := make([]byte, len(s.rows[row]))
	for i, b := range s.rows[row] {
		buf[i] = b.Byte()
	}
	return blake3.Sum256(buf)
}
