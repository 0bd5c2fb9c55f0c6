/*
Package alignment owns the rectangular matrix of bases for all input
samples plus all internal-node reconstructions, the list of variable
site genome coordinates, and per-sample statistics accumulators. Every
other package reads and mutates bases exclusively through a *Store.
*/
package alignment

// Base is a tagged representation of a single alignment position. A
// plain byte conflates concrete nucleotides, ambiguity, and gap; Base
// makes the "real base" vs "non-informative" distinction explicit
// instead of relying on repeated character comparisons.
type Base byte

const (
	BaseA Base = iota
	BaseC
	BaseG
	BaseT
	BaseN
	BaseGap
)

// FromByte maps an input character to a Base. '.' is folded into the
// gap symbol, matching every other gap for inference purposes.
func FromByte(b byte) Base {
	switch b {
	case 'A', 'a':
		return BaseA
	case 'C', 'c':
		return BaseC
	case 'G', 'g':
		return BaseG
	case 'T', 't':
		return BaseT
	case '-', '.':
		return BaseGap
	default:
		return BaseN
	}
}

// Byte returns the canonical upper-case character for b.
func (b Base) Byte() byte {
	switch b {
	case BaseA:
		return 'A'
	case BaseC:
		return 'C'
	case BaseG:
		return 'G'
	case BaseT:
		return 'T'
	case BaseGap:
		return '-'
	default:
		return 'N'
	}
}

func (b Base) String() string { return string(b.Byte()) }

// IsReal reports whether b is a concrete nucleotide (A, C, G, or T).
func (b Base) IsReal() bool {
	switch b {
	case BaseA, BaseC, BaseG, BaseT:
		return true
	default:
		return false
	}
}

// IsInformative reports whether b is informative, which is the same
// test as IsReal: N, gap, and (by construction) '.' are
// non-informative.
func (b Base) IsInformative() bool { return b.IsReal() }

// IsGap reports whether b is the gap symbol.
func (b Base) IsGap() bool { return b == BaseGap }

// IsAmbiguous reports whether b is the N symbol.
func (b Base) IsAmbiguous() bool { return b == BaseN }
