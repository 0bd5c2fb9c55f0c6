package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bactphylo/recombine/alignment"
)

func TestWriteEmitsHeaderAndOneRowPerSample(t *testing.T) {
	rows := []alignment.Stats{
		{
			NumberOfRecombinations:                   2,
			NumberOfSNPs:                              5,
			GenomeLengthWithoutGaps:                   1000,
			NumberOfBlocks:                            2,
			BasesInRecombinations:                     30,
			BasesInRecombinationsIncludingGaps:        35,
			BranchBasesInRecombinations:               30,
			BranchBasesInRecombinationsIncludingGaps:  35,
			GenomeLengthExcludingBlocksAndGaps:        970,
		},
		{},
	}
	var buf bytes.Buffer
	if err := Write(&buf, []string{"s1", "s2"}, rows); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected a header plus 2 rows, got %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "sample_name\t") {
		t.Fatalf("got header %q", lines[0])
	}
	wantFirstCols := "s1\t2\t5\t1000\t2\t30\t35\t30\t35\t970"
	if lines[1] != wantFirstCols {
		t.Fatalf("got row %q, want %q", lines[1], wantFirstCols)
	}
	if !strings.HasPrefix(lines[2], "s2\t0\t0\t0\t0\t0\t0\t0\t0\t0") {
		t.Fatalf("got row %q, want zeroed s2 row", lines[2])
	}
}

func TestWriteColumnCountMatchesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, nil); err != nil {
		t.Fatal(err)
	}
	header := strings.TrimRight(buf.String(), "\n")
	if got := strings.Count(header, "\t") + 1; got != len(columns) {
		t.Fatalf("got %d header columns, want %d", got, len(columns))
	}
}
