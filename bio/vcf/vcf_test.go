package vcf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bactphylo/recombine/alignment"
)

func writeTempVCF(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.vcf")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadPositionsParsesPosColumnAndSamples(t *testing.T) {
	path := writeTempVCF(t, strings.Join([]string{
		"##fileformat=VCFv4.2",
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\ts1\ts2",
		"1\t10\t.\tA\tG\t.\tPASS\t.\tGT\t0\t1",
		"1\t20\t.\tC\tT\t.\tPASS\t.\tGT\t1\t0",
		"",
	}, "\n"))

	positions, names, err := ReadPositions(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 2 || positions[0] != 10 || positions[1] != 20 {
		t.Fatalf("got positions %v, want [10 20]", positions)
	}
	if len(names) != 2 || names[0] != "s1" || names[1] != "s2" {
		t.Fatalf("got sample names %v, want [s1 s2]", names)
	}
}

func TestReadPositionsRejectsMissingHeader(t *testing.T) {
	path := writeTempVCF(t, "1\t10\t.\tA\tG\t.\tPASS\t.\tGT\n")
	_, _, err := ReadPositions(path)
	if !errors.Is(err, ErrMalformedVCF) {
		t.Fatalf("got %v, want ErrMalformedVCF", err)
	}
}

func TestReadPositionsRejectsNonIntegerPos(t *testing.T) {
	path := writeTempVCF(t, strings.Join([]string{
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\ts1",
		"1\tNOTANUMBER\t.\tA\tG\t.\tPASS\t.\tGT\t0",
		"",
	}, "\n"))
	_, _, err := ReadPositions(path)
	if !errors.Is(err, ErrMalformedVCF) {
		t.Fatalf("got %v, want ErrMalformedVCF", err)
	}
}

func TestReadPositionsWithNoSamples(t *testing.T) {
	path := writeTempVCF(t, strings.Join([]string{
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
		"1\t10\t.\tA\tG\t.\tPASS\t.",
		"",
	}, "\n"))
	positions, names, err := ReadPositions(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 1 || positions[0] != 10 {
		t.Fatalf("got positions %v, want [10]", positions)
	}
	if len(names) != 0 {
		t.Fatalf("expected no sample names, got %v", names)
	}
}

func TestWriteEmitsOneRowPerSite(t *testing.T) {
	matrix := [][]alignment.Base{
		{alignment.BaseA, alignment.BaseG},
		{alignment.BaseC, alignment.BaseT},
	}
	var buf bytes.Buffer
	if err := Write(&buf, []int{10, 20}, []string{"s1", "s2"}, matrix); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\ts1\ts2") {
		t.Fatalf("missing expected header in output:\n%s", out)
	}
	if !strings.Contains(out, "\t10\t") || !strings.Contains(out, "\t20\t") {
		t.Fatalf("missing expected POS values in output:\n%s", out)
	}
	if strings.Count(out, "\n") != 4 {
		t.Fatalf("expected 2 header lines plus 2 data lines, got:\n%s", out)
	}
}
