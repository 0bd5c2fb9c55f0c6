package alignment

import "testing"

func rowsFromStrings(ss ...string) [][]Base {
	rows := make([][]Base, len(ss))
	for i, s := range ss {
		row := make([]Base, len(s))
		for j := 0; j < len(s); j++ {
			row[j] = FromByte(s[j])
		}
		rows[i] = row
	}
	return rows
}

func TestNewStoreRejectsMismatchedRowLengths(t *testing.T) {
	rows := rowsFromStrings("AC", "A")
	_, err := NewStore(rows, []string{"s1", "s2"}, []int{10, 20})
	if err == nil {
		t.Fatal("expected an error for mismatched row lengths")
	}
}

func TestNewStoreRejectsNonMonotonicSNPLocations(t *testing.T) {
	rows := rowsFromStrings("AC", "AG")
	_, err := NewStore(rows, []string{"s1", "s2"}, []int{20, 10})
	if err == nil {
		t.Fatal("expected an error for non-increasing snp locations")
	}
}

func TestWriteIsNoOpWhenReplacingIdenticalConcreteBase(t *testing.T) {
	rows := rowsFromStrings("A")
	store, err := NewStore(rows, []string{"s1"}, []int{10})
	if err != nil {
		t.Fatal(err)
	}
	before := store.RowHash(0)
	store.Write(0, 0, BaseA)
	if store.RowHash(0) != before {
		t.Fatal("writing the same concrete base should be a silent no-op")
	}
	store.Write(0, 0, BaseC)
	if store.Read(0, 0) != BaseC {
		t.Fatal("writing a different concrete base must take effect")
	}
}

func TestColumnIsSNP(t *testing.T) {
	rows := rowsFromStrings("A", "A", "C")
	store, err := NewStore(rows, []string{"s1", "s2", "s3"}, []int{10})
	if err != nil {
		t.Fatal(err)
	}
	if !store.ColumnIsSNP(0, BaseA) {
		t.Fatal("column has a row differing from the reference base")
	}
	if !store.ColumnIsSNP(0, BaseC) {
		t.Fatal("rows 1 and 2 both hold A, which differs from reference base C")
	}
}

func TestRefilterDropsMonomorphicColumns(t *testing.T) {
	// Column 0 stays variable (A vs C); column 1 becomes monomorphic once
	// the only differing row (row 1) is masked to N.
	rows := rowsFromStrings("AA", "CN")
	store, err := NewStore(rows, []string{"s1", "s2"}, []int{10, 20})
	if err != nil {
		t.Fatal(err)
	}
	kept := store.Refilter(0)
	if len(kept) != 1 || kept[0] != 0 {
		t.Fatalf("expected only column 0 to survive refiltering, got %v", kept)
	}
}

func TestRotateSubstitutesNForGap(t *testing.T) {
	rows := rowsFromStrings("A-")
	store, err := NewStore(rows, []string{"s1"}, []int{10, 20})
	if err != nil {
		t.Fatal(err)
	}
	matrix := store.Rotate([]int{0, 1})
	if matrix[0][0] != BaseA {
		t.Fatalf("column 0 row 0 should stay A, got %v", matrix[0][0])
	}
	if matrix[1][0] != BaseN {
		t.Fatalf("gap should be rotated to N, got %v", matrix[1][0])
	}
}

func TestEnsureInternalRowsAppendsAllNRows(t *testing.T) {
	rows := rowsFromStrings("AC")
	store, err := NewStore(rows, []string{"s1"}, []int{10, 20})
	if err != nil {
		t.Fatal(err)
	}
	store.EnsureInternalRows([]string{"NODE_0001"})
	if store.NumRows() != 2 {
		t.Fatalf("expected 2 rows after EnsureInternalRows, got %d", store.NumRows())
	}
	for col := 0; col < store.NumColumns(); col++ {
		if store.Read(1, col) != BaseN {
			t.Fatalf("internal row should start all-N, got %v at col %d", store.Read(1, col), col)
		}
	}
}

func TestRowHashIsStableAndSensitive(t *testing.T) {
	rows := rowsFromStrings("AC", "AC")
	store, err := NewStore(rows, []string{"s1", "s2"}, []int{10, 20})
	if err != nil {
		t.Fatal(err)
	}
	if store.RowHash(0) != store.RowHash(1) {
		t.Fatal("identical rows should hash identically")
	}
	store.Write(1, 0, BaseG)
	if store.RowHash(0) == store.RowHash(1) {
		t.Fatal("rows that now differ should hash differently")
	}
}
