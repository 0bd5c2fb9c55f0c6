/*
Package alndiff renders a unified diff between two alignment rows for
diagnostic logging, used by the ancestor package's verbose mode to
report a row that changed between reconstruction runs. A rendered row
is a single line, so the diff shows the whole previous and current
row; it does not point at individual columns.
*/
package alndiff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns a unified-diff string between two same-length base
// strings (e.g. two blake3-free renderings of an alignment row),
// labelled with fromName/toName.
func Unified(fromName, toName, from, to string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  1,
	}
	return difflib.GetUnifiedDiffString(diff)
}
