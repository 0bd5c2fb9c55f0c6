package phylotree

import "errors"

// ErrSampleSetMismatch is returned when the tree's leaf names and the
// alignment's sample names do not correspond, per spec.md §7
// "input-malformed ... inconsistent sample sets between tree and
// alignment".
var ErrSampleSetMismatch = errors.New("phylotree: sample set mismatch between tree and alignment")
