/*
Package ancestor fills each internal node's sequence slot in an
alignment.Store from its children, following the parsimony-style rule
of spec.md §4.3, then propagates unambiguous bases and gaps across
children in a second pass. Poly has no phylogenetic reconstruction of
its own; the small-composable-pass style here (one function per pass,
invoked from phylotree.Tree.Traverse) follows the teacher's preference
for decomposed folding passes seen in its energy/structure packages.
*/
package ancestor

import (
	"log"

	"github.com/bactphylo/recombine/alignment"
	"github.com/bactphylo/recombine/internal/alndiff"
	"github.com/bactphylo/recombine/phylotree"
)

// Reconciler reconstructs internal-node sequences in an
// alignment.Store for a given phylotree.Tree. Verbose logs every
// internal-node column whose base the parsimony pass changes.
// PreviousRows, when set, is compared against each internal row after
// reconstruction and any difference is logged as a unified diff — used
// to confirm a re-run after masking only changed the columns it should
// have.
type Reconciler struct {
	Verbose      bool
	PreviousRows map[string]string
}

// logRowDrift compares store's current row for n against
// r.PreviousRows[n.Name], logging a unified diff of any disagreement,
// then updates PreviousRows for the next call.
func (r *Reconciler) logRowDrift(store *alignment.Store, n *phylotree.Node) {
	if r.PreviousRows == nil {
		return
	}
	cur := renderRow(store, n.Slot)
	if prev, ok := r.PreviousRows[n.Name]; ok && prev != cur {
		diff, err := alndiff.Unified(n.Name+"(prev)", n.Name+"(cur)", prev, cur)
		if err == nil {
			log.Printf("ancestor: row drift for %s:\n%s", n.Name, diff)
		}
	}
	r.PreviousRows[n.Name] = cur
}

func renderRow(store *alignment.Store, slot int) string {
	buf := make([]byte, store.NumColumns())
	for col := range buf {
		buf[col] = store.Read(slot, col).Byte()
	}
	return string(buf)
}

// Reconstruct runs the full reconstruction: a post-order parsimony
// pass, then a gap-fill pass, then a gap-agreement pass, per spec.md
// §4.3. It is safe to call repeatedly (e.g. once per outer iteration
// after masking changes leaf rows).
func (r *Reconciler) Reconstruct(store *alignment.Store, tree *phylotree.Tree) {
	r.parsimonyPass(store, tree)
	r.fillUnambiguousAcrossGapsPass(store, tree)
	r.fillUnambiguousGapsPass(store, tree)

	if r.PreviousRows != nil {
		tree.Traverse(phylotree.PostOrder, func(n *phylotree.Node) {
			if !n.IsLeaf() {
				r.logRowDrift(store, n)
			}
		})
	}
}

// parsimonyPass applies the per-column, per-internal-node rule of
// spec.md §4.3 step 1-4 in a single post-order traversal.
func (r *Reconciler) parsimonyPass(store *alignment.Store, tree *phylotree.Tree) {
	tree.Traverse(phylotree.PostOrder, func(n *phylotree.Node) {
		if n.IsLeaf() {
			return
		}
		left, right := n.Children()
		for col := 0; col < store.NumColumns(); col++ {
			b1 := store.Read(left.Slot, col)
			b2 := store.Read(right.Slot, col)
			parent := resolveColumn(store, left, right, b1, b2, col)
			if r.Verbose && parent != store.Read(n.Slot, col) {
				log.Printf("ancestor: node %s col %d -> %s (children %s/%s)", n.Name, col, parent, b1, b2)
			}
			store.Write(n.Slot, col, parent)
		}
	})
}

// resolveColumn implements spec.md §4.3 rules 1-4.
func resolveColumn(store *alignment.Store, left, right *phylotree.Node, b1, b2 alignment.Base, col int) alignment.Base {
	switch {
	case b1.IsReal() && b2.IsReal() && b1 == b2:
		// Rule 1.
		return b1
	case b1.IsReal() && !b2.IsReal():
		// Rule 2.
		return b1
	case !b1.IsReal() && b2.IsReal():
		// Rule 2, mirrored.
		return b2
	case b1.IsReal() && b2.IsReal():
		// Rule 3: differing real bases, break tie by subtree real-base count.
		leftCount := countRealBasesInSubtree(store, left, col)
		rightCount := countRealBasesInSubtree(store, right, col)
		if rightCount > leftCount {
			return b2
		}
		return b1 // tie or left greater: left wins.
	default:
		// Rule 4: neither child has a real base.
		return alignment.BaseN
	}
}

// countRealBasesInSubtree counts real bases at column col across all
// leaves under n (n itself if n is a leaf).
func countRealBasesInSubtree(store *alignment.Store, n *phylotree.Node, col int) int {
	if n.IsLeaf() {
		if store.Read(n.Slot, col).IsReal() {
			return 1
		}
		return 0
	}
	left, right := n.Children()
	return countRealBasesInSubtree(store, left, col) + countRealBasesInSubtree(store, right, col)
}

// fillUnambiguousAcrossGapsPass runs top-down: wherever a parent holds
// gap but its descendants unanimously agree on one real base at that
// column, the parent is updated to that base.
func (r *Reconciler) fillUnambiguousAcrossGapsPass(store *alignment.Store, tree *phylotree.Tree) {
	tree.Traverse(phylotree.PreOrder, func(n *phylotree.Node) {
		if n.IsLeaf() {
			return
		}
		for col := 0; col < store.NumColumns(); col++ {
			if store.Read(n.Slot, col) != alignment.BaseGap {
				continue
			}
			if base, ok := unanimousRealBase(store, n, col); ok {
				store.Write(n.Slot, col, base)
			}
		}
	})
}

// unanimousRealBase reports the single real base agreed upon by every
// leaf descendant of n at col that itself holds a real base, provided
// at least one descendant does and none disagrees.
func unanimousRealBase(store *alignment.Store, n *phylotree.Node, col int) (alignment.Base, bool) {
	var found alignment.Base
	haveOne := false
	ok := true
	var walk func(*phylotree.Node)
	walk = func(m *phylotree.Node) {
		if !ok {
			return
		}
		if m.IsLeaf() {
			b := store.Read(m.Slot, col)
			if !b.IsReal() {
				return
			}
			if !haveOne {
				found = b
				haveOne = true
				return
			}
			if b != found {
				ok = false
			}
			return
		}
		left, right := m.Children()
		walk(left)
		walk(right)
	}
	walk(n)
	return found, ok && haveOne
}

// fillUnambiguousGapsPass sets a parent to gap where both children are
// gap, mirroring fillUnambiguousAcrossGapsPass.
func (r *Reconciler) fillUnambiguousGapsPass(store *alignment.Store, tree *phylotree.Tree) {
	tree.Traverse(phylotree.PostOrder, func(n *phylotree.Node) {
		if n.IsLeaf() {
			return
		}
		left, right := n.Children()
		for col := 0; col < store.NumColumns(); col++ {
			if store.Read(left.Slot, col) == alignment.BaseGap && store.Read(right.Slot, col) == alignment.BaseGap {
				store.Write(n.Slot, col, alignment.BaseGap)
			}
		}
	})
}
