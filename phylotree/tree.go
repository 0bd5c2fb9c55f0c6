/*
Package phylotree is an in-memory rooted bifurcating tree with
labelled leaves (samples) and synthesised internal-node identifiers.
Each node carries an index into the alignment package's sequence-slot
space and a branch length. Navigation (parent/child/sibling), ordered
traversal, and branch rescaling are exposed here; Newick I/O lives in
bio/newick so format parsing stays separate from the in-memory model,
matching the teacher's io/<format> split.
*/
package phylotree

import "fmt"

// Block is an accepted recombination block on the branch leading to a
// node: the triple (start, end, snp_count_within) of spec.md §3.
// Merging (the "Blocks as zeroed sentinels" REDESIGN FLAG of spec.md
// §9) happens entirely in recombination.BranchBlock space before a
// block is ever promoted here: recombination.MergeAdjacent drops a
// subsumed candidate from its result outright rather than keeping a
// zeroed entry around, so a Node only ever sees the blocks that
// survived merging. Only the drop in block count is observable: no
// merged-away block is kept with zeroed (0,0) coordinates, here or in
// MergeAdjacent's result.
type Block struct {
	start, end int
	snpCount   int
}

// NewBlock constructs a block over [start, end] containing snpCount
// branch-unique SNPs.
func NewBlock(start, end, snpCount int) Block {
	return Block{start: start, end: end, snpCount: snpCount}
}

// Start returns the block's genome-coordinate start.
func (b Block) Start() int { return b.start }

// End returns the block's genome-coordinate end.
func (b Block) End() int { return b.end }

// SNPCount returns the number of branch-unique SNPs within the block.
func (b Block) SNPCount() int { return b.snpCount }

// Node is one vertex of the tree. Leaves have no children and carry a
// sample Name; internal nodes have exactly two children and carry a
// synthesised Name.
type Node struct {
	Name   string
	Slot   int // index into the alignment.Store's sequence-slot space
	Parent *Node
	Left   *Node
	Right  *Node

	BranchLength float64
	blocks       []Block
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// Children returns n's two children in (left, right) order, or
// (nil, nil) for a leaf.
func (n *Node) Children() (*Node, *Node) { return n.Left, n.Right }

// Sibling returns n's sibling, or nil at the root.
func (n *Node) Sibling() *Node {
	if n.Parent == nil {
		return nil
	}
	if n.Parent.Left == n {
		return n.Parent.Right
	}
	return n.Parent.Left
}

// Blocks returns the accepted recombination blocks on the branch
// leading to n, in acceptance order. Read-only for any caller outside
// the recombination package.
func (n *Node) Blocks() []Block { return n.blocks }

// AppendBlock appends an accepted block to n's block list. Only the
// recombination package's Scanner should call this.
func (n *Node) AppendBlock(b Block) { n.blocks = append(n.blocks, b) }

// Tree is a rooted bifurcating tree over samples plus internal nodes.
type Tree struct {
	Root     *Node
	Leaves   []*Node // in left-to-right tree order
	Internal []*Node // in post-order discovery order
}

// Order selects a traversal order for Traverse.
type Order int

const (
	PostOrder Order = iota
	PreOrder
)

// Traverse invokes visitor at each node of t in the given order.
// Cycles are structurally impossible: Node has no back-reference
// cycle other than Parent, which Traverse never follows downward.
func (t *Tree) Traverse(order Order, visitor func(*Node)) {
	switch order {
	case PostOrder:
		traversePostOrder(t.Root, visitor)
	case PreOrder:
		traversePreOrder(t.Root, visitor)
	default:
		panic(fmt.Sprintf("phylotree: unknown traversal order %d", order))
	}
}

func traversePostOrder(n *Node, visitor func(*Node)) {
	if n == nil {
		return
	}
	traversePostOrder(n.Left, visitor)
	traversePostOrder(n.Right, visitor)
	visitor(n)
}

func traversePreOrder(n *Node, visitor func(*Node)) {
	if n == nil {
		return
	}
	visitor(n)
	traversePreOrder(n.Left, visitor)
	traversePreOrder(n.Right, visitor)
}

// AssignLeafSlots assigns each leaf node its sequence-slot index from
// nameToSlot, keyed by the leaf's sample name. It returns an error
// naming the first leaf whose name has no entry, which signals a
// sample-set mismatch between the tree and the alignment.
func (t *Tree) AssignLeafSlots(nameToSlot map[string]int) error {
	for _, leaf := range t.Leaves {
		slot, ok := nameToSlot[leaf.Name]
		if !ok {
			return fmt.Errorf("%w: leaf %q has no matching alignment row", ErrSampleSetMismatch, leaf.Name)
		}
		leaf.Slot = slot
	}
	return nil
}

// AssignInternalSlots walks t in post-order and assigns sequence-slot
// indices startingAt..startingAt+I-1 to the internal nodes in
// discovery order, populating t.Internal. Called once after a tree is
// loaded from Newick, before the Alignment Store's internal rows are
// allocated.
func (t *Tree) AssignInternalSlots(startingAt int) {
	t.Internal = t.Internal[:0]
	next := startingAt
	t.Traverse(PostOrder, func(n *Node) {
		if n.IsLeaf() {
			return
		}
		n.Slot = next
		next++
		t.Internal = append(t.Internal, n)
	})
}

// RescaleBranches multiplies every node's branch length by
// factorFn(node), per spec.md §4.2 "rescale_branches(factor_fn)".
func (t *Tree) RescaleBranches(factorFn func(*Node) float64) {
	t.Traverse(PreOrder, func(n *Node) {
		n.BranchLength *= factorFn(n)
	})
}
