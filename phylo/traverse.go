// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylo

// Preorder returns the IDs of the nodes
// in preorder
// (a parent is always visited before its descendants).
func (t *Tree) Preorder() []int {
	order := make([]int, 0, len(t.nodes))
	stack := []int{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)

		children := t.nodes[id].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return order
}

// Postorder returns the IDs of the nodes
// in postorder
// (all descendants are visited before its parent).
func (t *Tree) Postorder() []int {
	order := make([]int, 0, len(t.nodes))
	t.postorder(0, &order)
	return order
}

func (t *Tree) postorder(id int, order *[]int) {
	for _, c := range t.nodes[id].children {
		t.postorder(c, order)
	}
	*order = append(*order, id)
}

// IsBifurcating returns true
// if every internal node of the tree
// has exactly two descendants.
func (t *Tree) IsBifurcating() bool {
	for _, n := range t.nodes {
		if len(n.children) != 0 && len(n.children) != 2 {
			return false
		}
	}
	return true
}

// Bifurcate forces the tree to be strictly bifurcating.
//
// A node with more than two descendants
// is resolved as a ladder of nested nodes
// connected by zero length branches,
// in the order of the descendants.
// Internal nodes with a single descendant are removed
// and their branch lengths added to the descendant.
//
// Node IDs are reassigned.
func (t *Tree) Bifurcate() {
	root, _ := t.skipUnary(0)

	nt := New(t.name)
	nt.nodes[0].taxon = t.nodes[root].taxon
	t.bifurcate(nt, root, 0)
	t.nodes = nt.nodes
}

// SkipUnary returns the first node
// in a chain of single descendant nodes
// that is not a single descendant node,
// and the sum of the branch lengths
// along the chain.
func (t *Tree) skipUnary(id int) (int, float64) {
	var l float64
	for len(t.nodes[id].children) == 1 {
		c := t.nodes[id].children[0]
		l += t.nodes[c].length
		id = c
	}
	return id, l
}

func (t *Tree) bifurcate(dst *Tree, src, to int) {
	var desc []int
	var lens []float64
	for _, c := range t.nodes[src].children {
		d, l := t.skipUnary(c)
		desc = append(desc, d)
		lens = append(lens, t.nodes[c].length+l)
	}

	parent := to
	for len(desc) > 2 {
		t.addBifurcated(dst, parent, desc[0], lens[0])
		parent, _ = dst.Add(parent, "", 0)
		desc = desc[1:]
		lens = lens[1:]
	}
	for i, d := range desc {
		t.addBifurcated(dst, parent, d, lens[i])
	}
}

func (t *Tree) addBifurcated(dst *Tree, parent, src int, length float64) {
	id, _ := dst.Add(parent, t.nodes[src].taxon, length)
	t.bifurcate(dst, src, id)
}
