// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package phylo implements the topology
// of rooted phylogenetic trees.
//
// Nodes are identified by integer IDs,
// from 0 to Len()-1,
// and the root is always the node 0.
package phylo

import (
	"fmt"
	"slices"
)

// A Tree is a rooted phylogenetic tree.
type Tree struct {
	name  string
	nodes []*node
}

type node struct {
	id       int
	parent   int
	taxon    string
	length   float64
	children []int
}

// New creates a new tree
// with a single root node.
func New(name string) *Tree {
	return &Tree{
		name: name,
		nodes: []*node{
			{id: 0, parent: -1},
		},
	}
}

// Add adds a new node
// as a descendant of the indicated parent
// with the given branch length.
// It returns the ID of the new node.
func (t *Tree) Add(parent int, taxon string, length float64) (int, error) {
	if parent < 0 || parent >= len(t.nodes) {
		return -1, fmt.Errorf("tree %q: parent node %d not found", t.name, parent)
	}
	if length < 0 {
		return -1, fmt.Errorf("tree %q: invalid branch length %.6f", t.name, length)
	}

	n := &node{
		id:     len(t.nodes),
		parent: parent,
		taxon:  taxon,
		length: length,
	}
	t.nodes = append(t.nodes, n)
	p := t.nodes[parent]
	p.children = append(p.children, n.id)
	return n.id, nil
}

// Children returns the IDs of the descendants
// of a node.
func (t *Tree) Children(id int) []int {
	n := t.node(id)
	if n == nil {
		return nil
	}
	return slices.Clone(n.children)
}

// IsRoot returns true if the node is the root of the tree.
func (t *Tree) IsRoot(id int) bool {
	return id == 0 && len(t.nodes) > 0
}

// IsTerm returns true if the node is a terminal
// (i.e., a leaf).
func (t *Tree) IsTerm(id int) bool {
	n := t.node(id)
	if n == nil {
		return false
	}
	return len(n.children) == 0
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Length returns the length of the branch
// that connects a node with its parent.
func (t *Tree) Length(id int) float64 {
	n := t.node(id)
	if n == nil {
		return 0
	}
	return n.length
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// Nodes returns the IDs of the nodes of the tree.
func (t *Tree) Nodes() []int {
	ids := make([]int, len(t.nodes))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Parent returns the ID of the parent of a node.
// For the root
// it returns -1.
func (t *Tree) Parent(id int) int {
	n := t.node(id)
	if n == nil {
		return -1
	}
	return n.parent
}

// Root returns the ID of the root node.
func (t *Tree) Root() int {
	return 0
}

// SetName sets the name of the tree.
func (t *Tree) SetName(name string) {
	t.name = name
}

// SetTaxon sets the taxon name
// (or label)
// of a node.
func (t *Tree) SetTaxon(id int, taxon string) {
	n := t.node(id)
	if n == nil {
		return
	}
	n.taxon = taxon
}

// Taxon returns the taxon name
// (or label)
// of a node.
func (t *Tree) Taxon(id int) string {
	n := t.node(id)
	if n == nil {
		return ""
	}
	return n.taxon
}

// Terms returns the names of the terminals
// of the tree.
func (t *Tree) Terms() []string {
	var terms []string
	for _, n := range t.nodes {
		if len(n.children) > 0 {
			continue
		}
		terms = append(terms, n.taxon)
	}
	slices.Sort(terms)
	return terms
}

// Clone returns a deep copy of the tree.
// The node IDs of the copy
// are the same as in the source tree.
func (t *Tree) Clone() *Tree {
	nt := &Tree{
		name:  t.name,
		nodes: make([]*node, len(t.nodes)),
	}
	for i, n := range t.nodes {
		nt.nodes[i] = &node{
			id:       n.id,
			parent:   n.parent,
			taxon:    n.taxon,
			length:   n.length,
			children: slices.Clone(n.children),
		}
	}
	return nt
}

func (t *Tree) node(id int) *node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}
