// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package fitch implements the reconstruction
// of ancestral states of binary traits
// using Fitch parsimony.
//
// Every trait of a taxon lookup is reconstructed
// in the same traversals of the tree.
// Nodes with ambiguous states after the up-pass
// are resolved with the smallest state of the candidate set.
package fitch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/js-arias/asr/cooccur"
	"github.com/js-arias/asr/phylo"
	"github.com/js-arias/asr/taxa"
)

// Errors returned by the reconstruction.
var (
	ErrNotBifurcating   = errors.New("tree is not bifurcating")
	ErrMissingTaxon     = errors.New("taxon without lookup entry")
	ErrNotReconstructed = errors.New("ancestral states not reconstructed")
)

// A Tree is a phylogenetic tree
// with the reconstructed states
// of a set of traits.
type Tree struct {
	t     *phylo.Tree
	lk    *taxa.Lookup
	nodes map[int]*node

	changes  []int
	resolved bool
}

// A node is a node of the tree
// with the characters of each trait.
type node struct {
	id int

	// true if the node already received
	// the contribution of a descendant
	// in the down-pass.
	visited bool

	chars []Char
}

// New creates a new tree
// for the reconstruction of the traits
// of a taxon lookup.
//
// The tree must be bifurcating,
// and each terminal must be defined in the lookup.
func New(t *phylo.Tree, lk *taxa.Lookup) (*Tree, error) {
	if !t.IsBifurcating() {
		return nil, fmt.Errorf("tree %q: %w", t.Name(), ErrNotBifurcating)
	}

	var missing []string
	for _, id := range t.Nodes() {
		if !t.IsTerm(id) {
			continue
		}
		if _, ok := lk.Entry(t.Taxon(id)); !ok {
			missing = append(missing, fmt.Sprintf("%q", t.Taxon(id)))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("tree %q: %w: %s", t.Name(), ErrMissingTaxon, strings.Join(missing, ", "))
	}

	traits := len(lk.Traits())
	nt := &Tree{
		t:       t,
		lk:      lk,
		nodes:   make(map[int]*node, t.Len()),
		changes: make([]int, traits),
	}
	for _, id := range t.Nodes() {
		nt.nodes[id] = &node{
			id:    id,
			chars: make([]Char, traits),
		}
	}
	return nt, nil
}

// Changes returns the number of state changes
// of a trait.
func (t *Tree) Changes(trait int) int {
	if trait < 0 || trait >= len(t.changes) {
		return 0
	}
	return t.changes[trait]
}

// Lookup returns the taxon lookup
// used for the terminal states.
func (t *Tree) Lookup() *taxa.Lookup {
	return t.lk
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.t.Name()
}

// Phylo returns the underlying phylogenetic tree.
func (t *Tree) Phylo() *phylo.Tree {
	return t.t
}

// Resolved returns true
// if the ancestral states are already reconstructed.
func (t *Tree) Resolved() bool {
	return t.resolved
}

// State returns the reconstructed state
// of a trait at a node.
// It returns -1 if the states are not reconstructed.
func (t *Tree) State(id, trait int) int {
	if !t.resolved {
		return -1
	}
	n, ok := t.nodes[id]
	if !ok {
		return -1
	}
	if trait < 0 || trait >= len(n.chars) {
		return -1
	}
	if r, ok := n.chars[trait].(Resolved); ok {
		return int(r)
	}
	return -1
}

// Traits returns the names of the reconstructed traits.
func (t *Tree) Traits() []string {
	return t.lk.Traits()
}

// Counts returns the tally of branches
// with the trait a,
// the trait b,
// and both traits.
// The root is not counted.
func (t *Tree) Counts(a, b int) (cooccur.Counts, error) {
	if !t.resolved {
		return cooccur.Counts{}, ErrNotReconstructed
	}
	for _, tr := range []int{a, b} {
		if tr < 0 || tr >= len(t.changes) {
			return cooccur.Counts{}, fmt.Errorf("tree %q: undefined trait %d", t.Name(), tr)
		}
	}

	c := cooccur.NewCounts()
	for _, id := range t.t.Preorder() {
		if t.t.IsRoot(id) {
			continue
		}
		c.Add(t.State(id, a) == 1, t.State(id, b) == 1)
	}
	return c, nil
}
