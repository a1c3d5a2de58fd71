// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package markov implements the empirical estimation
// of the transition probabilities
// between the states of a binary trait
// along the branches of a reconstructed tree.
package markov

import (
	"errors"
	"fmt"

	"github.com/js-arias/asr/fitch"
)

// ErrNoBranches is the error returned
// when the tree has no branches.
var ErrNoBranches = errors.New("tree without branches")

// Matrix is a transition matrix
// indexed by [from][to] states.
//
// Each cell is the fraction of the branches
// of the tree
// with that transition,
// so the whole matrix sums to one,
// not each row.
type Matrix [2][2]float64

// Estimate returns the transition matrix
// of a trait
// from a reconstructed tree.
func Estimate(t *fitch.Tree, trait int) (Matrix, error) {
	if !t.Resolved() {
		return Matrix{}, fmt.Errorf("tree %q: %w", t.Name(), fitch.ErrNotReconstructed)
	}
	if trait < 0 || trait >= len(t.Traits()) {
		return Matrix{}, fmt.Errorf("tree %q: undefined trait %d", t.Name(), trait)
	}

	pt := t.Phylo()
	var count [2][2]int
	var branches int
	for _, id := range pt.Preorder() {
		if pt.IsRoot(id) {
			continue
		}
		from := t.State(pt.Parent(id), trait)
		to := t.State(id, trait)
		count[from][to]++
		branches++
	}
	if branches == 0 {
		return Matrix{}, fmt.Errorf("tree %q: %w", t.Name(), ErrNoBranches)
	}

	var m Matrix
	for from, row := range count {
		for to, c := range row {
			m[from][to] = float64(c) / float64(branches)
		}
	}
	return m, nil
}

// Sum returns the sum of all cells of the matrix.
func (m Matrix) Sum() float64 {
	var s float64
	for _, row := range m {
		for _, v := range row {
			s += v
		}
	}
	return s
}
