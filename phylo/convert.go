// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylo

import "github.com/js-arias/timetree"

// MillionYears is the number of years
// in a million years,
// the unit of branch lengths.
const MillionYears = 1_000_000

// FromTimeTree creates a new tree
// from a time calibrated tree.
// Branch lengths are set in million years.
func FromTimeTree(tt *timetree.Tree) *Tree {
	t := New(tt.Name())
	root := tt.Root()
	t.nodes[0].taxon = tt.Taxon(root)
	t.fromTimeTree(tt, root, 0)
	return t
}

func (t *Tree) fromTimeTree(tt *timetree.Tree, src, to int) {
	for _, c := range tt.Children(src) {
		l := float64(tt.Age(src)-tt.Age(c)) / MillionYears
		id, _ := t.Add(to, tt.Taxon(c), l)
		t.fromTimeTree(tt, c, id)
	}
}
