// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package fitch_test

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/js-arias/asr/cooccur"
	"github.com/js-arias/asr/fitch"
	"github.com/js-arias/asr/phylo"
	"github.com/js-arias/asr/taxa"
	"github.com/js-arias/timetree"
)

func TestSingleChange(t *testing.T) {
	ft := newTree(t, "((X:1,Y:1):1,Z:2);", map[string][]int{
		"X": {1},
		"Y": {1},
		"Z": {0},
	})
	ft.Reconstruct()

	if c := ft.Changes(0); c != 1 {
		t.Errorf("changes: got %d, want %d", c, 1)
	}
	testStates(t, ft, 0, map[string]int{
		"X Y Z": 0,
		"X Y":   1,
		"X":     1,
		"Y":     1,
		"Z":     0,
	})
	testConsistency(t, ft)
}

func TestNoChanges(t *testing.T) {
	ft := newTree(t, "(((A,B),C),(D,E));", map[string][]int{
		"A": {1},
		"B": {1},
		"C": {1},
		"D": {1},
		"E": {1},
	})
	ft.Reconstruct()

	if c := ft.Changes(0); c != 0 {
		t.Errorf("changes: got %d, want %d", c, 0)
	}
	for _, id := range ft.Phylo().Nodes() {
		if s := ft.State(id, 0); s != 1 {
			t.Errorf("node %d: got state %d, want %d", id, s, 1)
		}
	}
	testConsistency(t, ft)
}

func TestUpPass(t *testing.T) {
	ft := newTree(t, "(((A,B),C),D);", map[string][]int{
		"A": {0, 1},
		"B": {1, 1},
		"C": {1, 0},
		"D": {1, 0},
	})
	ft.Reconstruct()

	// the ambiguous node (A B)
	// takes the state of its ancestor.
	testStates(t, ft, 0, map[string]int{
		"A B C D": 1,
		"A B C":   1,
		"A B":     1,
	})
	if c := ft.Changes(0); c != 1 {
		t.Errorf("trait 0: changes: got %d, want %d", c, 1)
	}

	// the node (A B C) is restricted
	// to the state of the root.
	testStates(t, ft, 1, map[string]int{
		"A B C D": 0,
		"A B C":   0,
		"A B":     1,
	})
	if c := ft.Changes(1); c != 1 {
		t.Errorf("trait 1: changes: got %d, want %d", c, 1)
	}
	testConsistency(t, ft)
}

func TestTieBreak(t *testing.T) {
	ft := newTree(t, "((A,B),(C,D));", map[string][]int{
		"A": {0},
		"B": {1},
		"C": {0},
		"D": {1},
	})
	ft.Reconstruct()

	// ambiguous nodes are resolved
	// with the smallest state.
	testStates(t, ft, 0, map[string]int{
		"A B C D": 0,
		"A B":     0,
		"C D":     0,
	})
	if c := ft.Changes(0); c != 2 {
		t.Errorf("changes: got %d, want %d", c, 2)
	}
	testConsistency(t, ft)
}

func TestConvergence(t *testing.T) {
	ft := newTree(t, "((((A,B),(C,D)),((E,F),G)),((H,(I,J)),(K,L)));", map[string][]int{
		"A": {0, 1},
		"B": {1, 1},
		"C": {1, 0},
		"D": {0, 0},
		"E": {1, 1},
		"F": {1, 0},
		"G": {0, 1},
		"H": {0, 0},
		"I": {1, 1},
		"J": {0, 1},
		"K": {1, 0},
		"L": {1, 1},
	})

	// reconstruction can be repeated
	for range 2 {
		ft.Reconstruct()
		if !ft.Resolved() {
			t.Fatalf("tree should be resolved")
		}
		for _, id := range ft.Phylo().Nodes() {
			for tr := range ft.Traits() {
				if s := ft.State(id, tr); s != 0 && s != 1 {
					t.Errorf("node %d: trait %d: got state %d", id, tr, s)
				}
			}
		}
		testConsistency(t, ft)
	}
}

func TestCounts(t *testing.T) {
	ft := newTree(t, "(((A,B),C),D);", map[string][]int{
		"A": {0, 1},
		"B": {1, 1},
		"C": {1, 0},
		"D": {1, 0},
	})
	if _, err := ft.Counts(0, 1); !errors.Is(err, fitch.ErrNotReconstructed) {
		t.Errorf("counts: got error %v, want %v", err, fitch.ErrNotReconstructed)
	}
	if s := ft.State(0, 0); s != -1 {
		t.Errorf("state: got %d, want %d", s, -1)
	}

	ft.Reconstruct()
	c, err := ft.Counts(0, 1)
	if err != nil {
		t.Fatalf("counts: unexpected error: %v", err)
	}
	if c.Branches != 6 {
		t.Errorf("branches: got %d, want %d", c.Branches, 6)
	}
	if math.Abs(c.A-5) > 1e-9 || math.Abs(c.B-3) > 1e-9 || math.Abs(c.Both-2) > 1e-9 {
		t.Errorf("counts: got %.2f, %.2f, %.2f, want 5, 3, 2", c.A, c.B, c.Both)
	}

	want := cooccur.EffectSize(5, 3, 2, 6)
	if got := c.EffectSize(); math.Abs(got-want) > 1e-9 {
		t.Errorf("effect size: got %.6f, want %.6f", got, want)
	}

	if _, err := ft.Counts(0, 2); err == nil {
		t.Errorf("counts: expecting error for undefined trait")
	}
}

func TestErrors(t *testing.T) {
	lk := newLookup(t, map[string][]int{
		"A": {0},
		"B": {1},
		"C": {1},
	})

	poly := readTree(t, "(A,B,C);")
	if _, err := fitch.New(poly, lk); !errors.Is(err, fitch.ErrNotBifurcating) {
		t.Errorf("polytomy: got error %v, want %v", err, fitch.ErrNotBifurcating)
	}

	// after resolution
	// the tree can be used.
	poly.Bifurcate()
	if _, err := fitch.New(poly, lk); err != nil {
		t.Errorf("bifurcated tree: unexpected error: %v", err)
	}

	missing := readTree(t, "((A,B),D);")
	if _, err := fitch.New(missing, lk); !errors.Is(err, fitch.ErrMissingTaxon) {
		t.Errorf("missing taxon: got error %v, want %v", err, fitch.ErrMissingTaxon)
	}
}

func TestStateSet(t *testing.T) {
	both := fitch.Single(0) | fitch.Single(1)
	if both.Len() != 2 || !both.Has(0) || !both.Has(1) {
		t.Errorf("set %v: invalid members", both)
	}
	if both.Min() != 0 {
		t.Errorf("set %v: min: got %d, want %d", both, both.Min(), 0)
	}
	if one := fitch.Single(1); !one.SubsetOf(both) || both.SubsetOf(one) || one.Min() != 1 {
		t.Errorf("set %v: invalid subset relation with %v", one, both)
	}
	if s := both.String(); s != "{0,1}" {
		t.Errorf("set string: got %q, want %q", s, "{0,1}")
	}
	if m := fitch.StateSet(0).Min(); m != -1 {
		t.Errorf("empty set: min: got %d, want %d", m, -1)
	}
}

func readTree(t testing.TB, s string) *phylo.Tree {
	t.Helper()

	c, err := timetree.Newick(strings.NewReader(s), "test", 0)
	if err != nil {
		t.Fatalf("unable to read tree %q: %v", s, err)
	}
	names := c.Names()
	if len(names) != 1 {
		t.Fatalf("tree %q: got %d trees, want 1", s, len(names))
	}
	return phylo.FromTimeTree(c.Tree(names[0]))
}

func newLookup(t testing.TB, states map[string][]int) *taxa.Lookup {
	t.Helper()

	var traits []string
	for _, s := range states {
		traits = []string{"a", "b"}[:len(s)]
		break
	}
	lk, err := taxa.New(traits...)
	if err != nil {
		t.Fatalf("unable to create lookup: %v", err)
	}
	for id, s := range states {
		e := taxa.Entry{
			ID:         id,
			Scientific: id,
			Common:     strings.ToLower(id),
			States:     s,
		}
		if err := lk.Add(e); err != nil {
			t.Fatalf("unable to add %q: %v", id, err)
		}
	}
	return lk
}

func newTree(t testing.TB, s string, states map[string][]int) *fitch.Tree {
	t.Helper()

	ft, err := fitch.New(readTree(t, s), newLookup(t, states))
	if err != nil {
		t.Fatalf("unable to create reconstruction: %v", err)
	}
	return ft
}

// testStates checks the states of the nodes
// identified by the names of their terminals.
func testStates(t testing.TB, ft *fitch.Tree, trait int, want map[string]int) {
	t.Helper()

	pt := ft.Phylo()
	for clade, w := range want {
		id := findNode(t, pt, clade)
		if s := ft.State(id, trait); s != w {
			t.Errorf("trait %d: node (%s): got state %d, want %d", trait, clade, s, w)
		}
	}
}

// findNode returns the node
// whose terminals are the given space separated names.
func findNode(t testing.TB, pt *phylo.Tree, clade string) int {
	t.Helper()

	want := strings.Fields(strings.ToLower(clade))
	slices.Sort(want)
	for _, id := range pt.Nodes() {
		if slices.Equal(terminals(pt, id), want) {
			return id
		}
	}
	t.Fatalf("node (%s) not found", clade)
	return -1
}

func terminals(pt *phylo.Tree, id int) []string {
	if pt.IsTerm(id) {
		return []string{strings.ToLower(pt.Taxon(id))}
	}
	var terms []string
	for _, c := range pt.Children(id) {
		terms = append(terms, terminals(pt, c)...)
	}
	slices.Sort(terms)
	return terms
}

// testConsistency checks that the number of changes
// is the number of branches
// with different states at both ends.
func testConsistency(t testing.TB, ft *fitch.Tree) {
	t.Helper()

	pt := ft.Phylo()
	for tr := range ft.Traits() {
		var diff int
		for _, id := range pt.Nodes() {
			if pt.IsRoot(id) {
				continue
			}
			if ft.State(id, tr) != ft.State(pt.Parent(id), tr) {
				diff++
			}
		}
		if c := ft.Changes(tr); c != diff {
			t.Errorf("trait %d: changes: got %d, want %d", tr, c, diff)
		}
	}
}
