// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package montecarlo_test

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/asr/cooccur"
	"github.com/js-arias/asr/fitch"
	"github.com/js-arias/asr/markov"
	"github.com/js-arias/asr/montecarlo"
	"github.com/js-arias/asr/phylo"
	"github.com/js-arias/asr/taxa"
	"github.com/js-arias/timetree"
)

const treeText = "((((A,B),(C,D)),((E,F),G)),((H,(I,J)),(K,L)));"

var traitStates = map[string][]int{
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
}

func TestPValue(t *testing.T) {
	ft := newTree(t, treeText, traitStates)
	s := newSimulator(t, ft, 123, 0)

	const sims = 200
	if err := s.Run(sims); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}

	null := s.Null()
	if len(null) != sims {
		t.Fatalf("null: got %d values, want %d", len(null), sims)
	}
	var k int
	for _, v := range null {
		if v >= s.Observed() {
			k++
		}
	}
	if s.Hits() != k {
		t.Errorf("hits: got %d, want %d", s.Hits(), k)
	}
	p := s.PValue()
	if p != float64(k)/sims {
		t.Errorf("p-value: got %.6f, want %.6f", p, float64(k)/sims)
	}
	if p < 0 || p > 1 {
		t.Errorf("p-value: got %.6f, out of range", p)
	}

	// new runs discard previous results
	if err := s.Run(10); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}
	if len(s.Null()) != 10 || s.Hits() > 10 {
		t.Errorf("second run: got %d values and %d hits", len(s.Null()), s.Hits())
	}
}

func TestDeterminism(t *testing.T) {
	ft := newTree(t, treeText, traitStates)

	s1 := newSimulator(t, ft, 42, 1)
	if err := s1.Run(100); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}
	s2 := newSimulator(t, ft, 42, 4)
	if err := s2.Run(100); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}

	if !reflect.DeepEqual(s1.Null(), s2.Null()) {
		t.Errorf("null distributions with the same seed are different")
	}
	if s1.Hits() != s2.Hits() || s1.PValue() != s2.PValue() {
		t.Errorf("p-value: got %.6f and %.6f", s1.PValue(), s2.PValue())
	}
	if s1.Seed() != 42 {
		t.Errorf("seed: got %d, want %d", s1.Seed(), 42)
	}
}

func TestZeroMatrix(t *testing.T) {
	ft := newTree(t, treeText, traitStates)
	s, err := montecarlo.New(ft, montecarlo.Param{
		A:    0,
		B:    1,
		Seed: 7,
		CPU:  2,
	})
	if err != nil {
		t.Fatalf("unable to create simulator: %v", err)
	}
	if err := s.Run(50); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}

	branches := float64(ft.Phylo().Len() - 1)
	want := cooccur.EffectSize(cooccur.Epsilon, cooccur.Epsilon, cooccur.Epsilon, branches)
	for i, v := range s.Null() {
		if v != want {
			t.Errorf("simulation %d: got %g, want %g", i, v, want)
		}
	}
}

func TestDraw(t *testing.T) {
	ft := newTree(t, "((X,Y),Z);", map[string][]int{
		"X": {0, 0},
		"Y": {0, 0},
		"Z": {0, 0},
	})
	ft.Reconstruct()

	// trait a always changes state,
	// trait b always ends in state 1.
	s, err := montecarlo.New(ft, montecarlo.Param{
		A: 0,
		B: 1,
		Matrix: [2]markov.Matrix{
			{{0, 1}, {0, 0}},
			{{0, 1}, {0, 1}},
		},
		Observed: 1.5,
		Seed:     11,
		CPU:      2,
	})
	if err != nil {
		t.Fatalf("unable to create simulator: %v", err)
	}
	if err := s.Run(100); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}

	// the node (X Y) and Z have both traits,
	// X and Y only the trait b.
	c := cooccur.NewCounts()
	c.Add(true, true)
	c.Add(false, true)
	c.Add(false, true)
	c.Add(true, true)
	want := c.EffectSize()
	if math.Abs(want-1) > 1e-9 {
		t.Fatalf("effect size: got %.6f, want %.6f", want, 1.0)
	}

	for i, v := range s.Null() {
		if math.Abs(v-want) > 1e-12 {
			t.Errorf("simulation %d: got %g, want %g", i, v, want)
		}
	}
	if s.Hits() != 0 {
		t.Errorf("hits: got %d, want %d", s.Hits(), 0)
	}
}

func TestSimulationSource(t *testing.T) {
	ft := newTree(t, treeText, traitStates)
	pt := ft.Phylo()
	before := topology(pt)

	s := newSimulator(t, ft, 9, 2)
	if err := s.Run(20); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}

	// the reconstruction is not modified
	if after := topology(pt); !reflect.DeepEqual(after, before) {
		t.Errorf("tree modified: got %v, want %v", after, before)
	}
	if !ft.Resolved() {
		t.Errorf("reconstruction modified")
	}
}

func TestErrors(t *testing.T) {
	ft := newTree(t, treeText, traitStates)
	if _, err := montecarlo.New(ft, montecarlo.Param{A: 0, B: 1}); !errors.Is(err, fitch.ErrNotReconstructed) {
		t.Errorf("new: got error %v, want %v", err, fitch.ErrNotReconstructed)
	}

	s := newSimulator(t, ft, 1, 1)
	if err := s.Run(0); !errors.Is(err, montecarlo.ErrNoSimulations) {
		t.Errorf("run: got error %v, want %v", err, montecarlo.ErrNoSimulations)
	}

	if _, err := montecarlo.New(ft, montecarlo.Param{A: 0, B: 2}); err == nil {
		t.Errorf("new: expecting error for undefined trait")
	}

	single := newTree(t, "((X,Y),Z);", map[string][]int{
		"X": {1},
		"Y": {1},
		"Z": {0},
	})
	single.Reconstruct()
	if _, err := montecarlo.New(single, montecarlo.Param{}); !errors.Is(err, montecarlo.ErrTraits) {
		t.Errorf("single trait: got error %v, want %v", err, montecarlo.ErrTraits)
	}
}

func TestSummarize(t *testing.T) {
	s := montecarlo.Summarize([]float64{5, 3, 1, 4, 2}, 5)

	if s.N != 5 {
		t.Errorf("n: got %d, want %d", s.N, 5)
	}
	sd := math.Sqrt(2.5)
	z := 2 / sd
	want := map[string][2]float64{
		"mean":     {s.Mean, 3},
		"sd":       {s.SD, sd},
		"lower":    {s.Lower, 1},
		"median":   {s.Median, 3},
		"upper":    {s.Upper, 5},
		"z":        {s.Z, z},
		"normal p": {s.NormalP, 0.5 * math.Erfc(z/math.Sqrt2)},
	}
	for name, v := range want {
		if math.Abs(v[0]-v[1]) > 1e-9 {
			t.Errorf("%s: got %.6f, want %.6f", name, v[0], v[1])
		}
	}

	empty := montecarlo.Summarize(nil, 1)
	if empty.N != 0 || !math.IsNaN(empty.Mean) || !math.IsNaN(empty.Median) {
		t.Errorf("empty: got %+v", empty)
	}

	one := montecarlo.Summarize([]float64{2}, 1)
	if one.Mean != 2 || one.Median != 2 || !math.IsNaN(one.SD) || !math.IsNaN(one.Z) {
		t.Errorf("single value: got %+v", one)
	}
}

func newSimulator(t testing.TB, ft *fitch.Tree, seed uint64, cpu int) *montecarlo.Simulator {
	t.Helper()

	if !ft.Resolved() {
		ft.Reconstruct()
	}
	p := montecarlo.Param{
		A:    0,
		B:    1,
		Seed: seed,
		CPU:  cpu,
	}
	for i, tr := range []int{p.A, p.B} {
		m, err := markov.Estimate(ft, tr)
		if err != nil {
			t.Fatalf("trait %d: unable to estimate matrix: %v", tr, err)
		}
		p.Matrix[i] = m
	}
	c, err := ft.Counts(p.A, p.B)
	if err != nil {
		t.Fatalf("unable to count branches: %v", err)
	}
	p.Observed = c.EffectSize()

	s, err := montecarlo.New(ft, p)
	if err != nil {
		t.Fatalf("unable to create simulator: %v", err)
	}
	return s
}

func newTree(t testing.TB, s string, states map[string][]int) *fitch.Tree {
	t.Helper()

	c, err := timetree.Newick(strings.NewReader(s), "test", 0)
	if err != nil {
		t.Fatalf("unable to read tree %q: %v", s, err)
	}
	names := c.Names()
	if len(names) != 1 {
		t.Fatalf("tree %q: got %d trees, want 1", s, len(names))
	}
	return newReconstruction(t, phylo.FromTimeTree(c.Tree(names[0])), states)
}

func newReconstruction(t testing.TB, pt *phylo.Tree, states map[string][]int) *fitch.Tree {
	t.Helper()

	var lk *taxa.Lookup
	for id, st := range states {
		if lk == nil {
			var err error
			lk, err = taxa.New([]string{"a", "b"}[:len(st)]...)
			if err != nil {
				t.Fatalf("unable to create lookup: %v", err)
			}
		}
		if err := lk.Add(taxa.Entry{ID: id, Scientific: id, States: st}); err != nil {
			t.Fatalf("unable to add %q: %v", id, err)
		}
	}

	ft, err := fitch.New(pt, lk)
	if err != nil {
		t.Fatalf("unable to create reconstruction: %v", err)
	}
	return ft
}

// topology returns the parent and taxon
// of each node of a tree.
func topology(pt *phylo.Tree) []string {
	var nodes []string
	for _, id := range pt.Nodes() {
		nodes = append(nodes, fmt.Sprintf("%d %d %s", id, pt.Parent(id), pt.Taxon(id)))
	}
	return nodes
}
