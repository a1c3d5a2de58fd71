// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package montecarlo implements a Monte Carlo test
// for the co-occurrence of two binary traits
// on the branches of a tree.
//
// Each simulation draws the states of both traits
// from the root to the terminals,
// using the transition matrices
// estimated from the reconstructed tree,
// and the effect size of the simulated states
// is added to a null distribution.
package montecarlo

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"

	"github.com/js-arias/asr/cooccur"
	"github.com/js-arias/asr/fitch"
	"github.com/js-arias/asr/markov"
	"github.com/js-arias/asr/phylo"
)

// Scale is the fixed point scale
// used to compare the random draws
// with the transition probabilities.
// Draws are integers in [0, Scale).
const Scale = 1000

// Errors returned by the simulator.
var (
	ErrNoSimulations = errors.New("no simulations requested")
	ErrTraits        = errors.New("simulation requires two traits")
)

// Param is a collection of parameters
// of a simulation batch.
type Param struct {
	// Traits to be tested
	A, B int

	// Transition matrices of the traits A and B.
	//
	// A node takes the state 1
	// with probability Matrix[p][1],
	// where p is the simulated state of its parent,
	// and 0 otherwise.
	// Rows need not add up to 1,
	// so a parent with state 1 keeps its state
	// with probability Matrix[1][1],
	// not 1 - Matrix[1][0].
	// An all-zero matrix only produces 0 states.
	Matrix [2]markov.Matrix

	// Observed effect size
	Observed float64

	// Seed of the random sources.
	// If zero,
	// a random seed will be used.
	Seed uint64

	// Number of parallel workers.
	// If zero,
	// all available CPUs will be used.
	CPU int
}

// A Simulator runs Monte Carlo simulations
// of two traits
// over a copy of a reconstructed tree.
type Simulator struct {
	t    *phylo.Tree
	root [2]int
	m    [2]markov.Matrix

	observed float64
	seed     uint64
	cpu      int

	null []float64
	hits int
}

// New creates a new simulator
// from a reconstructed tree.
func New(t *fitch.Tree, p Param) (*Simulator, error) {
	if !t.Resolved() {
		return nil, fmt.Errorf("tree %q: %w", t.Name(), fitch.ErrNotReconstructed)
	}
	traits := len(t.Traits())
	if traits < 2 {
		return nil, fmt.Errorf("tree %q: %w: found %d trait", t.Name(), ErrTraits, traits)
	}
	for _, tr := range []int{p.A, p.B} {
		if tr < 0 || tr >= traits {
			return nil, fmt.Errorf("tree %q: undefined trait %d", t.Name(), tr)
		}
	}

	seed := p.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	cpu := p.CPU
	if cpu <= 0 {
		cpu = runtime.NumCPU()
	}

	pt := t.Phylo()
	root := pt.Root()
	return &Simulator{
		t:        pt.Clone(),
		root:     [2]int{t.State(root, p.A), t.State(root, p.B)},
		m:        p.Matrix,
		observed: p.Observed,
		seed:     seed,
		cpu:      cpu,
	}, nil
}

// Run runs n simulations.
// Results of previous runs are discarded.
func (s *Simulator) Run(n int) error {
	if n <= 0 {
		return ErrNoSimulations
	}
	s.null = make([]float64, n)
	s.hits = 0

	cpu := min(s.cpu, n)
	jobs := make(chan int, cpu*2)
	hits := make([]int, cpu)

	var wg sync.WaitGroup
	for w := range cpu {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			sm := s.newWorker()
			for i := range jobs {
				es := sm.simulate(i)
				s.null[i] = es
				if es >= s.observed {
					hits[w]++
				}
			}
		}(w)
	}

	for i := range n {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, h := range hits {
		s.hits += h
	}
	return nil
}

// Hits returns the number of simulations
// with an effect size
// greater or equal than the observed effect size.
func (s *Simulator) Hits() int {
	return s.hits
}

// Null returns the null distribution
// of the effect size.
func (s *Simulator) Null() []float64 {
	return slices.Clone(s.null)
}

// Observed returns the observed effect size.
func (s *Simulator) Observed() float64 {
	return s.observed
}

// PValue returns the fraction of simulations
// with an effect size
// greater or equal than the observed effect size.
func (s *Simulator) PValue() float64 {
	if len(s.null) == 0 {
		return 0
	}
	return float64(s.hits) / float64(len(s.null))
}

// Seed returns the seed used by the simulator.
func (s *Simulator) Seed() uint64 {
	return s.seed
}

// A worker keeps the state
// of a single goroutine.
type worker struct {
	order  []int
	parent []int
	root   [2]int
	m      [2]markov.Matrix
	seed   uint64

	states [2][]int
}

func (s *Simulator) newWorker() *worker {
	t := s.t.Clone()
	w := &worker{
		order:  t.Preorder(),
		parent: make([]int, t.Len()),
		root:   s.root,
		m:      s.m,
		seed:   s.seed,
	}
	for _, id := range t.Nodes() {
		w.parent[id] = t.Parent(id)
	}
	for i := range w.states {
		w.states[i] = make([]int, t.Len())
	}
	return w
}

// simulate runs the simulation i
// and returns its effect size.
func (w *worker) simulate(i int) float64 {
	rng := rand.New(rand.NewPCG(w.seed, uint64(i)))

	c := cooccur.NewCounts()
	for _, id := range w.order {
		p := w.parent[id]
		if p < 0 {
			w.states[0][id] = w.root[0]
			w.states[1][id] = w.root[1]
			continue
		}

		for tr := range w.states {
			from := w.states[tr][p]
			r := rng.IntN(Scale)
			st := 0
			if float64(r) < w.m[tr][from][1]*Scale {
				st = 1
			}
			w.states[tr][id] = st
		}
		c.Add(w.states[0][id] == 1, w.states[1][id] == 1)
	}
	return c.EffectSize()
}
