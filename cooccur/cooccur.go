// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cooccur implements the effect size
// of the co-occurrence of two binary traits
// along the branches of a tree.
//
// The effect size is the ratio between
// the observed frequency of branches
// with both traits
// and the frequency expected
// if the traits were independent:
//
//	(both/total) / ((a/total) * (b/total))
package cooccur

// Epsilon is the floor value
// added to the counts of the traits
// to prevent divisions by zero.
const Epsilon = 1e-20

// EffectSize returns the effect size
// of two traits,
// from the number of branches with the trait A,
// with the trait B,
// with both traits,
// and the total number of branches.
func EffectSize(a, b, both, total float64) float64 {
	return (both / total) / ((a / total) * (b / total))
}

// Counts is a tally of the branches
// with the states of two traits.
type Counts struct {
	// Number of branches.
	Branches int

	// Number of branches with the trait A,
	// with the trait B,
	// and with both traits.
	A, B, Both float64
}

// NewCounts returns a new tally
// with each trait count starting at Epsilon.
func NewCounts() Counts {
	return Counts{
		A:    Epsilon,
		B:    Epsilon,
		Both: Epsilon,
	}
}

// Reset sets the tally to its initial state.
func (c *Counts) Reset() {
	*c = NewCounts()
}

// Add adds a branch to the tally,
// indicating if the trait A,
// and the trait B,
// are present in the branch.
func (c *Counts) Add(a, b bool) {
	c.Branches++
	if a {
		c.A++
	}
	if b {
		c.B++
	}
	if a && b {
		c.Both++
	}
}

// EffectSize returns the effect size
// of the tally.
func (c Counts) EffectSize() float64 {
	return EffectSize(c.A, c.B, c.Both, float64(c.Branches))
}
