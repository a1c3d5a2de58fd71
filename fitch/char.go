// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package fitch

import (
	"math/bits"
	"strconv"
	"strings"
)

// StateSet is a set of candidate states
// of a binary character.
type StateSet uint8

// Single returns a set
// with a single state.
func Single(state int) StateSet {
	return StateSet(1 << state)
}

// Has returns true if the state is in the set.
func (s StateSet) Has(state int) bool {
	if state < 0 || state > 1 {
		return false
	}
	return s&Single(state) != 0
}

// Len returns the number of states in the set.
func (s StateSet) Len() int {
	return bits.OnesCount8(uint8(s))
}

// SubsetOf returns true
// if every state of the set
// is also in the set o.
func (s StateSet) SubsetOf(o StateSet) bool {
	return s&o == s
}

// Min returns the smallest state of the set.
// If the set is empty
// it returns -1.
func (s StateSet) Min() int {
	if s == 0 {
		return -1
	}
	return bits.TrailingZeros8(uint8(s))
}

func (s StateSet) String() string {
	var st []string
	for i := range 2 {
		if s.Has(i) {
			st = append(st, strconv.Itoa(i))
		}
	}
	return "{" + strings.Join(st, ",") + "}"
}

// A Char is the value of a character at a node.
// It is either Undetermined,
// during the reconstruction,
// or Resolved.
type Char interface {
	isChar()
}

// Undetermined is a character
// with a set of candidate states.
type Undetermined StateSet

// Resolved is a character
// with a single state.
type Resolved int

func (Undetermined) isChar() {}
func (Resolved) isChar() {}

// set returns the candidate states of a character.
func set(c Char) StateSet {
	switch v := c.(type) {
	case Undetermined:
		return StateSet(v)
	case Resolved:
		return Single(int(v))
	}
	return 0
}
