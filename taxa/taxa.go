// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package taxa implements a taxon lookup:
// a table that associates the terminal identifiers
// of a tree
// with the names of the taxa
// and the states of one or two binary traits.
package taxa

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMalformed is the error returned
// when a lookup table or entry is invalid.
var ErrMalformed = errors.New("malformed taxon lookup")

// MaxTraits is the maximum number of traits
// in a lookup.
const MaxTraits = 2

// An Entry is a record of a taxon lookup.
type Entry struct {
	// Identifier of the taxon,
	// as used in the terminals of a tree.
	ID string

	Scientific string
	Common     string

	// States of each trait
	// (either 0 or 1).
	States []int
}

// Lookup is a collection of taxon entries.
type Lookup struct {
	traits  []string
	entries map[string]Entry
}

// New creates a new empty lookup
// for the given traits.
func New(traits ...string) (*Lookup, error) {
	if len(traits) == 0 || len(traits) > MaxTraits {
		return nil, fmt.Errorf("%w: got %d traits, want 1 or %d", ErrMalformed, len(traits), MaxTraits)
	}
	ts := make([]string, len(traits))
	for i, t := range traits {
		t = strings.Join(strings.Fields(strings.ToLower(t)), " ")
		if t == "" {
			t = fmt.Sprintf("trait%d", i+1)
		}
		ts[i] = t
	}
	return &Lookup{
		traits:  ts,
		entries: make(map[string]Entry),
	}, nil
}

// Add adds an entry to the lookup.
// If the entry is already defined
// it will be replaced.
func (lk *Lookup) Add(e Entry) error {
	id := strings.TrimSpace(e.ID)
	key := Canon(id)
	if key == "" {
		return fmt.Errorf("%w: empty taxon identifier", ErrMalformed)
	}
	if len(e.States) != len(lk.traits) {
		return fmt.Errorf("%w: taxon %q: got %d trait states, want %d", ErrMalformed, id, len(e.States), len(lk.traits))
	}
	for i, s := range e.States {
		if s != 0 && s != 1 {
			return fmt.Errorf("%w: taxon %q: trait %q: invalid state %d", ErrMalformed, id, lk.traits[i], s)
		}
	}

	lk.entries[key] = Entry{
		ID:         id,
		Scientific: strings.Join(strings.Fields(e.Scientific), " "),
		Common:     strings.Join(strings.Fields(e.Common), " "),
		States:     slices.Clone(e.States),
	}
	return nil
}

// Entry returns the entry of a taxon.
// The identifier is compared
// using its canonical form.
func (lk *Lookup) Entry(id string) (Entry, bool) {
	e, ok := lk.entries[Canon(id)]
	if !ok {
		return Entry{}, false
	}
	e.States = slices.Clone(e.States)
	return e, true
}

// IDs returns the identifiers of the taxa
// in the lookup.
func (lk *Lookup) IDs() []string {
	ids := make([]string, 0, len(lk.entries))
	for _, e := range lk.entries {
		ids = append(ids, e.ID)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of entries
// in the lookup.
func (lk *Lookup) Len() int {
	return len(lk.entries)
}

// State returns the state of a trait
// for a taxon.
// If the taxon is not in the lookup,
// or the trait is not defined,
// it returns false.
func (lk *Lookup) State(id string, trait int) (int, bool) {
	if trait < 0 || trait >= len(lk.traits) {
		return 0, false
	}
	e, ok := lk.entries[Canon(id)]
	if !ok {
		return 0, false
	}
	return e.States[trait], true
}

// Traits returns the names of the traits.
func (lk *Lookup) Traits() []string {
	return slices.Clone(lk.traits)
}

// Canon returns the canonical form
// of a taxon identifier:
// lower case,
// underscores as spaces,
// and without extra spaces.
func Canon(id string) string {
	id = strings.ReplaceAll(id, "_", " ")
	return strings.Join(strings.Fields(strings.ToLower(id)), " ")
}
