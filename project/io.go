// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/asr/phylo"
	"github.com/js-arias/asr/taxa"
	"github.com/js-arias/timetree"
)

// Phylogenies returns the time calibrated trees
// of a project,
// resolved as bifurcating trees.
// Branch lengths are in million years.
func (p *Project) Phylogenies() ([]*phylo.Tree, error) {
	tc, err := p.Trees()
	if err != nil {
		return nil, err
	}

	names := tc.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("on project %q: file %q without trees", p.name, p.Path(Trees))
	}
	trees := make([]*phylo.Tree, 0, len(names))
	for _, tn := range names {
		t := phylo.FromTimeTree(tc.Tree(tn))
		t.Bifurcate()
		trees = append(trees, t)
	}
	return trees, nil
}

// Taxa reads a taxon lookup file
// as defined in a project.
func (p *Project) Taxa() (*taxa.Lookup, error) {
	name := p.Path(Taxa)
	if name == "" {
		return nil, fmt.Errorf("taxon lookup not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lk, err := taxa.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %w", name, err)
	}
	return lk, nil
}

// Trees reads a tree collection file
// as defined in a project.
func (p *Project) Trees() (*timetree.Collection, error) {
	name := p.Path(Trees)
	if name == "" {
		return nil, fmt.Errorf("trees not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := timetree.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}
