// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package recon implements a command to reconstruct
// the ancestral states of the traits
// of the trees in an ASR project.
package recon

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/js-arias/asr/fitch"
	"github.com/js-arias/asr/markov"
	"github.com/js-arias/asr/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "recon [--tree <tree>] [-o|--output <prefix>] <project-file>",
	Short: "reconstruct ancestral states",
	Long: `
Command recon reads the trees and the taxon lookup of an ASR project, and
reconstructs the ancestral states of the binary traits of the lookup using
Fitch parsimony. If there are ties in a node, the smallest state will be
used.

The argument of the command is the name of the project file.

By default, all trees in the project will be reconstructed. If the flag --tree
is set, only the indicated tree will be used.

For each tree, the number of state changes of each trait, and the transition
matrix of each trait (the fraction of branches of the tree with a given
parent and descendant state) will be printed in the standard output. If the
lookup has two traits, the number of branches with each trait, with both
traits, and the effect size of the co-occurrence of both traits, will be
printed too.

Two files will be written for each tree: a file with the reconstructed states
of each node, and a file with the transition matrices. By default, the name
of the project will be used as the prefix of the output files. Use the flag
-o, or --output, to define a different prefix. The files will be named
<prefix>-<tree>-states.tab and <prefix>-<tree>-matrix.tab.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeName string
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	if outPrefix == "" {
		outPrefix = p.NameRoot()
	}

	trees, err := p.Phylogenies()
	if err != nil {
		return err
	}
	lk, err := p.Taxa()
	if err != nil {
		return err
	}

	found := false
	for _, t := range trees {
		if treeName != "" && t.Name() != treeName {
			continue
		}
		found = true

		ft, err := fitch.New(t, lk)
		if err != nil {
			return err
		}
		ft.Reconstruct()

		traits := ft.Traits()
		ms := make([]markov.Matrix, len(traits))
		for i := range traits {
			ms[i], err = markov.Estimate(ft, i)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(c.Stdout(), "# tree: %s\n", t.Name())
		for i, tn := range traits {
			m := ms[i]
			fmt.Fprintf(c.Stdout(), "%s\tchanges: %d\n", tn, ft.Changes(i))
			fmt.Fprintf(c.Stdout(), "\t0->0: %.6f\t0->1: %.6f\n", m[0][0], m[0][1])
			fmt.Fprintf(c.Stdout(), "\t1->0: %.6f\t1->1: %.6f\n", m[1][0], m[1][1])
		}
		if len(traits) > 1 {
			cn, err := ft.Counts(0, 1)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Stdout(), "branches: %d\t%s: %.0f\t%s: %.0f\tboth: %.0f\n", cn.Branches, traits[0], cn.A, traits[1], cn.B, cn.Both)
			fmt.Fprintf(c.Stdout(), "effect size: %.6f\n", cn.EffectSize())
		}

		if err := writeStates(ft); err != nil {
			return err
		}
		if err := writeMatrix(t.Name(), traits, ms); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("tree %q not found in project %q", treeName, args[0])
	}
	return nil
}

func writeStates(t *fitch.Tree) (err error) {
	name := fmt.Sprintf("%s-%s-states.tab", outPrefix, t.Name())
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# reconstructed states of tree %q\n", t.Name())
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	traits := t.Traits()
	header := append([]string{"tree", "node", "parent", "taxon"}, traits...)
	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing %q: unable to write header: %v", name, err)
	}

	pt := t.Phylo()
	for _, id := range pt.Preorder() {
		row := []string{
			t.Name(),
			strconv.Itoa(id),
			strconv.Itoa(pt.Parent(id)),
			pt.Taxon(id),
		}
		for i := range traits {
			row = append(row, strconv.Itoa(t.State(id, i)))
		}
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("while writing %q: when writing data: %v", name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing %q: when writing data: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}

func writeMatrix(tree string, traits []string, ms []markov.Matrix) (err error) {
	name := fmt.Sprintf("%s-%s-matrix.tab", outPrefix, tree)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := markov.TSV(f, traits, ms); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}
