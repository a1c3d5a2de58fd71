// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package terms implements a command to print
// the list of the terminals in the trees of an ASR project.
package terms

import (
	"fmt"
	"slices"

	"github.com/js-arias/asr/project"
	"github.com/js-arias/asr/taxa"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "terms [--tree <tree-name>] [--missing] <project-file>",
	Short: "print a list of tree terminals",
	Long: `
Command terms reads the trees from an ASR project and prints the name of the
terminals in the standard output.

The argument of the command is the name of the project file.

By default all terminals will be printed. If the flag --tree is set, only the
terminals of the indicated tree will be printed.

If the flag --missing is set, only the terminals without an entry in the
taxon lookup of the project will be printed.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeName string
var missing bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().BoolVar(&missing, "missing", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	trees, err := p.Phylogenies()
	if err != nil {
		return err
	}

	var lk *taxa.Lookup
	if missing {
		lk, err = p.Taxa()
		if err != nil {
			return err
		}
	}

	terms := make(map[string]bool)
	for _, t := range trees {
		if treeName != "" && t.Name() != treeName {
			continue
		}
		for _, tax := range t.Terms() {
			if lk != nil {
				if _, ok := lk.Entry(tax); ok {
					continue
				}
			}
			terms[tax] = true
		}
	}

	termList := make([]string, 0, len(terms))
	for tax := range terms {
		termList = append(termList, tax)
	}
	slices.Sort(termList)

	for _, term := range termList {
		fmt.Fprintf(c.Stdout(), "%s\n", term)
	}
	return nil
}
