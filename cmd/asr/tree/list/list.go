// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package list implements a command to print
// the list of trees in an ASR project.
package list

import (
	"fmt"

	"github.com/js-arias/asr/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "list [--terms] <project-file>",
	Short: "print a list of the trees in a project",
	Long: `
Command list reads the trees from an ASR project and prints the tree names in
the standard output.

The argument of the command is the name of the project file.

If the flag --terms is defined, the number of terminals of each tree will be
printed after the tree name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var termsFlag bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&termsFlag, "terms", false, "")
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

	for _, t := range trees {
		if termsFlag {
			fmt.Fprintf(c.Stdout(), "%s\t%d\n", t.Name(), len(t.Terms()))
			continue
		}
		fmt.Fprintf(c.Stdout(), "%s\n", t.Name())
	}
	return nil
}
