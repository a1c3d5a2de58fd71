// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package list implements a command to print
// the taxa of the lookup of an ASR project.
package list

import (
	"fmt"
	"strings"

	"github.com/js-arias/asr/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "list [--states] <project-file>",
	Short: "print a list of the taxa in a project",
	Long: `
Command list reads the taxon lookup of an ASR project and prints a numbered
list of the taxa in the standard output. Each taxon is printed with its
scientific name, and its common name between parenthesis.

The argument of the command is the name of the project file.

If the flag --states is defined, the states of each trait will be printed
after the taxon names.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var statesFlag bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&statesFlag, "states", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	lk, err := p.Taxa()
	if err != nil {
		return err
	}

	if statesFlag {
		fmt.Fprintf(c.Stdout(), "# traits: %s\n", strings.Join(lk.Traits(), ", "))
	}
	for i, id := range lk.IDs() {
		e, _ := lk.Entry(id)
		name := e.Scientific
		if name == "" {
			name = e.ID
		}
		if e.Common != "" {
			name = fmt.Sprintf("%s (%s)", name, e.Common)
		}
		if !statesFlag {
			fmt.Fprintf(c.Stdout(), "%d. %s\n", i+1, name)
			continue
		}
		st := make([]string, len(e.States))
		for j, s := range e.States {
			st[j] = fmt.Sprintf("%d", s)
		}
		fmt.Fprintf(c.Stdout(), "%d. %s\t%s\n", i+1, name, strings.Join(st, "\t"))
	}
	return nil
}
