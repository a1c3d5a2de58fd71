// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// trees in an ASR project as SVG files.
package draw

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/js-arias/asr/fitch"
	"github.com/js-arias/asr/project"
	"github.com/js-arias/asr/taxa"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `draw [--tree <tree>] [--trait <trait>]
	[--step <value>]
	[-o|--output <out-prefix>]
	<project-file>`,
	Short: "draw project trees as SVG files",
	Long: `
Command draw reads an ASR project and draws the trees into a SVG-encoded
file.

The argument of the command is the name of the project file.

If the project has a taxon lookup, terminals will be labeled with the common
names of the taxa.

If the flag --trait is defined with the name of a trait in the taxon lookup,
the ancestral states of the trait will be reconstructed, and the branches will
be colored by the reconstructed state.

If the trees have branch lengths, 10 pixel units will be used per branch
length unit; use the flag --step to define a different value (it can have
decimal points). If the trees do not have branch lengths, each branch will
have the length of a step.

By default, all trees in the project will be drawn. If the flag --tree is set,
only the indicated tree will be printed.

By default, the names of the trees will be used as the output file names. Use
the flag -o, or --output, to define a prefix for the resulting files.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var stepX float64
var treeName string
var traitName string
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&stepX, "step", 10, "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().StringVar(&traitName, "trait", "", "")
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
	if p.Path(project.Taxa) != "" {
		lk, err = p.Taxa()
		if err != nil {
			return err
		}
	}

	trait := -1
	if traitName != "" {
		if lk == nil {
			return fmt.Errorf("taxon lookup not defined in project %q", args[0])
		}
		tn := strings.Join(strings.Fields(strings.ToLower(traitName)), " ")
		trait = slices.Index(lk.Traits(), tn)
		if trait < 0 {
			return fmt.Errorf("trait %q not defined in project %q", traitName, args[0])
		}
	}

	for _, t := range trees {
		if treeName != "" && t.Name() != treeName {
			continue
		}

		st := copyTree(t, lk, stepX)
		if trait >= 0 {
			ft, err := fitch.New(t, lk)
			if err != nil {
				return err
			}
			ft.Reconstruct()
			st.setColor(ft, trait)
		}

		if err := writeSVG(t.Name(), st); err != nil {
			return err
		}
	}
	return nil
}

func writeSVG(name string, t svgTree) (err error) {
	if outPrefix != "" {
		name = fmt.Sprintf("%s-%s.svg", outPrefix, name)
	} else {
		name += ".svg"
	}

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
	if err := t.draw(bw); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}
