// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add a taxon lookup
// to an ASR project.
package add

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/js-arias/asr/project"
	"github.com/js-arias/asr/taxa"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `add [-f|--file <taxa-file>] [--filter]
	<project-file> [<taxa-file>...]`,
	Short: "add a taxon lookup to an ASR project",
	Long: `
Command add reads one or more tab-delimited files with taxon names and binary
traits, and adds them to the taxon lookup of an ASR project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

One or more taxa files can be given as arguments. If no file is given the
taxa will be read from the standard input. All files must define the same
traits, in the same order. If a taxon is defined more than once, the last
definition will be used.

By default, all taxa will be added. If the flag --filter is defined and there
are trees in the project, then it will add only the taxa present as terminals
of the trees.

By default the lookup will be stored in the taxa file currently defined for
the project. If the project does not have a taxa file, a new one will be
created with the name 'taxa.tab'. A different file name can be defined with
the flag --file or -f. If this flag is used, and there is a taxa file already
defined, then the new file will be created, and used as the taxa file
(previously defined taxa will be kept).
	`,
	SetFlags: setFlags,
	Run:      run,
}

var outFile string
var filterFlag bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&outFile, "file", "", "")
	c.Flags().StringVar(&outFile, "f", "", "")
	c.Flags().BoolVar(&filterFlag, "filter", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	lk, err := addTaxa(c.Stdin(), p, args[1:])
	if err != nil {
		return err
	}

	tf := p.Path(project.Taxa)
	if tf == "" {
		tf = "taxa.tab"
	}
	if outFile != "" {
		tf = outFile
	}
	if err := writeTaxa(tf, lk); err != nil {
		return err
	}

	if p.Path(project.Taxa) != tf {
		p.Add(project.Taxa, tf)
		if err := p.Write(); err != nil {
			return err
		}
	}
	return nil
}

func addTaxa(r io.Reader, p *project.Project, files []string) (*taxa.Lookup, error) {
	var lk *taxa.Lookup
	if p.Path(project.Taxa) != "" {
		var err error
		lk, err = p.Taxa()
		if err != nil {
			return nil, err
		}
	}

	var filter map[string]bool
	if filterFlag {
		var err error
		filter, err = makeFilter(p)
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		files = append(files, "-")
	}
	for _, f := range files {
		nl, err := readTaxa(r, f)
		if err != nil {
			return nil, err
		}
		if lk == nil {
			lk, err = taxa.New(nl.Traits()...)
			if err != nil {
				return nil, err
			}
		}
		if !slices.Equal(lk.Traits(), nl.Traits()) {
			return nil, fmt.Errorf("when reading %q: traits %v, want %v", f, nl.Traits(), lk.Traits())
		}

		for _, id := range nl.IDs() {
			if filter != nil && !filter[taxa.Canon(id)] {
				continue
			}
			e, _ := nl.Entry(id)
			if err := lk.Add(e); err != nil {
				return nil, fmt.Errorf("when reading %q: %v", f, err)
			}
		}
	}
	return lk, nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}

func readTaxa(r io.Reader, name string) (*taxa.Lookup, error) {
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	lk, err := taxa.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return lk, nil
}

func writeTaxa(name string, lk *taxa.Lookup) (err error) {
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

	if err := lk.TSV(f); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}

// makeFilter returns the canonical names
// of the terminals in the project trees.
func makeFilter(p *project.Project) (map[string]bool, error) {
	if p.Path(project.Trees) == "" {
		return nil, nil
	}
	trees, err := p.Phylogenies()
	if err != nil {
		return nil, err
	}

	terms := make(map[string]bool)
	for _, t := range trees {
		for _, tax := range t.Terms() {
			terms[taxa.Canon(tax)] = true
		}
	}
	return terms, nil
}
