// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sim implements a command to test
// the co-occurrence of two traits
// using Monte Carlo simulations.
package sim

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/js-arias/asr/fitch"
	"github.com/js-arias/asr/markov"
	"github.com/js-arias/asr/montecarlo"
	"github.com/js-arias/asr/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `sim [--tree <tree>] [--sims <number>] [--seed <value>]
	[--cpu <number>] [--matrix <file>] [--plot]
	[-o|--output <prefix>] <project-file>`,
	Short: "test the co-occurrence of two traits",
	Long: `
Command sim reads the trees and the taxon lookup of an ASR project, and tests
if the two traits of the lookup co-occur in the branches of the trees more
often than expected by chance.

The argument of the command is the name of the project file. The taxon
lookup must have two traits.

For each tree, the ancestral states are reconstructed with Fitch parsimony,
and the transition matrix of each trait is estimated from the reconstruction.
Then the traits are simulated independently along the tree, starting from
the reconstructed root states, and using the transition matrices. For each
simulation, the effect size of the co-occurrence of the traits is calculated
and stored as the null distribution. The p-value is the fraction of
simulations with an effect size greater or equal than the observed effect
size.

By default, 1000 simulations will be made. Use the flag --sims to define a
different number of simulations.

By default, a random seed will be used. Use the flag --seed to define a
particular seed, so the results can be repeated. The seed used is printed in
the standard output.

By default, all available CPUs will be used in the simulations. Use the flag
--cpu to define a different number of processors.

By default, the transition matrices are estimated from the reconstruction.
Use the flag --matrix to read the transition matrices from a file (for
example, a file produced by the command recon). The traits are matched by
name.

By default, all trees in the project will be used. If the flag --tree is set,
only the indicated tree will be used.

For each tree, the null distribution is written into a file. By default, the
name of the project will be used as the prefix of the output files. Use the
flag -o, or --output, to define a different prefix. The files will be named
<prefix>-<tree>-null.tab. If the flag --plot is defined, a histogram of the
null distribution, with the observed effect size, will be written as
<prefix>-<tree>-null.png.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var numSims int
var seed uint64
var numCPU int
var treeName string
var matrixFile string
var outPrefix string
var plotFlag bool

func setFlags(c *command.Command) {
	c.Flags().IntVar(&numSims, "sims", 1000, "")
	c.Flags().Uint64Var(&seed, "seed", 0, "")
	c.Flags().IntVar(&numCPU, "cpu", 0, "")
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().StringVar(&matrixFile, "matrix", "", "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
	c.Flags().BoolVar(&plotFlag, "plot", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if numSims <= 0 {
		return c.UsageError("flag --sims must be greater than zero")
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
	if len(lk.Traits()) < 2 {
		return fmt.Errorf("project %q: %w", args[0], montecarlo.ErrTraits)
	}

	var fixed []markov.Matrix
	if matrixFile != "" {
		fixed, err = readMatrix(matrixFile, lk.Traits())
		if err != nil {
			return err
		}
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

		cn, err := ft.Counts(0, 1)
		if err != nil {
			return err
		}
		observed := cn.EffectSize()

		param := montecarlo.Param{
			A:        0,
			B:        1,
			Observed: observed,
			Seed:     seed,
			CPU:      numCPU,
		}
		for i := range param.Matrix {
			if fixed != nil {
				param.Matrix[i] = fixed[i]
				continue
			}
			param.Matrix[i], err = markov.Estimate(ft, i)
			if err != nil {
				return err
			}
			if param.Matrix[i][0][1] == 0 && param.Matrix[i][1][1] == 0 {
				fmt.Fprintf(c.Stderr(), "WARNING: tree %q: trait %q: state 1 is never simulated\n", t.Name(), lk.Traits()[i])
			}
		}

		s, err := montecarlo.New(ft, param)
		if err != nil {
			return err
		}
		if err := s.Run(numSims); err != nil {
			return err
		}

		sum := montecarlo.Summarize(s.Null(), observed)
		fmt.Fprintf(c.Stdout(), "# tree: %s\n", t.Name())
		fmt.Fprintf(c.Stdout(), "seed: %d\n", s.Seed())
		fmt.Fprintf(c.Stdout(), "observed effect size: %.6f\n", observed)
		fmt.Fprintf(c.Stdout(), "simulations: %d\thits: %d\tp-value: %.6f\n", sum.N, s.Hits(), s.PValue())
		fmt.Fprintf(c.Stdout(), "null mean: %.6f\tsd: %.6f\n", sum.Mean, sum.SD)
		fmt.Fprintf(c.Stdout(), "null quantiles: 2.5%%: %.6f\t50%%: %.6f\t97.5%%: %.6f\n", sum.Lower, sum.Median, sum.Upper)
		fmt.Fprintf(c.Stdout(), "z-score: %.6f\tnormal p-value: %.6f\n", sum.Z, sum.NormalP)

		if err := writeNull(t.Name(), s); err != nil {
			return err
		}
		if plotFlag {
			name := fmt.Sprintf("%s-%s-null.png", outPrefix, t.Name())
			if err := plotNull(name, s.Null(), observed); err != nil {
				return err
			}
		}
	}
	if !found {
		return fmt.Errorf("tree %q not found in project %q", treeName, args[0])
	}
	return nil
}

// readMatrix reads the transition matrices
// of the given traits.
func readMatrix(name string, traits []string) ([]markov.Matrix, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mt, ms, err := markov.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}

	fixed := make([]markov.Matrix, len(traits))
	for i, tn := range traits {
		j := slices.Index(mt, tn)
		if j < 0 {
			return nil, fmt.Errorf("while reading file %q: trait %q not found", name, tn)
		}
		fixed[i] = ms[j]
	}
	return fixed, nil
}

func writeNull(tree string, s *montecarlo.Simulator) (err error) {
	name := fmt.Sprintf("%s-%s-null.tab", outPrefix, tree)
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
	fmt.Fprintf(bw, "# null distribution of tree %q\n", tree)
	fmt.Fprintf(bw, "# seed: %d\n", s.Seed())
	fmt.Fprintf(bw, "# observed: %.6f\n", s.Observed())
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write([]string{"sim", "effect"}); err != nil {
		return fmt.Errorf("while writing %q: unable to write header: %v", name, err)
	}
	for i, v := range s.Null() {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(v, 'f', 6, 64),
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
