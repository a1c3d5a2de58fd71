// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package markov

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// ReadTSV reads a set of transition matrices
// from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - trait, the name of the trait
//   - from, the state at the parent node
//   - to, the state at the descendant node
//   - prob, the fraction of branches with the transition
//
// Here is an example file:
//
//	trait	from	to	prob
//	herbivory	0	0	0.600000
//	herbivory	0	1	0.100000
//	herbivory	1	0	0.050000
//	herbivory	1	1	0.250000
//
// It returns the names of the traits,
// in the order they are found in the file,
// and their matrices.
func ReadTSV(r io.Reader) ([]string, []Matrix, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range []string{"trait", "from", "to", "prob"} {
		if _, ok := fields[h]; !ok {
			return nil, nil, fmt.Errorf("expecting field %q", h)
		}
	}

	var traits []string
	var ms []Matrix
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			ln := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				ln = pe.StartLine
			}
			return nil, nil, fmt.Errorf("on row %d: %v", ln, err)
		}
		ln, _ := tab.FieldPos(0)

		f := "trait"
		tr := strings.Join(strings.Fields(strings.ToLower(row[fields[f]])), " ")
		if tr == "" {
			return nil, nil, fmt.Errorf("on row %d: field %q: empty trait name", ln, f)
		}
		i := slices.Index(traits, tr)
		if i < 0 {
			traits = append(traits, tr)
			ms = append(ms, Matrix{})
			i = len(traits) - 1
		}

		var st [2]int
		for j, f := range []string{"from", "to"} {
			s, err := strconv.Atoi(row[fields[f]])
			if err != nil {
				return nil, nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
			}
			if s != 0 && s != 1 {
				return nil, nil, fmt.Errorf("on row %d: field %q: invalid state %d", ln, f, s)
			}
			st[j] = s
		}

		f = "prob"
		p, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}
		if p < 0 || p > 1 {
			return nil, nil, fmt.Errorf("on row %d: field %q: invalid probability %.6f", ln, f, p)
		}
		ms[i][st[0]][st[1]] = p
	}
	if len(traits) == 0 {
		return nil, nil, fmt.Errorf("while reading data: %v", io.ErrUnexpectedEOF)
	}
	return traits, ms, nil
}

// TSV writes a set of transition matrices
// as a TSV file.
func TSV(w io.Writer, traits []string, ms []Matrix) error {
	if len(traits) != len(ms) {
		return fmt.Errorf("got %d traits and %d matrices", len(traits), len(ms))
	}

	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := []string{"trait", "from", "to", "prob"}
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for i, m := range ms {
		for from, r := range m {
			for to, p := range r {
				row := []string{
					traits[i],
					strconv.Itoa(from),
					strconv.Itoa(to),
					strconv.FormatFloat(p, 'f', 6, 64),
				}
				if err := tab.Write(row); err != nil {
					return fmt.Errorf("when writing data: %v", err)
				}
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
