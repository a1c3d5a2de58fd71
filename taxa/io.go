// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package taxa

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// fixed columns before the trait columns.
const fixedCols = 3

// ReadTSV reads a taxon lookup
// from a TSV file.
//
// The first row is the header.
// Columns are read in a fixed order:
//
//   - the identifier of the taxon,
//     as used in the terminals of the tree
//   - the scientific name
//   - the common name
//   - the state (0 or 1) of one or two traits
//
// The names of the trait columns in the header
// are used as the names of the traits.
// Here is an example file:
//
//	id	scientific	common	herbivory	tusks
//	elephas_maximus	Elephas maximus	Asian elephant	1	1
//	felis_catus	Felis catus	cat	0	0
//	sus_scrofa	Sus scrofa	wild boar	0	1
func ReadTSV(r io.Reader) (*Lookup, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	if len(head) <= fixedCols || len(head) > fixedCols+MaxTraits {
		return nil, fmt.Errorf("%w: header: got %d columns, want %d or %d", ErrMalformed, len(head), fixedCols+1, fixedCols+MaxTraits)
	}

	lk, err := New(head[fixedCols:]...)
	if err != nil {
		return nil, err
	}

	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, fmt.Errorf("on row %d: %w: %v", pe.StartLine, ErrMalformed, pe.Err)
			}
			return nil, fmt.Errorf("while reading data: %v", err)
		}
		ln, _ := tab.FieldPos(0)

		e := Entry{
			ID:         row[0],
			Scientific: row[1],
			Common:     row[2],
			States:     make([]int, len(lk.traits)),
		}
		for i, t := range lk.traits {
			v := strings.TrimSpace(row[fixedCols+i])
			s, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d: field %q: %w: %v", ln, t, ErrMalformed, err)
			}
			if s != 0 && s != 1 {
				return nil, fmt.Errorf("on row %d: field %q: %w: invalid state %q", ln, t, ErrMalformed, v)
			}
			e.States[i] = int(s)
		}
		if err := lk.Add(e); err != nil {
			return nil, fmt.Errorf("on row %d: %w", ln, err)
		}
	}
	return lk, nil
}

// TSV writes a taxon lookup
// as a TSV file.
func (lk *Lookup) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	header := append([]string{"id", "scientific", "common"}, lk.traits...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, id := range lk.IDs() {
		e := lk.entries[Canon(id)]
		row := []string{e.ID, e.Scientific, e.Common}
		for _, s := range e.States {
			row = append(row, strconv.Itoa(s))
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
