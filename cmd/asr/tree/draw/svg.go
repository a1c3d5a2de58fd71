// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package draw

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/js-arias/asr/fitch"
	"github.com/js-arias/asr/phylo"
	"github.com/js-arias/asr/taxa"
	"github.com/js-arias/blind"
)

const yStep = 12

type node struct {
	x     float64
	y     int
	topY  int
	botY  int
	color color.RGBA

	id    int
	tax   string
	depth float64

	anc  *node
	desc []*node
}

type svgTree struct {
	y     int
	x     float64
	taxSz int
	root  *node
	nodes map[int]*node
}

func copyTree(t *phylo.Tree, lk *taxa.Lookup, xStep float64) svgTree {
	useLength := false
	for _, id := range t.Nodes() {
		if t.Length(id) > 0 {
			useLength = true
			break
		}
	}

	maxSz := 0
	var root *node
	ids := make(map[int]*node)
	for _, id := range t.Preorder() {
		var anc *node
		p := t.Parent(id)
		if p >= 0 {
			anc = ids[p]
		}

		n := &node{
			id:    id,
			tax:   label(t, lk, id),
			anc:   anc,
			color: color.RGBA{0, 0, 0, 255},
		}
		if anc == nil {
			root = n
		} else {
			n.depth = anc.depth + 1
			if useLength {
				n.depth = anc.depth + t.Length(id)
			}
			anc.desc = append(anc.desc, n)
		}
		ids[id] = n
		if len(n.tax) > maxSz {
			maxSz = len(n.tax)
		}
	}

	s := svgTree{root: root, nodes: ids}
	s.prepare(root, xStep)
	s.y = s.y * yStep
	s.taxSz = maxSz

	return s
}

// label returns the label of a terminal,
// using the common name if it is defined.
func label(t *phylo.Tree, lk *taxa.Lookup, id int) string {
	if !t.IsTerm(id) {
		return ""
	}
	tax := t.Taxon(id)
	if lk == nil {
		return tax
	}
	e, ok := lk.Entry(tax)
	if !ok {
		return tax
	}
	if e.Common != "" {
		return e.Common
	}
	if e.Scientific != "" {
		return e.Scientific
	}
	return tax
}

func (s *svgTree) prepare(n *node, xStep float64) {
	n.x = n.depth*xStep + 10
	if s.x < n.x {
		s.x = n.x
	}

	if n.desc == nil {
		n.y = s.y*yStep + 5
		s.y += 1
		return
	}

	botY := 0
	topY := math.MaxInt
	for _, d := range n.desc {
		s.prepare(d, xStep)
		if d.y < topY {
			topY = d.y
		}
		if d.y > botY {
			botY = d.y
		}
	}
	n.topY = topY
	n.botY = botY
	n.y = topY + (botY-topY)/2
}

// stateColor is the color of each state.
var stateColor = [2]color.RGBA{
	blind.Sequential(blind.Iridescent, 0.15),
	blind.Sequential(blind.Iridescent, 0.85),
}

func (s *svgTree) setColor(ft *fitch.Tree, trait int) {
	for id, n := range s.nodes {
		st := ft.State(id, trait)
		if st < 0 {
			continue
		}
		n.color = stateColor[st]
	}
}

func (s *svgTree) draw(w io.Writer) error {
	fmt.Fprintf(w, "%s", xml.Header)
	e := xml.NewEncoder(w)
	svg := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(s.y + 5)},
			// assume that each character has 6 pixels wide
			{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(int(s.x) + s.taxSz*6 + 20)},
			{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2000/svg"},
		},
	}
	e.EncodeToken(svg)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "stroke-width"}, Value: "2"},
			{Name: xml.Name{Local: "stroke"}, Value: "black"},
			{Name: xml.Name{Local: "stroke-linecap"}, Value: "round"},
			{Name: xml.Name{Local: "font-family"}, Value: "Verdana"},
			{Name: xml.Name{Local: "font-size"}, Value: "10"},
		},
	}
	e.EncodeToken(g)

	s.root.draw(e)
	s.root.label(e)

	e.EncodeToken(g.End())
	e.EncodeToken(svg.End())
	if err := e.Flush(); err != nil {
		return err
	}
	return nil
}

func (n node) draw(e *xml.Encoder) {
	rgb := fmt.Sprintf("rgb(%d,%d,%d)", n.color.R, n.color.G, n.color.B)

	// horizontal line
	ln := xml.StartElement{
		Name: xml.Name{Local: "line"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "x1"}, Value: strconv.Itoa(int(n.x - 5))},
			{Name: xml.Name{Local: "y1"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "x2"}, Value: strconv.Itoa(int(n.x))},
			{Name: xml.Name{Local: "y2"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "stroke"}, Value: rgb},
		},
	}
	if n.anc != nil {
		ln.Attr[0].Value = strconv.Itoa(int(n.anc.x))
	}
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	if n.desc == nil {
		return
	}

	// vertical line
	ln.Attr[0].Value = ln.Attr[2].Value
	ln.Attr[1].Value = strconv.Itoa(n.topY)
	ln.Attr[3].Value = strconv.Itoa(n.botY)
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	for _, d := range n.desc {
		d.draw(e)
	}
}

func (n node) label(e *xml.Encoder) {
	if n.desc == nil {
		tx := xml.StartElement{
			Name: xml.Name{Local: "text"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(int(n.x + 10))},
				{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(n.y + 5)},
				{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
			},
		}
		e.EncodeToken(tx)
		e.EncodeToken(xml.CharData(n.tax))
		e.EncodeToken(tx.End())
	}

	for _, d := range n.desc {
		d.label(e)
	}
}
