// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sim

import (
	"image/color"

	"github.com/js-arias/blind"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const histBins = 20

// plotNull draws a histogram of a null distribution
// with the observed value as a vertical line.
func plotNull(name string, null []float64, observed float64) error {
	p := plot.New()
	p.X.Label.Text = "effect size"
	p.Y.Label.Text = "simulations"

	h, err := plotter.NewHist(plotter.Values(null), histBins)
	if err != nil {
		return err
	}
	h.FillColor = blind.Sequential(blind.Iridescent, 0.3)
	p.Add(h)

	var top float64
	for _, b := range h.Bins {
		if b.Weight > top {
			top = b.Weight
		}
	}
	ln, err := plotter.NewLine(plotter.XYs{
		{X: observed, Y: 0},
		{X: observed, Y: top},
	})
	if err != nil {
		return err
	}
	ln.LineStyle.Width = vg.Points(2)
	ln.LineStyle.Color = color.RGBA{R: 165, G: 0, B: 38, A: 255}
	p.Add(ln)

	return p.Save(6*vg.Inch, 4*vg.Inch, name)
}
