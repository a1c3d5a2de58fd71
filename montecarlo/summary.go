// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package montecarlo

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary is a description
// of a null distribution.
type Summary struct {
	N int

	Mean float64
	SD   float64

	// 2.5%, 50% and 97.5% empirical quantiles
	Lower  float64
	Median float64
	Upper  float64

	// Z is the standard score of the observed value
	// and NormalP its upper tail probability
	// under a normal approximation.
	Z       float64
	NormalP float64
}

// Summarize returns a summary of a null distribution
// and an observed value.
// Undefined values are set as NaN.
func Summarize(null []float64, observed float64) Summary {
	nan := math.NaN()
	s := Summary{
		N:       len(null),
		Mean:    nan,
		SD:      nan,
		Lower:   nan,
		Median:  nan,
		Upper:   nan,
		Z:       nan,
		NormalP: nan,
	}
	if len(null) == 0 {
		return s
	}

	x := slices.Clone(null)
	slices.Sort(x)
	s.Lower = stat.Quantile(0.025, stat.Empirical, x, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, x, nil)
	s.Upper = stat.Quantile(0.975, stat.Empirical, x, nil)

	if len(x) < 2 {
		s.Mean = x[0]
		return s
	}
	s.Mean, s.SD = stat.MeanStdDev(x, nil)
	if s.SD > 0 {
		s.Z = (observed - s.Mean) / s.SD
		s.NormalP = distuv.UnitNormal.Survival(s.Z)
	}
	return s
}
