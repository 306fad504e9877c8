// Package stats provides the numeric primitives shared by the rating
// engines: moments, percentile ranks, and confidence-curve interpolation.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, 0 for an empty sample.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the standard deviation with an n-1 divisor, 0 when fewer
// than two values are present.
func StdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// PercentileRank returns the fraction of sorted (ascending) sample values
// strictly less than value. An empty sample carries no information and maps
// to the neutral prior 0.5. A value below the minimum ranks 0; above the
// maximum ranks 1.
func PercentileRank(value float64, sortedAscending []float64) float64 {
	n := len(sortedAscending)
	if n == 0 {
		return 0.5
	}
	below := sort.SearchFloat64s(sortedAscending, value)
	return float64(below) / float64(n)
}

// Clamp saturates v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CurvePoint is one control point of a confidence curve: at SampleCount
// observations, trust the signal Confidence percent.
type CurvePoint struct {
	SampleCount float64 `koanf:"samples" json:"samples"`
	Confidence  float64 `koanf:"confidence" json:"confidence"`
}

// InterpolateConfidence evaluates a piecewise-linear confidence curve at x.
// curve must be ascending in SampleCount. Below the first control point the
// first confidence is returned; above the last, the last — the curve never
// extrapolates.
func InterpolateConfidence(x float64, curve []CurvePoint) float64 {
	if len(curve) == 0 {
		return 0
	}
	if x <= curve[0].SampleCount {
		return curve[0].Confidence
	}
	last := curve[len(curve)-1]
	if x >= last.SampleCount {
		return last.Confidence
	}
	for i := 1; i < len(curve); i++ {
		lo, hi := curve[i-1], curve[i]
		if x > hi.SampleCount {
			continue
		}
		span := hi.SampleCount - lo.SampleCount
		if span == 0 {
			return hi.Confidence
		}
		t := (x - lo.SampleCount) / span
		return lo.Confidence + t*(hi.Confidence-lo.Confidence)
	}
	return last.Confidence
}

// Dot returns the dot product of two 4-vectors.
func Dot(a, b [4]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// RegressionSlope returns the ordinary-least-squares slope of ys against
// their indices 0..n-1, 0 when fewer than two points are present.
func RegressionSlope(ys []float64) float64 {
	n := len(ys)
	if n < 2 {
		return 0
	}
	xMean := float64(n-1) / 2
	yMean := Mean(ys)
	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}
