package stats_test

import (
	"testing"

	"github.com/clutchgolf/engine/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMean(t *testing.T) {
	Convey("Given sample values", t, func() {
		Convey("When the sample is empty", func() {
			Convey("Then the mean is 0", func() {
				So(stats.Mean(nil), ShouldEqual, 0)
			})
		})

		Convey("When the sample has values", func() {
			Convey("Then it should return the arithmetic mean", func() {
				So(stats.Mean([]float64{1, 2, 3, 4}), ShouldEqual, 2.5)
				So(stats.Mean([]float64{-2, 2}), ShouldEqual, 0)
			})
		})
	})
}

func TestStdDev(t *testing.T) {
	Convey("Given sample values", t, func() {
		Convey("When fewer than two values are present", func() {
			Convey("Then the deviation is 0", func() {
				So(stats.StdDev(nil), ShouldEqual, 0)
				So(stats.StdDev([]float64{7}), ShouldEqual, 0)
			})
		})

		Convey("When the sample has spread", func() {
			Convey("Then it should use the n-1 divisor", func() {
				// Variance of {2,4,4,4,5,5,7,9} around mean 5 is 32/7.
				So(stats.StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), ShouldAlmostEqual, 2.13808993, 1e-8)
			})
		})

		Convey("When every value is identical", func() {
			Convey("Then the deviation is 0", func() {
				So(stats.StdDev([]float64{3, 3, 3}), ShouldEqual, 0)
			})
		})
	})
}

func TestPercentileRank(t *testing.T) {
	Convey("Given a sorted population sample", t, func() {
		sample := []float64{-1.0, 0.0, 0.5, 1.5, 2.0}

		Convey("When the sample is empty", func() {
			Convey("Then the neutral prior 0.5 is returned", func() {
				So(stats.PercentileRank(42, nil), ShouldEqual, 0.5)
			})
		})

		Convey("When the value is below the minimum", func() {
			Convey("Then the rank is 0", func() {
				So(stats.PercentileRank(-2.0, sample), ShouldEqual, 0)
			})
		})

		Convey("When the value is above the maximum", func() {
			Convey("Then the rank is 1", func() {
				So(stats.PercentileRank(3.0, sample), ShouldEqual, 1)
			})
		})

		Convey("When the value sits inside the sample", func() {
			Convey("Then the rank counts strictly smaller values", func() {
				So(stats.PercentileRank(0.5, sample), ShouldEqual, 0.4) // two of five below
				So(stats.PercentileRank(1.0, sample), ShouldEqual, 0.6) // three of five below
			})
		})
	})
}

func TestClamp(t *testing.T) {
	Convey("Given a range", t, func() {
		Convey("Then values saturate at the bounds", func() {
			So(stats.Clamp(-5, -3, 3), ShouldEqual, -3)
			So(stats.Clamp(5, -3, 3), ShouldEqual, 3)
			So(stats.Clamp(1.25, -3, 3), ShouldEqual, 1.25)
		})
	})
}

func TestInterpolateConfidence(t *testing.T) {
	Convey("Given a confidence curve", t, func() {
		curve := []stats.CurvePoint{
			{SampleCount: 1, Confidence: 25},
			{SampleCount: 3, Confidence: 55},
			{SampleCount: 5, Confidence: 75},
			{SampleCount: 8, Confidence: 90},
			{SampleCount: 12, Confidence: 98},
		}

		Convey("When evaluated at an exact control point", func() {
			Convey("Then the control confidence is returned exactly", func() {
				So(stats.InterpolateConfidence(1, curve), ShouldEqual, 25)
				So(stats.InterpolateConfidence(3, curve), ShouldEqual, 55)
				So(stats.InterpolateConfidence(12, curve), ShouldEqual, 98)
			})
		})

		Convey("When evaluated between control points", func() {
			Convey("Then the confidence is linearly interpolated", func() {
				So(stats.InterpolateConfidence(2, curve), ShouldEqual, 40)
				So(stats.InterpolateConfidence(4, curve), ShouldEqual, 65)
			})
		})

		Convey("When evaluated outside the curve", func() {
			Convey("Then the boundary confidence is returned without extrapolation", func() {
				So(stats.InterpolateConfidence(0, curve), ShouldEqual, 25)
				So(stats.InterpolateConfidence(100, curve), ShouldEqual, 98)
			})
		})

		Convey("When the curve is empty", func() {
			Convey("Then the confidence is 0", func() {
				So(stats.InterpolateConfidence(5, nil), ShouldEqual, 0)
			})
		})
	})
}

func TestDot(t *testing.T) {
	Convey("Given two 4-vectors", t, func() {
		Convey("Then the dot product multiplies pairwise", func() {
			a := [4]float64{1, 2, 3, 4}
			b := [4]float64{0.5, 0.25, 2, 1}
			So(stats.Dot(a, b), ShouldEqual, 11)
		})
	})
}

func TestRegressionSlope(t *testing.T) {
	Convey("Given a series of values", t, func() {
		Convey("When fewer than two points are present", func() {
			Convey("Then the slope is 0", func() {
				So(stats.RegressionSlope(nil), ShouldEqual, 0)
				So(stats.RegressionSlope([]float64{0.5}), ShouldEqual, 0)
			})
		})

		Convey("When the series is perfectly linear", func() {
			Convey("Then the slope is exact", func() {
				So(stats.RegressionSlope([]float64{0.1, 0.2, 0.3, 0.4}), ShouldAlmostEqual, 0.1, 1e-12)
			})
		})

		Convey("When the series is flat", func() {
			Convey("Then the slope is 0", func() {
				So(stats.RegressionSlope([]float64{0.5, 0.5, 0.5}), ShouldEqual, 0)
			})
		})

		Convey("When the series declines", func() {
			Convey("Then the slope is negative", func() {
				So(stats.RegressionSlope([]float64{0.7, 0.6, 0.4}), ShouldBeLessThan, 0)
			})
		})
	})
}
