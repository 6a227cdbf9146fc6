// Package distribution builds diameter histograms and fits a Gaussian
// to the measured size distribution.
package distribution

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInsufficientData is returned when fewer than two values are
	// available.
	ErrInsufficientData = errors.New("not enough measurements for a fit")

	// ErrDegenerateDistribution is returned when all values are equal,
	// leaving zero spread to fit.
	ErrDegenerateDistribution = errors.New("all measurements are identical")

	// ErrFitDidNotConverge is returned when the optimizer fails to
	// produce finite parameters. The histogram in the result is still
	// valid.
	ErrFitDidNotConverge = errors.New("gaussian fit did not converge")
)

// CurvePoints is the number of samples rendered for the fitted curve.
const CurvePoints = 200

// Result holds the histogram of measured diameters and, when the fit
// converged, the Gaussian parameters and a sampled curve scaled to
// count space.
type Result struct {
	BinEdges  []float64 // len = bins + 1
	BinCounts []int     // len = bins

	SampleMean float64
	SampleStd  float64

	Mu        float64
	Sigma     float64
	Converged bool

	CurveX []float64 // len = CurvePoints when Converged
	CurveY []float64
}

// DefaultBinCount returns the bin count used when the caller does not
// choose one: the square root rule with a floor of 5.
func DefaultBinCount(n int) int {
	root := int(math.Floor(math.Sqrt(float64(n))))
	if root < 5 {
		return 5
	}
	return root
}

// Fit bins the values and fits a Gaussian to the resulting histogram.
// On ErrFitDidNotConverge the returned Result still carries the
// histogram and sample moments; on other errors the Result is nil.
func Fit(values []float64, bins int) (*Result, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrInsufficientData, len(values))
	}
	lo := floats.Min(values)
	hi := floats.Max(values)
	if lo == hi {
		return nil, fmt.Errorf("%w: all values equal %v", ErrDegenerateDistribution, lo)
	}
	if bins < 1 {
		bins = DefaultBinCount(len(values))
	}

	res := &Result{
		SampleMean: stat.Mean(values, nil),
		SampleStd:  stat.StdDev(values, nil),
	}
	res.BinEdges, res.BinCounts = histogram(values, lo, hi, bins)

	mu, sigma, ok := fitGaussian(res.BinEdges, res.BinCounts, res.SampleMean, res.SampleStd)
	if !ok {
		return res, ErrFitDidNotConverge
	}
	res.Mu = mu
	res.Sigma = sigma
	res.Converged = true

	// Scale the density curve into count space so it overlays the
	// histogram directly.
	binWidth := (hi - lo) / float64(bins)
	scale := float64(len(values)) * binWidth
	norm := distuv.Normal{Mu: mu, Sigma: sigma}
	res.CurveX = make([]float64, CurvePoints)
	res.CurveY = make([]float64, CurvePoints)
	floats.Span(res.CurveX, lo, hi)
	for i, x := range res.CurveX {
		res.CurveY[i] = norm.Prob(x) * scale
	}
	return res, nil
}

// histogram bins values into equal-width bins over [lo, hi]. A value
// equal to hi lands in the last bin.
func histogram(values []float64, lo, hi float64, bins int) ([]float64, []int) {
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)
	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	return edges, counts
}

// fitGaussian least-squares fits a count-scaled Gaussian to the bin
// centers, starting from the sample moments.
func fitGaussian(edges []float64, counts []int, mean, std float64) (mu, sigma float64, ok bool) {
	if std <= 0 || !finite(mean) || !finite(std) {
		return 0, 0, false
	}

	bins := len(counts)
	total := 0
	centers := make([]float64, bins)
	for i := range counts {
		centers[i] = (edges[i] + edges[i+1]) / 2
		total += counts[i]
	}
	binWidth := edges[1] - edges[0]
	scale := float64(total) * binWidth

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			m, s := p[0], p[1]
			if s <= 0 {
				return math.Inf(1)
			}
			norm := distuv.Normal{Mu: m, Sigma: s}
			var sse float64
			for i, c := range centers {
				d := norm.Prob(c)*scale - float64(counts[i])
				sse += d * d
			}
			return sse
		},
	}

	settings := &optimize.Settings{MajorIterations: 200}
	result, err := optimize.Minimize(problem, []float64{mean, std}, settings, &optimize.NelderMead{})
	if err != nil || result == nil {
		return 0, 0, false
	}
	mu, sigma = result.X[0], result.X[1]
	if !finite(mu) || !finite(sigma) || sigma <= 0 {
		return 0, 0, false
	}
	return mu, sigma, true
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
