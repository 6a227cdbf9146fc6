package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitInsufficientData(t *testing.T) {
	_, err := Fit(nil, 0)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Fit([]float64{10}, 0)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFitDegenerateDistribution(t *testing.T) {
	_, err := Fit([]float64{10, 10, 10}, 0)
	assert.ErrorIs(t, err, ErrDegenerateDistribution)
}

func TestFitConverges(t *testing.T) {
	res, err := Fit([]float64{8, 9, 10, 11, 12}, 5)
	require.NoError(t, err)
	require.True(t, res.Converged)

	// The fitted center should sit near the sample mean.
	assert.InDelta(t, 10.0, res.SampleMean, 1e-9)
	assert.InDelta(t, 10.0, res.Mu, 1.0)
	assert.Greater(t, res.Sigma, 0.0)
}

func TestHistogramShape(t *testing.T) {
	values := []float64{8, 9, 10, 11, 12}
	res, err := Fit(values, 4)
	require.NoError(t, err)

	require.Len(t, res.BinEdges, 5)
	require.Len(t, res.BinCounts, 4)
	assert.Equal(t, 8.0, res.BinEdges[0])
	assert.Equal(t, 12.0, res.BinEdges[4])

	// Every value lands in exactly one bin, including the maximum.
	total := 0
	for _, c := range res.BinCounts {
		total += c
	}
	assert.Equal(t, len(values), total)
	assert.Equal(t, 2, res.BinCounts[3]) // 11 and 12 share the last bin
}

func TestCurveSampling(t *testing.T) {
	res, err := Fit([]float64{8, 9, 10, 11, 12, 9.5, 10.5, 10.2}, 0)
	require.NoError(t, err)
	require.True(t, res.Converged)

	require.Len(t, res.CurveX, CurvePoints)
	require.Len(t, res.CurveY, CurvePoints)
	assert.Equal(t, 8.0, res.CurveX[0])
	assert.Equal(t, 12.0, res.CurveX[CurvePoints-1])
	for _, y := range res.CurveY {
		assert.GreaterOrEqual(t, y, 0.0)
	}
}

func TestDefaultBinCount(t *testing.T) {
	assert.Equal(t, 5, DefaultBinCount(2))
	assert.Equal(t, 5, DefaultBinCount(25))
	assert.Equal(t, 6, DefaultBinCount(36))
	assert.Equal(t, 10, DefaultBinCount(100))
}
