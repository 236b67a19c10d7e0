package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the worked decay scenario used across the metric tests
var decaySeries = Series{
	{Time: 0, Value: 1},
	{Time: 1, Value: 5},
	{Time: 2, Value: 10},
	{Time: 3, Value: 9},
	{Time: 4, Value: 8},
	{Time: 5, Value: 4},
	{Time: 6, Value: 2},
}

func TestPeak(t *testing.T) {
	value, at, err := Peak(decaySeries)
	require.NoError(t, err)
	assert.Equal(t, 10.0, value)
	assert.Equal(t, 2.0, at)
}

func TestPeakFirstOccurrenceWins(t *testing.T) {
	s := Series{{0, 3}, {1, 7}, {2, 7}, {3, 1}}
	value, at, err := Peak(s)
	require.NoError(t, err)
	assert.Equal(t, 7.0, value)
	assert.Equal(t, 1.0, at)
}

func TestPeakEmpty(t *testing.T) {
	_, _, err := Peak(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestPlateauVariation(t *testing.T) {
	// plateau region is {10, 9}: sample stddev sqrt(0.5), mean 9.5
	cv, ok := PlateauVariation(decaySeries)
	require.True(t, ok)
	want := 100 * math.Sqrt(0.5) / 9.5
	assert.InDelta(t, want, cv, 1e-9)
}

func TestPlateauVariationSingleSamplePlateau(t *testing.T) {
	// only the peak itself clears 90%: no spread to measure
	s := Series{{0, 1}, {1, 100}, {2, 1}}
	_, ok := PlateauVariation(s)
	assert.False(t, ok)
}

func TestPlateauVariationSingleSampleSeries(t *testing.T) {
	_, ok := PlateauVariation(Series{{0, 42}})
	assert.False(t, ok)
}

func TestPlateauVariationZeroMean(t *testing.T) {
	// all-zero trace: plateau mean is zero, coefficient is undefined
	s := Series{{0, 0}, {1, 0}, {2, 0}}
	_, ok := PlateauVariation(s)
	assert.False(t, ok)
}

func TestTimeToFractions(t *testing.T) {
	got, err := TimeToFractions(decaySeries, []int{80, 75, 50, 25})
	require.NoError(t, err)
	require.Len(t, got, 4)

	// order follows the request
	assert.Equal(t, 80, got[0].Fraction)
	assert.Equal(t, 75, got[1].Fraction)
	assert.Equal(t, 50, got[2].Fraction)
	assert.Equal(t, 25, got[3].Fraction)

	// 80% of 10 = 8: first post-peak sample <= 8 is (4, 8)
	require.True(t, got[0].Reached)
	assert.Equal(t, 2.0, got[0].Seconds)

	// 50% of 10 = 5: first post-peak sample <= 5 is (5, 4)
	require.True(t, got[2].Reached)
	assert.Equal(t, 3.0, got[2].Seconds)

	// 25% of 10 = 2.5: reached at (6, 2)
	require.True(t, got[3].Reached)
	assert.Equal(t, 4.0, got[3].Seconds)
}

func TestTimeToFractionsNeverReached(t *testing.T) {
	s := Series{{0, 1}, {1, 10}, {2, 9}}
	got, err := TimeToFractions(s, []int{50})
	require.NoError(t, err)
	assert.False(t, got[0].Reached)
}

func TestTimeToFractionsNonNegative(t *testing.T) {
	got, err := TimeToFractions(decaySeries, []int{80, 75, 50, 25})
	require.NoError(t, err)
	for _, ft := range got {
		if ft.Reached {
			assert.GreaterOrEqual(t, ft.Seconds, 0.0)
		}
	}
}

func TestTimeToFractionsSingleSample(t *testing.T) {
	got, err := TimeToFractions(Series{{0, 42}}, []int{80, 50})
	require.NoError(t, err)
	for _, ft := range got {
		assert.False(t, ft.Reached)
	}
}

func TestRelaxationRate(t *testing.T) {
	// post-peak slopes: -1, -1, -4, -2 -> mean -2
	rate, ok := RelaxationRate(decaySeries)
	require.True(t, ok)
	assert.InDelta(t, -2.0, rate, 1e-9)
}

func TestRelaxationRateMonotonicRise(t *testing.T) {
	// peak is the last sample, nothing descends after it
	s := Series{{0, 1}, {1, 2}, {2, 5}}
	_, ok := RelaxationRate(s)
	assert.False(t, ok)
}

func TestRelaxationRateSkipsZeroDt(t *testing.T) {
	// duplicate timestamps (second-resolution CSV) must not divide by zero
	s := Series{{0, 10}, {0, 8}, {1, 6}}
	rate, ok := RelaxationRate(s)
	require.True(t, ok)
	assert.InDelta(t, -2.0, rate, 1e-9)
}

func TestImpulse(t *testing.T) {
	// trapezoids: 3 + 7.5 + 9.5 + 8.5 + 6 + 3 = 37.5
	assert.InDelta(t, 37.5, Impulse(decaySeries), 1e-9)
}

func TestImpulseSingleSample(t *testing.T) {
	assert.Equal(t, 0.0, Impulse(Series{{0, 42}}))
}

func TestImpulseDependsOnOrder(t *testing.T) {
	shuffled := Series{
		{Time: 5, Value: 4},
		{Time: 0, Value: 1},
		{Time: 2, Value: 10},
		{Time: 6, Value: 2},
		{Time: 1, Value: 5},
		{Time: 4, Value: 8},
		{Time: 3, Value: 9},
	}
	assert.NotEqual(t, Impulse(decaySeries), Impulse(shuffled))
}

func TestRateOfDevelopment(t *testing.T) {
	s := Series{
		{Time: 0, Value: 0},
		{Time: 0.04, Value: 2},
		{Time: 0.08, Value: 6},
		{Time: 0.5, Value: 20},
	}
	// window is [0, 0.1]: slopes 50 and 100
	rfd, ok := RateOfDevelopment(s)
	require.True(t, ok)
	assert.InDelta(t, 100.0, rfd, 1e-9)
}

func TestRateOfDevelopmentWindowRelativeToFirstSample(t *testing.T) {
	// trace starting at t=3: the window follows the first sample
	s := Series{
		{Time: 3.00, Value: 0},
		{Time: 3.05, Value: 5},
		{Time: 4.00, Value: 8},
	}
	rfd, ok := RateOfDevelopment(s)
	require.True(t, ok)
	assert.InDelta(t, 100.0, rfd, 1e-9)
}

func TestRateOfDevelopmentInsufficientWindow(t *testing.T) {
	s := Series{{0, 1}, {1, 5}, {2, 9}}
	_, ok := RateOfDevelopment(s)
	assert.False(t, ok)
}

func TestRateOfDevelopmentEmpty(t *testing.T) {
	_, ok := RateOfDevelopment(nil)
	assert.False(t, ok)
}
