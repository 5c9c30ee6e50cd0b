package theory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mariod-cerebras/financial-theory-tester/theory"
)

func TestRandomWalkRejectsAlternatingSeries(t *testing.T) {
	assert := assert.New(t)

	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100
		if i%2 == 1 {
			closes[i] = 101
		}
	}

	result, err := theory.RandomWalk(closes)
	assert.Nil(err)
	assert.Equal("Efficient Market Hypothesis", result.Theory)
	assert.False(result.MakesSense)
	assert.Less(result.Metrics["autocorrelation"], -0.5)
}

func TestRandomWalkTooShort(t *testing.T) {
	assert := assert.New(t)

	_, err := theory.RandomWalk([]float64{100, 101})
	assert.ErrorIs(err, theory.ErrInsufficientData)
}

func TestMomentumNeedsThreeWindows(t *testing.T) {
	assert := assert.New(t)

	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	_, err := theory.Momentum(closes)
	assert.ErrorIs(err, theory.ErrInsufficientData)
}

func TestMomentumDetectsRegimes(t *testing.T) {
	assert := assert.New(t)

	// a long rally followed by a long slide: trailing quarterly momentum
	// stays positively correlated with the following quarter
	closes := make([]float64, 400)
	price := 100.0
	for i := range closes {
		if i < 200 {
			price *= 1.003
		} else {
			price *= 0.997
		}
		closes[i] = price
	}

	result, err := theory.Momentum(closes)
	assert.Nil(err)
	assert.Equal("Momentum Theory", result.Theory)
	assert.True(result.MakesSense)
	assert.Greater(result.Metrics["momentum_correlation"], 0.1)
}

func TestMeanReversionAfterSpike(t *testing.T) {
	assert := assert.New(t)

	// small oscillation around 100 with one spike that fully reverts
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i%3)
	}
	closes[40] = 130

	result, err := theory.MeanReversion(closes)
	assert.Nil(err)
	assert.Equal("Mean Reversion", result.Theory)
	assert.Less(result.Metrics["reversion_after_high"], 0.0)
}

func TestMeanReversionFlatSeries(t *testing.T) {
	assert := assert.New(t)

	flat := make([]float64, 80)
	for i := range flat {
		flat[i] = 100
	}
	_, err := theory.MeanReversion(flat)
	assert.ErrorIs(err, theory.ErrInsufficientData)
}

func TestValue(t *testing.T) {
	assert := assert.New(t)

	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + float64(i)*50.0/299.0
	}

	result, err := theory.Value(closes)
	assert.Nil(err)
	assert.True(result.MakesSense)
	assert.InDelta(0.5, result.Metrics["period_return"], 1e-4)

	_, err = theory.Value(closes[:100])
	assert.ErrorIs(err, theory.ErrInsufficientData)
}

func TestTechnicalOverboughtRally(t *testing.T) {
	assert := assert.New(t)

	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	result, err := theory.Technical(closes)
	assert.Nil(err)
	assert.Equal("Technical Analysis", result.Theory)
	assert.Equal("Overbought - potential sell signal", result.Interpretation)
	assert.False(result.MakesSense)
	assert.Greater(result.Metrics["sma_50"], result.Metrics["sma_200"])

	_, err = theory.Technical(closes[:200])
	assert.ErrorIs(err, theory.ErrInsufficientData)
}

func TestRunAllSkipsShortSeries(t *testing.T) {
	assert := assert.New(t)

	// only the tests whose windows fit should report
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}

	results := theory.RunAll(closes)
	for _, result := range results {
		assert.NotEqual("Value Investing", result.Theory)
		assert.NotEqual("Technical Analysis", result.Theory)
	}
}
