// Package theory runs one-shot statistical checks of classic market theories
// over a daily close series: random-walk behavior, momentum, mean reversion,
// long-horizon value performance and a technical snapshot. Unlike the backtest
// simulator these are stateless summaries, they share only the indicator
// primitives.
package theory

import (
	"math"

	"github.com/markcheno/go-talib"
	"github.com/oarkflow/errors"

	"github.com/mariod-cerebras/financial-theory-tester/app/models/indicator"
)

// Result is one theory test outcome
type Result struct {
	Theory         string             `json:"theory"`
	Interpretation string             `json:"interpretation"`
	MakesSense     bool               `json:"makes_sense"`
	Metrics        map[string]float64 `json:"metrics"`
}

// ErrInsufficientData is returned when a series is too short for a test's windows
var ErrInsufficientData = errors.New("insufficient data for theory test")

const (
	momentumWindow    = 63 // about three trading months
	reversionForward  = 5
	randomWalkCutoff  = 0.05
	momentumCutoff    = 0.1
	tradingDaysInYear = 252
)

// RunAll executes every theory test that has enough data and collects the outcomes
func RunAll(closes []float64) []Result {
	results := []Result{}
	for _, test := range []func([]float64) (Result, error){
		RandomWalk,
		Momentum,
		MeanReversion,
		Value,
		Technical,
	} {
		result, err := test(closes)
		if err != nil {
			continue
		}
		results = append(results, result)
	}
	return results
}

// RandomWalk tests the efficient market hypothesis: if daily returns are
// random, their lag-1 autocorrelation sits near zero.
func RandomWalk(closes []float64) (Result, error) {
	returns := pctChanges(closes)
	if len(returns) < 3 {
		return Result{}, ErrInsufficientData
	}

	autocorr := correlation(returns[:len(returns)-1], returns[1:])
	isRandom := math.Abs(autocorr) < randomWalkCutoff

	interpretation := "Stock shows momentum/reversal patterns"
	if isRandom {
		interpretation = "Stock follows random walk"
	}

	return Result{
		Theory:         "Efficient Market Hypothesis",
		Interpretation: interpretation,
		MakesSense:     isRandom,
		Metrics:        map[string]float64{"autocorrelation": round4(autocorr)},
	}, nil
}

// Momentum tests whether trailing performance predicts forward performance:
// the correlation between the momentum over the past quarter and the return
// over the following quarter.
func Momentum(closes []float64) (Result, error) {
	if len(closes) < 3*momentumWindow {
		return Result{}, ErrInsufficientData
	}

	engine := indicator.NewEngine(closes, indicator.Config{MomentumWindow: momentumWindow})

	var trailing, forward []float64
	for i := momentumWindow; i+momentumWindow < len(closes); i++ {
		snap := engine.At(i)
		if !snap.MomentumValid || closes[i] == 0 {
			continue
		}
		trailing = append(trailing, snap.Momentum)
		forward = append(forward, (closes[i+momentumWindow]-closes[i])/closes[i]*100)
	}
	if len(trailing) < 3 {
		return Result{}, ErrInsufficientData
	}

	corr := correlation(trailing, forward)
	hasMomentum := corr > momentumCutoff

	interpretation := "No clear momentum pattern"
	if hasMomentum {
		interpretation = "Stock shows momentum patterns"
	}

	return Result{
		Theory:         "Momentum Theory",
		Interpretation: interpretation,
		MakesSense:     hasMomentum,
		Metrics:        map[string]float64{"momentum_correlation": round4(corr)},
	}, nil
}

// MeanReversion tests whether extreme z-scores against the 20-day rolling
// mean revert: closes more than two deviations above the mean should be
// followed by negative short-term returns, and mirrored below.
func MeanReversion(closes []float64) (Result, error) {
	engine := indicator.NewEngine(closes, indicator.DefaultConfig())

	var afterHigh, afterLow []float64
	for i := 0; i+reversionForward < len(closes); i++ {
		z, ok := engine.ZScoreAt(i)
		if !ok || closes[i] == 0 {
			continue
		}
		forward := (closes[i+reversionForward] - closes[i]) / closes[i]
		if z > 2 {
			afterHigh = append(afterHigh, forward)
		} else if z < -2 {
			afterLow = append(afterLow, forward)
		}
	}
	if len(afterHigh) == 0 && len(afterLow) == 0 {
		return Result{}, ErrInsufficientData
	}

	reversionHigh := mean(afterHigh)
	reversionLow := mean(afterLow)
	showsReversion := reversionHigh < 0 && reversionLow > 0

	interpretation := "No clear mean reversion"
	if showsReversion {
		interpretation = "Stock shows mean reversion"
	}

	return Result{
		Theory:         "Mean Reversion",
		Interpretation: interpretation,
		MakesSense:     showsReversion,
		Metrics: map[string]float64{
			"reversion_after_high": round4(reversionHigh),
			"reversion_after_low":  round4(reversionLow),
		},
	}, nil
}

// Value is the long-horizon performance check: with at least a year of bars,
// does the stock deliver better than 10% over the span. The original P/E
// screen needs fundamental data no collaborator supplies.
func Value(closes []float64) (Result, error) {
	if len(closes) <= tradingDaysInYear || closes[0] == 0 {
		return Result{}, ErrInsufficientData
	}

	annualReturn := closes[len(closes)-1]/closes[0] - 1
	valueWorks := annualReturn > 0.10

	interpretation := "Stock underperforms over the period"
	if valueWorks {
		interpretation = "Stock compounds over the period"
	}

	return Result{
		Theory:         "Value Investing",
		Interpretation: interpretation,
		MakesSense:     valueWorks,
		Metrics:        map[string]float64{"period_return": round4(annualReturn)},
	}, nil
}

// Technical is a point-in-time snapshot: 50/200-day moving averages, golden
// cross and the 14-period RSI's overbought/oversold bands.
func Technical(closes []float64) (Result, error) {
	if len(closes) <= 200 {
		return Result{}, ErrInsufficientData
	}

	sma50 := talib.Sma(closes, 50)
	sma200 := talib.Sma(closes, 200)
	rsi := talib.Rsi(closes, 14)

	last := len(closes) - 1
	price := closes[last]

	goldenCross := sma50[last] > sma200[last]
	priceAboveMAs := price > sma50[last] && price > sma200[last]
	oversold := rsi[last] < 30
	overbought := rsi[last] > 70

	return Result{
		Theory:         "Technical Analysis",
		Interpretation: technicalInterpretation(goldenCross, priceAboveMAs, oversold, overbought),
		MakesSense:     priceAboveMAs && !overbought,
		Metrics: map[string]float64{
			"current_price": round2(price),
			"sma_50":        round2(sma50[last]),
			"sma_200":       round2(sma200[last]),
			"rsi":           round2(rsi[last]),
		},
	}, nil
}

func technicalInterpretation(goldenCross, priceAboveMAs, oversold, overbought bool) string {
	switch {
	case oversold:
		return "Oversold - potential buy signal"
	case overbought:
		return "Overbought - potential sell signal"
	case goldenCross && priceAboveMAs:
		return "Bullish trend - golden cross"
	case !goldenCross && !priceAboveMAs:
		return "Bearish trend - below MAs"
	default:
		return "Neutral technical position"
	}
}

func pctChanges(closes []float64) []float64 {
	var out []float64
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, (closes[i]-closes[i-1])/closes[i-1])
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func correlation(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}
	meanX, meanY := mean(xs), mean(ys)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
