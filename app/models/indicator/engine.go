package indicator

import "math"

// Config holds the rolling windows the engine maintains
type Config struct {
	RSIPeriod      int
	StatsWindow    int
	MomentumWindow int
	HighLowWindow  int
}

// DefaultConfig matches the windows the strategy and theory layers expect:
// 14-period RSI, 20-day rolling statistics.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:      14,
		StatsWindow:    20,
		MomentumWindow: 20,
		HighLowWindow:  20,
	}
}

// Snapshot carries the indicator values valid at one bar. Each value is only
// computed from bars at or before that index; the valid flags stay false until
// the corresponding window has warmed up.
type Snapshot struct {
	Index int
	Close float64

	RSI      float64
	RSIValid bool

	Mean       float64
	Std        float64
	StatsValid bool

	Momentum      float64
	MomentumValid bool

	High         float64
	Low          float64
	HighLowValid bool
}

// Engine computes rolling indicators over a fixed close-price series. All
// series are filled in a single forward pass with sliding sums, so a value at
// index i never depends on bars after i.
type Engine struct {
	cfg    Config
	closes []float64

	rsi      []float64
	mean     []float64
	std      []float64
	momentum []float64
	high     []float64
	low      []float64

	sma map[int][]float64
}

// NewEngine builds an Engine over closes with the given windows
func NewEngine(closes []float64, cfg Config) *Engine {
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.StatsWindow <= 1 {
		cfg.StatsWindow = 20
	}
	if cfg.MomentumWindow <= 0 {
		cfg.MomentumWindow = 20
	}
	if cfg.HighLowWindow <= 0 {
		cfg.HighLowWindow = 20
	}

	e := &Engine{
		cfg:    cfg,
		closes: closes,
		sma:    make(map[int][]float64),
	}
	e.computeRSI()
	e.computeStats()
	e.computeMomentum()
	e.computeHighLow()

	return e
}

// Len returns the number of bars the engine covers
func (e *Engine) Len() int {
	return len(e.closes)
}

// At returns the snapshot valid at bar i
func (e *Engine) At(i int) Snapshot {
	s := Snapshot{Index: i, Close: e.closes[i]}
	s.RSI, s.RSIValid = value(e.rsi, i)
	s.Mean, s.StatsValid = value(e.mean, i)
	s.Std, _ = value(e.std, i)
	s.Momentum, s.MomentumValid = value(e.momentum, i)
	s.High, s.HighLowValid = value(e.high, i)
	s.Low, _ = value(e.low, i)

	return s
}

// RSIAt returns the RSI at bar i, false before the period has warmed up
func (e *Engine) RSIAt(i int) (float64, bool) {
	return value(e.rsi, i)
}

// SMA returns the simple moving average series for the given window, NaN
// before the window has filled. Series are cached per window.
func (e *Engine) SMA(window int) []float64 {
	if out, ok := e.sma[window]; ok {
		return out
	}

	out := nanSlice(len(e.closes))
	sum := 0.0
	for i, c := range e.closes {
		sum += c
		if i >= window {
			sum -= e.closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	e.sma[window] = out

	return out
}

// SMAAt returns the window-period moving average at bar i
func (e *Engine) SMAAt(window, i int) (float64, bool) {
	return value(e.SMA(window), i)
}

// ZScoreAt returns how many sample standard deviations the close at bar i sits
// from the rolling mean, false while the stats window warms up or when the
// window is flat.
func (e *Engine) ZScoreAt(i int) (float64, bool) {
	mean, ok := value(e.mean, i)
	if !ok {
		return 0, false
	}
	std := e.std[i]
	if std == 0 {
		return 0, false
	}
	return (e.closes[i] - mean) / std, true
}

// computeRSI fills the RSI series using Wilder smoothing, the same convention
// go-talib applies: the first average is a simple mean of the first period
// changes, every later average folds the new change in with weight 1/period.
func (e *Engine) computeRSI() {
	period := e.cfg.RSIPeriod
	e.rsi = nanSlice(len(e.closes))
	if len(e.closes) <= period {
		return
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := e.closes[i] - e.closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	e.rsi[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(e.closes); i++ {
		change := e.closes[i] - e.closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		e.rsi[i] = rsiValue(avgGain, avgLoss)
	}
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgGain+avgLoss == 0 {
		return 50
	}
	return 100 * avgGain / (avgGain + avgLoss)
}

// computeStats fills the rolling mean and sample standard deviation with
// sliding sum and sum-of-squares.
func (e *Engine) computeStats() {
	window := e.cfg.StatsWindow
	e.mean = nanSlice(len(e.closes))
	e.std = nanSlice(len(e.closes))

	sum, sumSq := 0.0, 0.0
	for i, c := range e.closes {
		sum += c
		sumSq += c * c
		if i >= window {
			old := e.closes[i-window]
			sum -= old
			sumSq -= old * old
		}
		if i >= window-1 {
			n := float64(window)
			mean := sum / n
			variance := (sumSq - sum*sum/n) / (n - 1)
			if variance < 0 {
				variance = 0
			}
			e.mean[i] = mean
			e.std[i] = math.Sqrt(variance)
		}
	}
}

// computeMomentum fills the percent change between bar i-window and bar i
func (e *Engine) computeMomentum() {
	window := e.cfg.MomentumWindow
	e.momentum = nanSlice(len(e.closes))

	for i := window; i < len(e.closes); i++ {
		base := e.closes[i-window]
		if base == 0 {
			continue
		}
		e.momentum[i] = (e.closes[i] - base) / base * 100
	}
}

// computeHighLow fills the trailing-window running high and low. The window
// scan is O(window) per bar, which is fine for daily series of a few thousand
// bars.
func (e *Engine) computeHighLow() {
	window := e.cfg.HighLowWindow
	e.high = nanSlice(len(e.closes))
	e.low = nanSlice(len(e.closes))

	for i := window - 1; i < len(e.closes); i++ {
		hi, lo := e.closes[i], e.closes[i]
		for j := i - window + 1; j < i; j++ {
			if e.closes[j] > hi {
				hi = e.closes[j]
			}
			if e.closes[j] < lo {
				lo = e.closes[j]
			}
		}
		e.high[i] = hi
		e.low[i] = lo
	}
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func value(series []float64, i int) (float64, bool) {
	if i < 0 || i >= len(series) || math.IsNaN(series[i]) {
		return 0, false
	}
	return series[i], true
}
