package backtest_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mariod-cerebras/financial-theory-tester/app/models"
	"github.com/mariod-cerebras/financial-theory-tester/app/models/indicator"
	"github.com/mariod-cerebras/financial-theory-tester/backtest"
	"github.com/mariod-cerebras/financial-theory-tester/strategy"
)

func frame(closes ...float64) *models.CandleFrame {
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Symbol: "TEST",
			Time:   int64(i+1) * 86400000,
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return &models.CandleFrame{Symbol: "TEST", Candles: candles}
}

func compile(t *testing.T, text string) *strategy.Rule {
	rule, err := strategy.Compile(text)
	assert.Nil(t, err)
	return rule
}

func TestSimulateEmptyFrame(t *testing.T) {
	assert := assert.New(t)

	rule := compile(t, "Buy when it dips 10%")
	result, err := backtest.Simulate(frame(), rule)
	assert.Nil(result)
	assert.ErrorIs(err, backtest.ErrNoCandles)
}

func TestSimulateFlatSeriesNeverTrades(t *testing.T) {
	assert := assert.New(t)

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	rule := compile(t, "Buy when it dips 10%, sell when it rises 10%")

	result, err := backtest.Simulate(frame(closes...), rule)
	assert.Nil(err)
	assert.Empty(result.Trades)
	assert.Len(result.Equity, 30)
	assert.True(result.Summary.FinalValue.Equal(rule.InitialCapital))
	assert.Zero(result.Summary.TotalReturnPct)
}

func TestSimulateDipEntry(t *testing.T) {
	assert := assert.New(t)

	rule := compile(t, "Buy when it dips 10%")
	rule.InitialCapital = decimal.NewFromInt(1000)

	// first close sets the reference; 89 is an 11% dip from 100
	result, err := backtest.Simulate(frame(100, 89, 80), rule)
	assert.Nil(err)
	assert.Len(result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(indicator.BUY, trade.Action)
	assert.Equal(89.0, trade.Price)
	assert.Equal(int64(11), trade.Shares)
	assert.True(trade.CashAfter.Equal(decimal.NewFromInt(21)))

	// holding 11 shares into the last bar, marked at 80
	final := result.Equity[len(result.Equity)-1].Value
	assert.True(final.Equal(decimal.NewFromInt(901)))
}

func TestSimulatePriceThresholdRoundTrip(t *testing.T) {
	assert := assert.New(t)

	rule := compile(t, "Buy below 100, sell above 150")
	result, err := backtest.Simulate(frame(90, 120, 155), rule)
	assert.Nil(err)
	assert.Len(result.Trades, 2)

	buy, sell := result.Trades[0], result.Trades[1]
	assert.Equal(indicator.BUY, buy.Action)
	assert.Equal(90.0, buy.Price)
	assert.Equal(int64(111), buy.Shares)
	assert.Equal(indicator.SELL, sell.Action)
	assert.Equal(155.0, sell.Price)
	assert.Equal(int64(111), sell.Shares)

	assert.True(result.Summary.FinalValue.Equal(decimal.NewFromInt(17215)))
	assert.Equal(1.0, result.Summary.WinRate)
}

func TestSimulateRSIRuleSkipsUnwarmedBars(t *testing.T) {
	assert := assert.New(t)

	// five bars never warm up a 14-period RSI, so the rule never fires
	rule := compile(t, "Buy when RSI below 30, sell when RSI above 70")
	result, err := backtest.Simulate(frame(100, 90, 80, 70, 60), rule)
	assert.Nil(err)
	assert.Empty(result.Trades)
}

func TestSimulateSkipsUnaffordableEntry(t *testing.T) {
	assert := assert.New(t)

	rule := compile(t, "Buy below 200")
	rule.InitialCapital = decimal.NewFromInt(50)

	result, err := backtest.Simulate(frame(100, 100, 100), rule)
	assert.Nil(err)
	assert.Empty(result.Trades)
}

func TestSimulateSinglePositionAlternation(t *testing.T) {
	assert := assert.New(t)

	closes := []float64{100, 94, 100, 93, 99, 92, 98}
	rule := compile(t, "Buy when it dips 5%, sell when it rises 5%")

	result, err := backtest.Simulate(frame(closes...), rule)
	assert.Nil(err)
	assert.NotEmpty(result.Trades)

	for i, trade := range result.Trades {
		if i%2 == 0 {
			assert.Equal(indicator.BUY, trade.Action)
		} else {
			assert.Equal(indicator.SELL, trade.Action)
		}
		assert.False(trade.CashAfter.IsNegative())
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	assert := assert.New(t)

	closes := []float64{100, 94, 100, 93, 99, 92, 98}
	rule := compile(t, "Buy when it dips 5%, sell when it rises 5%")

	first, err := backtest.Simulate(frame(closes...), rule)
	assert.Nil(err)
	second, err := backtest.Simulate(frame(closes...), rule)
	assert.Nil(err)

	assert.Equal(len(first.Trades), len(second.Trades))
	for i := range first.Trades {
		assert.Equal(first.Trades[i].Action, second.Trades[i].Action)
		assert.Equal(first.Trades[i].Price, second.Trades[i].Price)
		assert.Equal(first.Trades[i].Shares, second.Trades[i].Shares)
		assert.True(first.Trades[i].CashAfter.Equal(second.Trades[i].CashAfter))
	}
	assert.Equal(len(first.Equity), len(second.Equity))
	for i := range first.Equity {
		assert.True(first.Equity[i].Value.Equal(second.Equity[i].Value))
	}
	assert.True(first.Summary.FinalValue.Equal(second.Summary.FinalValue))
}

func TestSimulateHoldsOpenPositionToEnd(t *testing.T) {
	assert := assert.New(t)

	rule := compile(t, "Buy below 100")
	rule.InitialCapital = decimal.NewFromInt(900)

	result, err := backtest.Simulate(frame(90, 95, 105), rule)
	assert.Nil(err)
	assert.Len(result.Trades, 1)

	// 10 shares at 90, 0 cash left, final bar marks them at 105
	final := result.Equity[len(result.Equity)-1].Value
	assert.True(final.Equal(decimal.NewFromInt(1050)))
}
