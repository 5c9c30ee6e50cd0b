package backtest

import (
	"github.com/oarkflow/errors"
	"github.com/oarkflow/xid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mariod-cerebras/financial-theory-tester/app/models"
	"github.com/mariod-cerebras/financial-theory-tester/app/models/indicator"
	"github.com/mariod-cerebras/financial-theory-tester/strategy"
)

// ErrNoCandles is returned when a simulation is asked to run over an empty series
var ErrNoCandles = errors.New("no candles to simulate")

// Trade is one executed order
type Trade struct {
	Time      int64           `json:"time"`
	Action    string          `json:"action"`
	Price     float64         `json:"price"`
	Shares    int64           `json:"shares"`
	CashAfter decimal.Decimal `json:"cash_after"`
}

// EquityPoint values the whole portfolio (cash plus marked-to-close holdings)
// at one bar
type EquityPoint struct {
	Time  int64           `json:"time"`
	Value decimal.Decimal `json:"value"`
}

// Result is the structured outcome of one simulation run
type Result struct {
	RunID   string         `json:"run_id"`
	Symbol  string         `json:"symbol"`
	Rule    *strategy.Rule `json:"-"`
	Trades  []Trade        `json:"trades"`
	Equity  []EquityPoint  `json:"equity"`
	Summary Summary        `json:"summary"`
}

// portfolio is the single mutable state of a run, owned by Simulate.
// entryPrice is only meaningful while shares > 0.
type portfolio struct {
	cash       decimal.Decimal
	shares     int64
	entryPrice float64
	reference  float64
}

// Simulate replays the compiled rule over the candle frame bar by bar.
//
// The machine has two states, flat and long. In the flat state the entry
// condition is evaluated; a hit buys floor(cash/close) whole shares when at
// least one is affordable. In the long state the exit condition is evaluated;
// a hit sells the whole position. A rule without an exit condition holds until
// the series ends. The reference price for percent conditions starts at the
// first close and is reset to the fill price on every trade.
//
// An open position at series end is not force-liquidated; the final equity
// point values it at the last close.
func Simulate(cframe *models.CandleFrame, rule *strategy.Rule) (*Result, error) {
	if len(cframe.Candles) == 0 {
		return nil, ErrNoCandles
	}

	engine := indicator.NewEngine(cframe.Closes(), indicator.DefaultConfig())

	p := portfolio{
		cash:      rule.InitialCapital,
		reference: cframe.Candles[0].Close,
	}

	result := &Result{
		RunID:  xid.New().String(),
		Symbol: cframe.Symbol,
		Rule:   rule,
	}

	logrus.Infof("backtest start: %v, %v bars, rule %v", cframe.Symbol, len(cframe.Candles), rule)

	for i, candle := range cframe.Candles {
		snap := engine.At(i)
		env := strategy.Env{
			Close:          candle.Close,
			RSI:            snap.RSI,
			RSIValid:       snap.RSIValid,
			ReferencePrice: p.reference,
		}

		if p.shares == 0 {
			if rule.Entry.IsSatisfied(env) {
				price := decimal.NewFromFloat(candle.Close)
				shares := p.cash.Div(price).IntPart()
				if shares >= 1 {
					p.cash = p.cash.Sub(price.Mul(decimal.NewFromInt(shares)))
					p.shares = shares
					p.entryPrice = candle.Close
					p.reference = candle.Close
					result.Trades = append(result.Trades, Trade{
						Time:      candle.Time,
						Action:    indicator.BUY,
						Price:     candle.Close,
						Shares:    shares,
						CashAfter: p.cash,
					})
				}
			}
		} else if rule.Exit != nil && rule.Exit.IsSatisfied(env) {
			price := decimal.NewFromFloat(candle.Close)
			p.cash = p.cash.Add(price.Mul(decimal.NewFromInt(p.shares)))
			result.Trades = append(result.Trades, Trade{
				Time:      candle.Time,
				Action:    indicator.SELL,
				Price:     candle.Close,
				Shares:    p.shares,
				CashAfter: p.cash,
			})
			p.shares = 0
			p.entryPrice = 0
			p.reference = candle.Close
		}

		value := p.cash
		if p.shares > 0 {
			value = value.Add(decimal.NewFromFloat(candle.Close).Mul(decimal.NewFromInt(p.shares)))
		}
		result.Equity = append(result.Equity, EquityPoint{Time: candle.Time, Value: value})
	}

	result.Summary = Summarize(rule.InitialCapital, result.Trades, result.Equity)

	logrus.Infof("backtest end: %v, trades %v, return %.2f%%",
		cframe.Symbol, result.Summary.TradeCount, result.Summary.TotalReturnPct)

	return result, nil
}
