package backtest

import (
	"github.com/shopspring/decimal"

	"github.com/mariod-cerebras/financial-theory-tester/app/models/indicator"
)

// Summary reduces a trade log and equity curve to aggregate statistics
type Summary struct {
	FinalValue     decimal.Decimal `json:"final_value"`
	TotalReturnPct float64         `json:"total_return_pct"`
	TradeCount     int             `json:"trade_count"`
	WinRate        float64         `json:"win_rate"`
}

var oneHundred = decimal.NewFromInt(100)

// Summarize computes the total return on final portfolio value (not realized
// cash), the trade count and the fraction of sells above their paired buy.
// A run with no trades summarizes to a 0% win rate, never a division error.
func Summarize(initial decimal.Decimal, trades []Trade, equity []EquityPoint) Summary {
	final := initial
	if len(equity) > 0 {
		final = equity[len(equity)-1].Value
	}

	returnPct := 0.0
	if initial.IsPositive() {
		returnPct, _ = final.Div(initial).Sub(decimal.NewFromInt(1)).Mul(oneHundred).Float64()
	}

	wins, sells := 0, 0
	buyPrice := 0.0
	for _, trade := range trades {
		switch trade.Action {
		case indicator.BUY:
			buyPrice = trade.Price
		case indicator.SELL:
			sells++
			if trade.Price > buyPrice {
				wins++
			}
		}
	}

	winRate := 0.0
	if sells > 0 {
		winRate = float64(wins) / float64(sells)
	}

	return Summary{
		FinalValue:     final,
		TotalReturnPct: returnPct,
		TradeCount:     len(trades),
		WinRate:        winRate,
	}
}
