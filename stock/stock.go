package stock

import (
	"time"

	"github.com/markcheno/go-quote"
	"github.com/oarkflow/errors"
	"github.com/sirupsen/logrus"
)

const timeFormat = "2006-01-02"

// ErrDataUnavailable is returned when neither the network provider nor the
// local store could supply a series for the symbol
var ErrDataUnavailable = errors.New("no provider could supply price data")

// PeriodDays maps a period string (1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd) to a
// day count. Unknown strings map to five years, the backtester default.
func PeriodDays(period string) int {
	switch period {
	case "1d":
		return 1
	case "5d":
		return 5
	case "1mo":
		return 30
	case "3mo":
		return 90
	case "6mo":
		return 180
	case "1y":
		return 365
	case "2y":
		return 730
	case "5y":
		return 1825
	case "10y":
		return 3650
	case "ytd":
		return time.Now().YearDay()
	default:
		return 1825
	}
}

// GetStockData downloads daily stockdata for symbol(GOOGL, FB...etc) during
// today ~ before dayPeriod days. The network provider is tried first; when it
// fails or comes back empty, the local CSV store answers instead. Both failing
// yields ErrDataUnavailable.
func GetStockData(symbol string, dayPeriod int) (*quote.Quote, error) {
	endDay := time.Now()
	startDay := endDay.AddDate(0, 0, -dayPeriod)

	q, err := quote.NewQuoteFromYahoo(
		symbol, startDay.Format(timeFormat), endDay.Format(timeFormat), quote.Daily, true)
	if err != nil {
		logrus.Warnf("network stock fetch error, symbol: %v: %v", symbol, err)
	} else if len(q.Date) > 0 {
		return &q, nil
	}

	local, err := SearchLocal(symbol, startDay, endDay)
	if err != nil {
		logrus.Warnf("local stock lookup error, symbol: %v: %v", symbol, err)
		return nil, ErrDataUnavailable
	}
	if len(local.Date) == 0 {
		return nil, ErrDataUnavailable
	}

	return local, nil
}
