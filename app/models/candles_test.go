package models_test

import (
	"time"

	"github.com/markcheno/go-quote"

	"github.com/mariod-cerebras/financial-theory-tester/app/models"
)

func (suite *ModelsTestSuite) TestNewCandlesFromQuote() {
	q := quote.NewQuote("VOO", 2)
	for i := range q.Date {
		q.Date[i] = time.Unix(int64(i+1)*86400, 0)
		q.Open[i] = 100.123
		q.High[i] = 101.456
		q.Low[i] = 99.789
		q.Close[i] = 100.999
		q.Volume[i] = 1234
	}

	candles := *models.NewCandlesFromQuote(&q)

	suite.Len(candles, 2)
	suite.Equal("VOO", candles[0].Symbol)
	suite.Equal(int64(86400000), candles[0].Time)
	// prices round to cents
	suite.Equal(100.12, candles[0].Open)
	suite.Equal(101.46, candles[0].High)
	suite.Equal(99.79, candles[0].Low)
	suite.Equal(101.0, candles[0].Close)
}

func (suite *ModelsTestSuite) TestGetCandleFrame() {
	cframe := models.GetCandleFrame("VOO", 500)
	times := []int64{}
	for _, candle := range cframe.Candles {
		times = append(times, candle.Time)
	}

	suite.Equal("VOO", cframe.Symbol)
	suite.Len(cframe.Candles, 20)
	suite.IsIncreasing(times)
}

func (suite *ModelsTestSuite) TestGetCandleFrameLimitKeepsLatest() {
	cframe := models.GetCandleFrame("VOO", 5)

	suite.Len(cframe.Candles, 5)
	// the limit drops the oldest bars, not the newest
	suite.Equal(int64(20)*86400000, cframe.Candles[4].Time)
}

func (suite *ModelsTestSuite) TestCloses() {
	cframe := models.GetCandleFrame("VOO", 500)
	closes := cframe.Closes()

	suite.Len(closes, 20)
	suite.Equal(100.0, closes[0])
	suite.Equal(119.0, closes[19])
}

func (suite *ModelsTestSuite) TestLastCandleTime() {
	cframe := models.GetCandleFrame("VOO", 500)
	lastTime := cframe.Candles[len(cframe.Candles)-1].Time

	lastCandleTime, err := models.LastCandleTime("VOO")
	suite.Equal(lastTime, lastCandleTime)
	suite.Nil(err)
}

func (suite *ModelsTestSuite) TestDeleteCandles() {
	models.DeleteCandles("VOO")
	cframe := models.GetCandleFrame("VOO", 10)

	suite.Empty(cframe.Candles)
}

func (suite *ModelsTestSuite) TestAllDeleteCandles() {
	models.AllDeleteCandles()
	cframe := models.GetCandleFrame("VOO", 10)

	suite.Empty(cframe.Candles)
}
