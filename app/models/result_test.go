package models_test

import (
	"github.com/mariod-cerebras/financial-theory-tester/app/models"
)

func testRun(runID string, timestamp int64) *models.BacktestRun {
	return &models.BacktestRun{
		RunID:          runID,
		Timestamp:      timestamp,
		Symbol:         "VOO",
		Strategy:       "Buy when it dips 10%, sell when it rises 10%",
		Rule:           "entry (dip 10% from reference), exit (rise 10% from reference)",
		InitialCapital: 10000,
		FinalValue:     11000,
		TotalReturnPct: 10,
		TradeCount:     2,
		WinRate:        1,
		Trades: []models.TradeRecord{
			{RunID: runID, Time: 86400000, Action: "BUY", Price: 90, Shares: 111, CashAfter: 10},
			{RunID: runID, Time: 172800000, Action: "SELL", Price: 99, Shares: 111, CashAfter: 10999},
		},
	}
}

func (suite *ModelsTestSuite) TestCreateAndGetRun() {
	suite.Nil(testRun("run-1", 1000).Create())

	rframe := models.GetRunFrame("VOO")
	suite.NotNil(rframe.Run)
	suite.Equal("run-1", rframe.Run.RunID)
	suite.Len(rframe.Run.Trades, 2)
	suite.Equal("BUY", rframe.Run.Trades[0].Action)
}

func (suite *ModelsTestSuite) TestGetRunFrameReturnsLatest() {
	suite.Nil(testRun("run-old", 1000).Create())
	suite.Nil(testRun("run-new", 2000).Create())

	rframe := models.GetRunFrame("VOO")
	suite.Equal("run-new", rframe.Run.RunID)
}

func (suite *ModelsTestSuite) TestGetRunFrameUnknownSymbol() {
	rframe := models.GetRunFrame("UNKNOWN")
	suite.Nil(rframe.Run)
}

func (suite *ModelsTestSuite) TestDeleteRuns() {
	suite.Nil(testRun("run-1", 1000).Create())
	models.DeleteRuns("VOO")

	rframe := models.GetRunFrame("VOO")
	suite.Nil(rframe.Run)
}
