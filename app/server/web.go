package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mariod-cerebras/financial-theory-tester/app/models"
	"github.com/mariod-cerebras/financial-theory-tester/backtest"
	"github.com/mariod-cerebras/financial-theory-tester/config"
	"github.com/mariod-cerebras/financial-theory-tester/stock"
	"github.com/mariod-cerebras/financial-theory-tester/strategy"
	"github.com/mariod-cerebras/financial-theory-tester/theory"
)

// JSONError is json error massage
type JSONError struct {
	Error string `json:"error"`
}

func errorAPI(w http.ResponseWriter, message string, code int) {
	jsonMessage, err := json.Marshal(JSONError{Error: message})
	if err != nil {
		logrus.Warnf("error message create error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(code)
	w.Write(jsonMessage)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	js, err := json.Marshal(payload)
	if err != nil {
		logrus.Warnf("response json error: %v", err)
		errorAPI(w, "response json error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(js)
}

// ensureCandles returns the stored frame for symbol, downloading and storing
// the series first when the database has nothing for it
func ensureCandles(symbol string, period int) (*models.CandleFrame, error) {
	cframe := models.GetCandleFrame(symbol, period)
	if len(cframe.Candles) > 0 {
		return cframe, nil
	}

	q, err := stock.GetStockData(symbol, period)
	if err != nil {
		return nil, err
	}
	models.DeleteCandles(symbol)
	models.NewCandlesFromQuote(q).CreateCandles()

	return models.GetCandleFrame(symbol, period), nil
}

// CandleGetAPIHandler gets stock data, when path is "/candles"
func CandleGetAPIHandler(w http.ResponseWriter, req *http.Request) {
	logrus.Infof("candle get request: url -> %s", req.URL)

	symbol := req.URL.Query().Get("symbol")
	if symbol == "" {
		errorAPI(w, "bad parameter(symbol)", http.StatusBadRequest)
		return
	}
	period, err := strconv.Atoi(req.URL.Query().Get("period"))
	if err != nil {
		period = config.Config.DefaultPeriod
	}

	cframe, err := ensureCandles(symbol, period)
	if err != nil {
		logrus.Warnf("stock get error, symbol: %v: %v", symbol, err)
		errorAPI(w, fmt.Sprintf("stock get error, symbol: %v", symbol), http.StatusBadRequest)
		return
	}

	dframe := models.NewDataFrame()
	dframe.CandleFrame = cframe
	dframe.AddRunFrame(symbol)

	writeJSON(w, dframe)
}

// BacktestRequest receives the parameters used for a backtest at json
type BacktestRequest struct {
	Symbol   string  `json:"symbol"`
	Strategy string  `json:"strategy"`
	Period   int     `json:"period"`
	Capital  float64 `json:"capital"`
}

// BacktestAPIHandler compiles the strategy text, runs the simulation and
// stores the run, when path is "/backtest"
func BacktestAPIHandler(w http.ResponseWriter, req *http.Request) {
	logrus.Info("backtest request")
	dec := json.NewDecoder(req.Body)

	var bt BacktestRequest
	if err := dec.Decode(&bt); err != nil {
		logrus.Warnf("backtest params error: %v", err)
		errorAPI(w, fmt.Sprintf("backtest params error: %v", err), http.StatusBadRequest)
		return
	}
	if bt.Period <= 0 {
		bt.Period = config.Config.DefaultPeriod
	}

	rule, err := strategy.Compile(bt.Strategy)
	if err != nil {
		logrus.Warnf("strategy compile error: %v", err)
		errorAPI(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, warning := range rule.Warnings {
		logrus.Warnf("strategy compile: %v", warning)
	}
	if bt.Capital > 0 {
		rule.InitialCapital = decimal.NewFromFloat(bt.Capital)
	}

	cframe, err := ensureCandles(bt.Symbol, bt.Period)
	if err != nil {
		logrus.Warnf("stock get error, symbol: %v: %v", bt.Symbol, err)
		errorAPI(w, fmt.Sprintf("stock get error, symbol: %v", bt.Symbol), http.StatusBadRequest)
		return
	}

	result, err := backtest.Simulate(cframe, rule)
	if err != nil {
		logrus.Warnf("backtest error: %v", err)
		errorAPI(w, fmt.Sprintf("backtest error: %v", err), http.StatusInternalServerError)
		return
	}

	models.DeleteRuns(bt.Symbol)
	if err := runFromResult(result).Create(); err != nil {
		logrus.Warnf("backtest store error: %v", err)
		errorAPI(w, fmt.Sprintf("backtest store error: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, struct {
		*backtest.Result
		Rule     string   `json:"rule"`
		Warnings []string `json:"warnings,omitempty"`
	}{Result: result, Rule: rule.String(), Warnings: rule.Warnings})
}

// TheoryAPIHandler runs the financial theory suite, when path is "/theory"
func TheoryAPIHandler(w http.ResponseWriter, req *http.Request) {
	logrus.Infof("theory request: url -> %s", req.URL)

	symbol := req.URL.Query().Get("symbol")
	if symbol == "" {
		errorAPI(w, "bad parameter(symbol)", http.StatusBadRequest)
		return
	}
	period, err := strconv.Atoi(req.URL.Query().Get("period"))
	if err != nil {
		period = config.Config.DefaultPeriod
	}

	cframe, err := ensureCandles(symbol, period)
	if err != nil {
		logrus.Warnf("stock get error, symbol: %v: %v", symbol, err)
		errorAPI(w, fmt.Sprintf("stock get error, symbol: %v", symbol), http.StatusBadRequest)
		return
	}

	dframe := models.NewDataFrame()
	dframe.Theories = theory.RunAll(cframe.Closes())

	writeJSON(w, dframe)
}

// runFromResult maps a simulation result onto the stored row types
func runFromResult(result *backtest.Result) *models.BacktestRun {
	trades := make([]models.TradeRecord, len(result.Trades))
	for i, trade := range result.Trades {
		trades[i] = models.TradeRecord{
			RunID:     result.RunID,
			Time:      trade.Time,
			Action:    trade.Action,
			Price:     trade.Price,
			Shares:    trade.Shares,
			CashAfter: trade.CashAfter.InexactFloat64(),
		}
	}

	initial, _ := result.Rule.InitialCapital.Float64()

	return &models.BacktestRun{
		RunID:          result.RunID,
		Timestamp:      time.Now().Unix() * 1000,
		Symbol:         result.Symbol,
		Strategy:       result.Rule.Description,
		Rule:           result.Rule.String(),
		InitialCapital: initial,
		FinalValue:     result.Summary.FinalValue.InexactFloat64(),
		TotalReturnPct: result.Summary.TotalReturnPct,
		TradeCount:     result.Summary.TradeCount,
		WinRate:        result.Summary.WinRate,
		Trades:         trades,
	}
}

// Run starts webserver
func Run() {
	logrus.Info("server start")
	http.HandleFunc("/candles", CandleGetAPIHandler)
	http.HandleFunc("/backtest", BacktestAPIHandler)
	http.HandleFunc("/theory", TheoryAPIHandler)
	logrus.Fatalln(http.ListenAndServe(fmt.Sprintf("%s:%d", config.Config.IP, config.Config.Port), nil))
}
