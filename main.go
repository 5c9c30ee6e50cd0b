package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mariod-cerebras/financial-theory-tester/app/models"
	"github.com/mariod-cerebras/financial-theory-tester/app/server"
	"github.com/mariod-cerebras/financial-theory-tester/backtest"
	"github.com/mariod-cerebras/financial-theory-tester/config"
	"github.com/mariod-cerebras/financial-theory-tester/log"
	"github.com/mariod-cerebras/financial-theory-tester/stock"
	"github.com/mariod-cerebras/financial-theory-tester/strategy"
	"github.com/mariod-cerebras/financial-theory-tester/theory"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: financial-theory-tester [flags] <TICKER> \"<STRATEGY>\"")
	fmt.Fprintln(os.Stderr, "       financial-theory-tester -theory [flags] <TICKER>")
	fmt.Fprintln(os.Stderr, "       financial-theory-tester -serve")
	fmt.Fprintln(os.Stderr, "\nExample strategies:")
	fmt.Fprintln(os.Stderr, "  'Buy when it dips 10 percent'")
	fmt.Fprintln(os.Stderr, "  'Buy when RSI below 30, sell when RSI above 70'")
	fmt.Fprintln(os.Stderr, "  'Buy when price drops 5 percent, sell when it rises 10 percent'")
	fmt.Fprintln(os.Stderr, "  'Buy below 100, sell above 120'")
	flag.PrintDefaults()
}

func main() {
	period := flag.String("period", "5y", "history period (1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd)")
	capital := flag.Float64("capital", 0, "initial capital, overrides the strategy text")
	theoryRun := flag.Bool("theory", false, "run the financial theory suite instead of a backtest")
	serve := flag.Bool("serve", false, "start the web API")
	flag.Usage = usage
	flag.Parse()

	config.InitConfig()
	log.SetLogging()
	models.InitDB()

	if err := stock.InitCSVStore(config.Config.DataDir); err != nil {
		logrus.Warnf("local csv store unavailable: %v", err)
	}

	if *serve {
		server.Run()
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	symbol := strings.ToUpper(args[0])
	days := stock.PeriodDays(*period)

	cframe, err := fetchCandles(symbol, days)
	if err != nil {
		logrus.Errorf("no data for %v: %v", symbol, err)
		os.Exit(1)
	}

	if *theoryRun {
		printTheories(symbol, theory.RunAll(cframe.Closes()))
		return
	}

	if len(args) < 2 {
		usage()
		os.Exit(1)
	}
	text := strings.Join(args[1:], " ")

	rule, err := strategy.Compile(text)
	if err != nil {
		logrus.Errorf("strategy compile error: %v", err)
		os.Exit(1)
	}
	for _, warning := range rule.Warnings {
		logrus.Warnf("strategy compile: %v", warning)
	}
	if *capital > 0 {
		rule.InitialCapital = decimal.NewFromFloat(*capital)
	}

	result, err := backtest.Simulate(cframe, rule)
	if err != nil {
		logrus.Errorf("backtest error: %v", err)
		os.Exit(1)
	}

	printResult(result, rule)
}

func fetchCandles(symbol string, days int) (*models.CandleFrame, error) {
	// stored data from the last day is fresh enough to skip the download
	if last, err := models.LastCandleTime(symbol); err == nil &&
		time.Since(time.UnixMilli(last)) < 24*time.Hour {
		return models.GetCandleFrame(symbol, days), nil
	}

	q, err := stock.GetStockData(symbol, days)
	if err != nil {
		return nil, err
	}
	models.DeleteCandles(symbol)
	models.NewCandlesFromQuote(q).CreateCandles()

	return models.GetCandleFrame(symbol, days), nil
}

func printResult(result *backtest.Result, rule *strategy.Rule) {
	payload := struct {
		*backtest.Result
		Rule     string   `json:"rule"`
		Warnings []string `json:"warnings,omitempty"`
	}{Result: result, Rule: rule.String(), Warnings: rule.Warnings}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		logrus.Errorf("result encode error: %v", err)
		os.Exit(1)
	}
}

func printTheories(symbol string, results []theory.Result) {
	fmt.Printf("FINANCIAL THEORY TEST RESULTS: %s\n\n", symbol)

	if len(results) == 0 {
		fmt.Println("No tests could be run")
		return
	}

	makesSense := 0
	for _, result := range results {
		fmt.Println(result.Theory)
		fmt.Printf("   Interpretation: %s\n", result.Interpretation)
		if result.MakesSense {
			makesSense++
			fmt.Println("   Makes Sense: Yes")
		} else {
			fmt.Println("   Makes Sense: No")
		}
		fmt.Println()
	}

	fmt.Printf("SUMMARY: %d/%d theories make sense for %s\n", makesSense, len(results), symbol)
}
