package stock

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/markcheno/go-quote"
	"github.com/oarkflow/convert"
	"github.com/oarkflow/errors"
	"github.com/oarkflow/log"
	"github.com/oarkflow/search"
)

// InitCSVStore indexes every CSV file under dir into the "stock" search
// engine, which then serves as the offline provider. Rows carry at least
// Symbol, Date, OpenPrice, HighPrice, LowPrice, ClosePrice and Volume columns.
func InitCSVStore(dir string) error {
	rows, err := loadAllCSVFiles(dir)
	if err != nil {
		return errors.NewE(err, "unable to load csv stock data", "")
	}
	if len(rows) == 0 {
		log.Warn().Str("dir", dir).Msg("no local csv stock data")
		return nil
	}

	engine, err := search.SetEngine[map[string]any]("stock", &search.Config{})
	if err != nil {
		return errors.NewE(err, "unable to set search engine", "")
	}
	log.Info().Int("rows", len(rows)).Msg("Indexing stock")
	engine.InsertWithPool(rows, runtime.NumCPU(), 1000)
	log.Info().Msg("Indexed stock")

	return nil
}

// SearchLocal queries the local store for symbol bars between start and end
// and converts the hits to a chronologically ordered Quote.
func SearchLocal(symbol string, start, end time.Time) (*quote.Quote, error) {
	engine, err := search.GetEngine[map[string]any]("stock")
	if err != nil {
		return nil, err
	}
	result, err := engine.Search(&search.Params{
		Query:      symbol,
		Properties: []string{"Symbol"},
		Condition:  fmt.Sprintf("Date BETWEEN '%s' AND %s", start.Format(timeFormat), end.Format(timeFormat)),
	})
	if err != nil {
		return nil, err
	}

	type bar struct {
		date          time.Time
		o, h, l, c, v float64
	}
	bars := make([]bar, 0, result.FilteredTotal)

	for _, hit := range result.Hits {
		row := hit.Data
		date, err := dateparse.ParseAny(fmt.Sprintf("%v", row["Date"]))
		if err != nil {
			continue
		}
		b := bar{date: date}
		b.o, _ = convert.ToFloat64(row["OpenPrice"])
		b.h, _ = convert.ToFloat64(row["HighPrice"])
		b.l, _ = convert.ToFloat64(row["LowPrice"])
		b.c, _ = convert.ToFloat64(row["ClosePrice"])
		b.v, _ = convert.ToFloat64(row["Volume"])
		bars = append(bars, b)
	}

	// hit order is relevance order, the simulator needs time order
	sort.Slice(bars, func(i, j int) bool { return bars[i].date.Before(bars[j].date) })

	qt := quote.NewQuote(symbol, len(bars))
	for i, b := range bars {
		qt.Date[i] = b.date
		qt.Open[i] = b.o
		qt.High[i] = b.h
		qt.Low[i] = b.l
		qt.Close[i] = b.c
		qt.Volume[i] = b.v
	}

	return &qt, nil
}

func loadAllCSVFiles(dir string) ([]map[string]any, error) {
	var rows []map[string]any

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}
		fileRows, err := parseCSVFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrap(err, entry.Name(), "")
		}
		rows = append(rows, fileRows...)
	}

	return rows, nil
}

func parseCSVFile(filename string) ([]map[string]any, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(header))
		for i, key := range header {
			if i >= len(record) {
				break
			}
			value := record[i]
			switch key {
			case "Symbol":
				row[key] = value
			case "Date":
				date, err := dateparse.ParseAny(value)
				if err != nil {
					return nil, errors.Wrap(err, fmt.Sprintf("bad date %q", value), "")
				}
				row[key] = date.Format(timeFormat)
			default:
				if parsed, err := parseFloat(value); err == nil {
					row[key] = parsed
				} else {
					row[key] = value
				}
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseFloat(value string) (float64, error) {
	value = strings.ReplaceAll(value, ",", "")
	if value == "-" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
