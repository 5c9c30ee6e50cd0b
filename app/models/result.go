package models

// BacktestRun is one stored simulation: the strategy as typed by the user, the
// compiled rule rendering, the summary statistics and the executed trades.
type BacktestRun struct {
	ID             int           `gorm:"primary_key" json:"-"`
	RunID          string        `json:"run_id"`
	Timestamp      int64         `json:"timestamp"`
	Symbol         string        `json:"symbol"`
	Strategy       string        `json:"strategy"`
	Rule           string        `json:"rule"`
	InitialCapital float64       `json:"initial_capital"`
	FinalValue     float64       `json:"final_value"`
	TotalReturnPct float64       `json:"total_return_pct"`
	TradeCount     int           `json:"trade_count"`
	WinRate        float64       `json:"win_rate"`
	Trades         []TradeRecord `gorm:"foreignKey:RunID;references:RunID" json:"trades"`
}

// TradeRecord is one executed trade of a stored run
type TradeRecord struct {
	ID        int     `gorm:"primary_key" json:"-"`
	RunID     string  `json:"-"`
	Time      int64   `json:"time"`
	Action    string  `json:"action"`
	Price     float64 `json:"price"`
	Shares    int64   `json:"shares"`
	CashAfter float64 `json:"cash_after"`
}

// Create stores a completed run with its trades
func (run *BacktestRun) Create() error {
	if err := DB.Create(run).Error; err != nil {
		return err
	}
	return nil
}

// GetRunFrame returns RunFrame including the latest stored run for symbol
func GetRunFrame(symbol string) *RunFrame {
	var run BacktestRun
	var rframe RunFrame

	err := DB.Preload("Trades").Where("Symbol = ?", symbol).Order("timestamp desc").First(&run)
	if err.Error != nil {
		// Not Found
		rframe.Run = nil
		return &rframe
	}

	rframe.Run = &run
	return &rframe
}

// DeleteRuns deletes all stored runs and trades for symbol
func DeleteRuns(symbol string) {
	var runs []BacktestRun
	DB.Where("Symbol = ?", symbol).Find(&runs)
	for _, run := range runs {
		DB.Delete(TradeRecord{}, "run_id = ?", run.RunID)
	}
	DB.Delete(BacktestRun{}, "Symbol = ?", symbol)
}
