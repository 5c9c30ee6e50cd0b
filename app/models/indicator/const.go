package indicator

const (
	// BUY represents "Buy" signal
	BUY = "BUY"
	// SELL represents "Sell" signal
	SELL = "SELL"
)
