package market

import "time"

// Fill is one execution event against an order. Price already carries
// slippage and Fee carries the full fee for the event; downstream accounting
// must not rederive either.
type Fill struct {
	OrderID string
	Symbol  string
	Side    Side
	Qty     float64
	Price   float64
	Fee     float64
	Ts      time.Time // execution time
	BarTs   time.Time // bar that produced the fill
}
