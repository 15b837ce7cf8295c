package backtest

import (
	"fmt"
	"io"
	"time"
)

// PrintResult writes a human-readable run summary.
func PrintResult(w io.Writer, runID string, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	if runID != "" {
		fmt.Fprintf(w, "Run ID:        %s\n", runID)
	}
	if !r.Start.IsZero() {
		fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Execution")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Bars:          %d\n", len(r.Equity))
	fmt.Fprintf(w, "Fills:         %d\n", len(r.Fills))
	fmt.Fprintf(w, "Rejected:      %d\n", len(r.Rejected))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Cash:          %.2f\n", r.Report.State.Cash)
	fmt.Fprintf(w, "Realized P/L:  %.2f\n", r.Report.State.RealizedPnL)
	if n := len(r.Equity); n > 0 {
		last := r.Equity[n-1]
		fmt.Fprintf(w, "Position:      %.4f (value %.2f)\n", last.PositionQty, last.PositionValue)
		fmt.Fprintf(w, "Fees Paid:     %.2f\n", last.Fees)
		fmt.Fprintf(w, "Final Equity:  %.2f\n", last.Equity)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metrics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total Return:  %.2f%%\n", r.Report.Metrics["total_return"]*100)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.Report.Metrics["max_drawdown"]*100)
	fmt.Fprintf(w, "Sharpe:        %.4f\n", r.Report.Metrics["sharpe"])

	if len(r.Rejected) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Rejected Orders")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, rej := range r.Rejected {
			fmt.Fprintf(w, "- %s: %v\n", rej.Order.ID, rej.Err)
		}
	}

	fmt.Fprintln(w)
}
