package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/pkg/id"
	"github.com/rustyeddy/backtester/report"
	"github.com/rustyeddy/backtester/sim"
)

func newRunCmd(rc *RootConfig) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a backtest from a config file and write the schema-v1 report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rc.ConfigPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.LoadFromFile(rc.ConfigPath)
			if err != nil {
				return err
			}
			if outPath != "" {
				cfg.Report.OutPath = outPath
			}
			return runBacktest(rc.Logger, cfg)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Report output path (overrides config)")
	return cmd
}

func runBacktest(log *zap.Logger, cfg *config.Config) error {
	runID := id.New()
	log.Info("starting backtest",
		zap.String("run_id", runID),
		zap.String("bars", cfg.Data.BarsCSV),
		zap.String("symbol", cfg.Data.Symbol),
	)

	model, err := sim.NewModel(cfg.Execution.ToSim())
	if err != nil {
		return err
	}

	feed, err := backtest.NewCSVBarFeed(cfg.Data.BarsCSV, time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	bars, err := backtest.ReadAllBars(feed)
	feed.Close()
	if err != nil {
		return err
	}
	log.Debug("loaded bars", zap.Int("count", len(bars)))

	var ordersByBar [][]market.Order
	if cfg.Data.OrdersFile != "" {
		ordersByBar, err = config.LoadOrders(cfg.Data.OrdersFile, len(bars))
		if err != nil {
			return err
		}
	}

	runner := &backtest.Runner{
		Model:       model,
		InitialCash: cfg.Account.InitialCash,
		RiskFree:    cfg.Account.RiskFree,
	}
	res, err := runner.Run(bars, ordersByBar)
	if err != nil {
		return err
	}
	for _, rej := range res.Rejected {
		log.Warn("order rejected",
			zap.String("order_id", rej.Order.ID),
			zap.Error(rej.Err),
		)
	}

	if cfg.Report.OutPath != "" {
		data, err := report.Encode(res.Report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Report.OutPath, data, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info("report written",
			zap.String("path", cfg.Report.OutPath),
			zap.Int("bytes", len(data)),
		)
	}

	if err := journalRun(cfg, runID, res); err != nil {
		return err
	}

	backtest.PrintResult(os.Stdout, runID, res)
	return nil
}

// journalRun persists fills, equity rows, and the run summary if a journal
// is configured.
func journalRun(cfg *config.Config, runID string, res backtest.Result) error {
	var (
		j   journal.Journal
		err error
	)
	switch cfg.Journal.Type {
	case "", "none":
		return nil
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.FillsFile, cfg.Journal.EquityFile)
	default:
		return fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	for _, f := range res.Fills {
		if err := j.RecordFill(journal.FillRecord{
			RunID:   runID,
			OrderID: f.OrderID,
			Symbol:  f.Symbol,
			Side:    f.Side.String(),
			Qty:     f.Qty,
			Price:   f.Price,
			Fee:     f.Fee,
			Ts:      f.Ts,
		}); err != nil {
			return err
		}
	}
	for _, row := range res.Equity {
		if err := j.RecordEquity(journal.EquityRecord{
			RunID:         runID,
			Ts:            row.Ts,
			Cash:          row.Cash,
			PositionQty:   row.PositionQty,
			PositionValue: row.PositionValue,
			RealizedPnL:   row.RealizedPnL,
			UnrealizedPnL: row.UnrealizedPnL,
			Fees:          row.Fees,
			Equity:        row.Equity,
		}); err != nil {
			return err
		}
	}

	rec := journal.RunRecord{
		RunID:       runID,
		Created:     time.Now().UTC(),
		Symbol:      cfg.Data.Symbol,
		Bars:        len(res.Equity),
		Fills:       len(res.Fills),
		InitialCash: cfg.Account.InitialCash,
		TotalReturn: res.Report.Metrics["total_return"],
		MaxDrawdown: res.Report.Metrics["max_drawdown"],
		Sharpe:      res.Report.Metrics["sharpe"],
	}
	if n := len(res.Equity); n > 0 {
		rec.FinalEquity = res.Equity[n-1].Equity
	}
	return j.RecordRun(rec)
}
