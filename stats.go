package spxbot

import (
	"math"
	"os"
	"time"

	"github.com/fatih/structs"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	client "github.com/influxdata/influxdb1-client/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/olaitanojo/spxbot/logger"
	"github.com/olaitanojo/spxbot/models"
	"github.com/olaitanojo/spxbot/utils"
)

// Summarize aggregates a finished run into its summary metrics. Pure: it
// reads the trade ledger and capital series and touches nothing else. A run
// with zero trades reports zero for every metric instead of failing.
func Summarize(trades []models.TradeRecord, capital []models.CapitalPoint, cfg models.StrategyConfig) models.Summary {
	var summary models.Summary

	var grossProfit, grossLoss float64
	for _, trade := range trades {
		summary.TotalTrades++
		summary.TotalPnL += trade.PnL
		if trade.PnL > 0 {
			summary.WinningTrades++
			grossProfit += trade.PnL
		} else {
			summary.LosingTrades++
			grossLoss += -trade.PnL
		}
	}
	if summary.TotalTrades > 0 {
		summary.WinRate = float64(summary.WinningTrades) / float64(summary.TotalTrades)
	}
	if summary.WinningTrades > 0 {
		summary.AverageWin = grossProfit / float64(summary.WinningTrades)
	}
	if summary.LosingTrades > 0 {
		summary.AverageLoss = -grossLoss / float64(summary.LosingTrades)
	}
	if grossLoss > 0 {
		summary.ProfitFactor = grossProfit / grossLoss
	}

	if len(capital) > 0 && cfg.InitialCapital > 0 {
		summary.TotalReturn = capital[len(capital)-1].Capital/cfg.InitialCapital - 1
	}

	summary.MaxDrawdown = maxDrawdown(capital)
	summary.Sharpe, summary.Sortino = riskAdjusted(capital, cfg.RiskFreeRate, cfg.Annualization)
	return summary
}

// maxDrawdown is the largest peak-to-trough decline of the capital series,
// as a positive fraction of the peak.
func maxDrawdown(capital []models.CapitalPoint) float64 {
	var peak, worst float64
	for _, point := range capital {
		if point.Capital > peak {
			peak = point.Capital
		}
		if peak > 0 {
			dd := (peak - point.Capital) / peak
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// riskAdjusted computes annualized Sharpe and Sortino ratios from the
// per-period capital returns. Degenerate series (no variance, too short)
// yield zero rather than NaN.
func riskAdjusted(capital []models.CapitalPoint, riskFree, annualization float64) (float64, float64) {
	if len(capital) < 2 {
		return 0, 0
	}
	returns := make([]float64, 0, len(capital)-1)
	downside := make([]float64, 0, len(capital)-1)
	for i := 1; i < len(capital); i++ {
		r := utils.CalculateDifference(capital[i].Capital, capital[i-1].Capital)
		returns = append(returns, r)
		if r < 0 {
			downside = append(downside, r)
		}
	}

	rfPerPeriod := riskFree / annualization
	mean, std := stat.MeanStdDev(returns, nil)
	excess := mean - rfPerPeriod

	sharpe := 0.0
	if std > 0 && !math.IsNaN(std) {
		sharpe = excess / std * math.Sqrt(annualization)
	}
	sortino := 0.0
	if len(downside) > 1 {
		_, downStd := stat.MeanStdDev(downside, nil)
		if downStd > 0 && !math.IsNaN(downStd) {
			sortino = excess / downStd * math.Sqrt(annualization)
		}
	}
	return sharpe, sortino
}

// LogSummary prints the summary in the key/value format the rest of the
// tooling expects.
func LogSummary(result *models.Result) {
	logger.Infof("Backtest %s: capital %.2f -> %.2f", result.Symbol, result.InitialCapital, result.FinalCapital)
	logger.Info(utils.CreateKeyValuePairs(structs.Map(result.Summary), true))
}

// WriteCapitalCSV dumps the capital series for external analysis.
func WriteCapitalCSV(path string, capital []models.CapitalPoint) error {
	os.Remove(path)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, os.ModePerm)
	if err != nil {
		return err
	}
	defer file.Close()
	return gocsv.MarshalFile(&capital, file)
}

// WriteTradesCSV dumps the trade ledger for external analysis.
func WriteTradesCSV(path string, trades []models.TradeRecord) error {
	os.Remove(path)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, os.ModePerm)
	if err != nil {
		return err
	}
	defer file.Close()
	return gocsv.MarshalFile(&trades, file)
}

// LogCloudBacktest ships the capital series to the backtest influx database
// when SPXBOT_BACKTEST_DB_URL is set. Persistence stays outside the engine;
// this is a one-way export for dashboards.
func LogCloudBacktest(result *models.Result) error {
	influxURL := os.Getenv("SPXBOT_BACKTEST_DB_URL")
	if influxURL == "" {
		return nil
	}

	influx, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     influxURL,
		Username: os.Getenv("SPXBOT_BACKTEST_DB_USER"),
		Password: os.Getenv("SPXBOT_BACKTEST_DB_PASSWORD"),
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return err
	}
	defer influx.Close()

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  "backtests",
		Precision: "ms",
	})
	if err != nil {
		return err
	}

	tags := map[string]string{
		"symbol": result.Symbol,
		"run_id": result.Symbol + "-" + uuid.New().String(),
	}
	for _, point := range result.Capital {
		pt, err := client.NewPoint(
			"capital",
			tags,
			map[string]interface{}{"capital": point.Capital, "equity": point.Equity},
			time.Unix(0, point.Timestamp*int64(time.Millisecond)),
		)
		if err != nil {
			return err
		}
		bp.AddPoint(pt)
	}
	return influx.Write(bp)
}
