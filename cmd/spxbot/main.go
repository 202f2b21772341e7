package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	spxbot "github.com/olaitanojo/spxbot"
	"github.com/olaitanojo/spxbot/data"
	"github.com/olaitanojo/spxbot/logger"
	"github.com/olaitanojo/spxbot/models"
	"github.com/olaitanojo/spxbot/utils"
)

func main() {
	godotenv.Load()

	configPath := flag.String("config", "", "strategy config file (yaml or json); defaults apply when empty")
	barsPath := flag.String("bars", "spx.csv", "underlying bar csv")
	vixPath := flag.String("vix", "vix.csv", "volatility index csv")
	secretName := flag.String("secret", "", "candle database credentials: local json path, or secret name with -cloud; csv files are used when empty")
	cloud := flag.Bool("cloud", false, "load the database secret from aws secrets manager")
	exchange := flag.String("exchange", "yahoo", "candle source for the database provider")
	interval := flag.String("interval", "1d", "candle interval for the database provider")
	startStr := flag.String("start", "", "backtest start date (2006-01-02); default 2 years back")
	endStr := flag.String("end", "", "backtest end date (2006-01-02); default today")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.SetLevel(*logLevel)
	logger.Debugf("log level %s", logger.GetLevel())

	var provider data.Provider = data.NewCSVProvider(*barsPath, *vixPath)
	if *secretName != "" {
		name, fromCloud := *secretName, *cloud
		provider = data.NewPostgresProvider(*exchange, *interval, func() (models.Secret, error) {
			return utils.LoadSecret(name, fromCloud)
		})
	}

	if err := run(*configPath, provider, *startStr, *endStr); err != nil {
		logger.Errorf("spxbot: %v", err)
		os.Exit(1)
	}
}

func run(configPath string, provider data.Provider, startStr, endStr string) error {
	cfg := models.DefaultStrategyConfig("^SPX")
	if configPath != "" {
		loaded, err := models.LoadStrategyConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	end := time.Now()
	if endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return err
		}
		end = parsed
	}
	start := end.AddDate(-2, 0, 0)
	if startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return err
		}
		start = parsed
	}

	engine, err := spxbot.NewTradingEngine(cfg, provider)
	if err != nil {
		return err
	}
	if err := engine.LoadData(start, end); err != nil {
		return err
	}
	if engine.Classifier() != nil {
		if _, err := engine.Train(); err != nil {
			return err
		}
	}

	rec, err := engine.CurrentRecommendation()
	if err != nil {
		return err
	}
	printRecommendation(rec)

	result, err := engine.RunBacktest()
	if err != nil {
		return err
	}
	printResult(result)
	spxbot.LogSummary(result)

	if err := spxbot.WriteCapitalCSV("capital.csv", result.Capital); err != nil {
		return err
	}
	if err := spxbot.WriteTradesCSV("trades.csv", result.Trades); err != nil {
		return err
	}
	return spxbot.LogCloudBacktest(result)
}

func printRecommendation(rec *models.Recommendation) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("LIVE MARKET ANALYSIS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Current Price: $%.2f\n", rec.Price)
	fmt.Printf("Trading Signal: %s (confidence %.2f)\n", strings.ToUpper(string(rec.Signal.Type)), rec.Signal.Confidence)
	fmt.Printf("RSI: %.2f\n", rec.RSI)
	fmt.Printf("MACD: %.2f\n", rec.MACD)
	if rec.VIXLevel > 0 {
		fmt.Printf("VIX Level: %.2f\n", rec.VIXLevel)
	}
	fmt.Printf("Price vs 20-day MA: %.2f%%\n", rec.PriceVsSMA20)
	fmt.Println("\nContributing strategies:")
	for _, sig := range rec.Breakdown {
		fmt.Printf("  %-22s %s (%.2f)\n", sig.Strategy, sig.Type, sig.Confidence)
	}
	fmt.Println("\nRecommendation:")
	fmt.Println(strings.Join(rec.Commentary, " | "))
}

func printResult(result *models.Result) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("BACKTEST RESULTS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Total Trades: %d\n", result.Summary.TotalTrades)
	fmt.Printf("Win Rate: %.2f%%\n", result.Summary.WinRate*100)
	fmt.Printf("Total P&L: $%.2f\n", result.Summary.TotalPnL)
	fmt.Printf("Return: %.2f%%\n", result.Summary.TotalReturn*100)
	fmt.Printf("Max Drawdown: %.2f%%\n", result.Summary.MaxDrawdown*100)
	fmt.Printf("Sharpe: %.3f\n", result.Summary.Sharpe)
	fmt.Printf("Final Capital: $%.2f\n", result.FinalCapital)
}
