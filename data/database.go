package data

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/olaitanojo/spxbot/models"
)

// PostgresProvider serves bars from a candles table. Credentials come from
// a models.Secret (local json or AWS secrets via utils.LoadSecret), never
// from the source.
type PostgresProvider struct {
	Secret   string
	Exchange string
	Interval string
	secret   models.Secret
	loader   func() (models.Secret, error)
}

// NewPostgresProvider defers the credential load until the first query so a
// provider can be constructed in tests without a database around.
func NewPostgresProvider(exchange, interval string, loader func() (models.Secret, error)) *PostgresProvider {
	return &PostgresProvider{Exchange: exchange, Interval: interval, loader: loader}
}

func (p *PostgresProvider) connect() (*sqlx.DB, error) {
	if p.secret.DBHost == "" {
		secret, err := p.loader()
		if err != nil {
			return nil, fmt.Errorf("loading database credentials: %w", err)
		}
		p.secret = secret
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.secret.DBHost, p.secret.DBPort, p.secret.DBUser, p.secret.DBPassword, p.secret.DBName)
	return sqlx.Connect("postgres", dsn)
}

func (p *PostgresProvider) GetBars(symbol string, start, end time.Time) ([]*models.Bar, error) {
	return p.query(symbol, start, end)
}

func (p *PostgresProvider) GetVolIndex(symbol string, start, end time.Time) ([]*models.Bar, error) {
	return p.query(volSymbol(symbol), start, end)
}

func (p *PostgresProvider) query(symbol string, start, end time.Time) ([]*models.Bar, error) {
	db, err := p.connect()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	bars := []*models.Bar{}
	err = db.Select(&bars,
		`select timestamp, open, high, low, close, volume from candles
		 where symbol = $1 and exchange = $2 and interval = $3
		 and timestamp >= $4 and timestamp <= $5 order by timestamp`,
		symbol, p.Exchange, p.Interval,
		start.UnixNano()/int64(time.Millisecond), end.UnixNano()/int64(time.Millisecond))
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// volSymbol maps an index symbol to its volatility proxy, e.g. ^SPX -> ^VIX.
func volSymbol(symbol string) string {
	switch symbol {
	case "^SPX", "SPX", "^GSPC", "SPY":
		return "^VIX"
	default:
		return symbol + ".VOL"
	}
}
