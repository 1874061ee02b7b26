// Package store persists briefs and tracked stocks in Postgres. The
// generation pipeline is the sole writer of daily_news rows; the enrichment
// client's company-discovery pass is the sole writer of new stocks rows.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"sectorbrief/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the SQL database connection.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to Postgres using the given DSN.
func Open(cfg model.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return New(db, logger), nil
}

// New wraps an existing connection (used by tests with sqlmock).
func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Migrate applies the embedded schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping tests the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetStocks returns all tracked stock records.
func (s *Store) GetStocks(ctx context.Context) ([]model.Stock, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, name, sector, price, change, change_percent, volume, last_updated
		 FROM stocks ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query stocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stocks []model.Stock
	for rows.Next() {
		var st model.Stock
		if err := rows.Scan(&st.ID, &st.Symbol, &st.Name, &st.Sector,
			&st.Price, &st.Change, &st.ChangePercent, &st.Volume, &st.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		stocks = append(stocks, st)
	}
	return stocks, rows.Err()
}

// CreateStock inserts a newly discovered stock record.
func (s *Store) CreateStock(ctx context.Context, st model.Stock) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stocks (id, symbol, name, sector, price, change, change_percent, volume, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (symbol) DO NOTHING`,
		st.ID, st.Symbol, st.Name, st.Sector,
		st.Price, st.Change, st.ChangePercent, st.Volume, st.LastUpdated)
	if err != nil {
		return fmt.Errorf("insert stock %s: %w", st.Symbol, err)
	}
	return nil
}

// GetDailyNews returns the brief for (date, sector), or nil when none exists.
func (s *Store) GetDailyNews(ctx context.Context, date string, sector model.Sector) (*model.IntelligenceBrief, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, sector, date, title, summary, key_developments, market_impact,
		        conflict_updates, stock_highlights, geopolitical_analysis, sources, created_at
		 FROM daily_news WHERE date = $1 AND sector = $2`,
		date, sector)

	var (
		brief        model.IntelligenceBrief
		briefDate    time.Time
		developments []byte
		conflicts    []byte
		highlights   []byte
		sources      []byte
	)
	err := row.Scan(&brief.ID, &brief.Sector, &briefDate, &brief.Title, &brief.Summary,
		&developments, &brief.MarketImpact, &conflicts, &highlights,
		&brief.GeopoliticalAnalysis, &sources, &brief.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query brief: %w", err)
	}

	brief.Date = briefDate.Format(model.DateLayout)
	if err := json.Unmarshal(developments, &brief.KeyDevelopments); err != nil {
		return nil, fmt.Errorf("decode key_developments: %w", err)
	}
	if err := json.Unmarshal(conflicts, &brief.ConflictUpdates); err != nil {
		return nil, fmt.Errorf("decode conflict_updates: %w", err)
	}
	if err := json.Unmarshal(highlights, &brief.StockHighlights); err != nil {
		return nil, fmt.Errorf("decode stock_highlights: %w", err)
	}
	if err := json.Unmarshal(sources, &brief.Sources); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}
	return &brief, nil
}

// CreateDailyNews inserts a brief.
func (s *Store) CreateDailyNews(ctx context.Context, brief *model.IntelligenceBrief) error {
	developments, err := json.Marshal(brief.KeyDevelopments)
	if err != nil {
		return fmt.Errorf("encode key_developments: %w", err)
	}
	conflicts, err := json.Marshal(brief.ConflictUpdates)
	if err != nil {
		return fmt.Errorf("encode conflict_updates: %w", err)
	}
	highlights, err := json.Marshal(brief.StockHighlights)
	if err != nil {
		return fmt.Errorf("encode stock_highlights: %w", err)
	}
	sources, err := json.Marshal(brief.Sources)
	if err != nil {
		return fmt.Errorf("encode sources: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO daily_news (id, sector, date, title, summary, key_developments,
		        market_impact, conflict_updates, stock_highlights, geopolitical_analysis,
		        sources, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		brief.ID, brief.Sector, brief.Date, brief.Title, brief.Summary, developments,
		brief.MarketImpact, conflicts, highlights, brief.GeopoliticalAnalysis,
		sources, brief.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert brief: %w", err)
	}

	s.logger.Info("brief stored",
		zap.String("sector", string(brief.Sector)),
		zap.String("date", brief.Date))
	return nil
}

// DeleteDailyNews removes any brief for (date, sector). Running it before
// insertion keeps the (date, sector) key unique; a crash between delete and
// insert leaves "no brief", never two.
func (s *Store) DeleteDailyNews(ctx context.Context, date string, sector model.Sector) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM daily_news WHERE date = $1 AND sector = $2`, date, sector)
	if err != nil {
		return fmt.Errorf("delete brief: %w", err)
	}
	return nil
}
