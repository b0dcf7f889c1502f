package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
)

// SQLiteStore implements TradeStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based trade store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes. Signal, legs and
// results are stored as JSON so the persisted record round-trips the
// full dispatch outcome.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		strategy TEXT NOT NULL,
		symbol TEXT NOT NULL,
		action TEXT NOT NULL,
		signal TEXT NOT NULL,
		legs TEXT NOT NULL,
		results TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_created ON trades(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveTrade inserts a trade record. Records are immutable once written.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.Trade) error {
	signalJSON, err := json.Marshal(trade.Signal)
	if err != nil {
		return fmt.Errorf("encoding signal: %w", err)
	}
	legsJSON, err := json.Marshal(trade.Legs)
	if err != nil {
		return fmt.Errorf("encoding legs: %w", err)
	}
	resultsJSON, err := json.Marshal(trade.Results)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trades (id, strategy, symbol, action, signal, legs, results, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.ID, trade.Strategy, trade.Signal.Symbol, string(trade.Signal.Action),
		string(signalJSON), string(legsJSON), string(resultsJSON),
		string(trade.Status), trade.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting trade: %w", err)
	}
	return nil
}

// GetTrades returns trades matching the filter, newest first.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := `SELECT id, strategy, signal, legs, results, status, created_at FROM trades`
	var conditions []string
	var args []interface{}

	if filter.Symbol != "" {
		conditions = append(conditions, "symbol = ?")
		args = append(args, filter.Symbol)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *trade)
	}
	return trades, rows.Err()
}

// GetTradeByID returns the trade with the given id, or sql.ErrNoRows.
func (s *SQLiteStore) GetTradeByID(ctx context.Context, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, strategy, signal, legs, results, status, created_at
		FROM trades WHERE id = ?`, id)
	return scanTrade(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var trade models.Trade
	var signalJSON, legsJSON, resultsJSON, status string

	if err := row.Scan(&trade.ID, &trade.Strategy, &signalJSON, &legsJSON, &resultsJSON, &status, &trade.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(signalJSON), &trade.Signal); err != nil {
		return nil, fmt.Errorf("decoding signal: %w", err)
	}
	if err := json.Unmarshal([]byte(legsJSON), &trade.Legs); err != nil {
		return nil, fmt.Errorf("decoding legs: %w", err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &trade.Results); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	trade.Status = models.TradeStatus(status)
	return &trade, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
