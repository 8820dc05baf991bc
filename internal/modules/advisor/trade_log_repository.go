package advisor

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const tradeLogColumns = "id, symbol, timestamp, sentiment, recommendation, units, mode"

// TradeLogRepository persists advisor decisions. The log is append-only:
// entries are never updated or deleted.
type TradeLogRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTradeLogRepository creates a trade log repository.
func NewTradeLogRepository(db *sql.DB, log zerolog.Logger) *TradeLogRepository {
	return &TradeLogRepository{
		db:  db,
		log: log.With().Str("repo", "trade_log").Logger(),
	}
}

// LogTrade appends one decision to the log.
func (r *TradeLogRepository) LogTrade(entry TradeLogEntry) (int64, error) {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO trade_logs (symbol, timestamp, sentiment, recommendation, units, mode)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Symbol, ts.Unix(), entry.Sentiment, entry.Recommendation, entry.Units, entry.Mode,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to log trade: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get trade log id: %w", err)
	}

	r.log.Debug().
		Int64("id", id).
		Str("symbol", entry.Symbol).
		Float64("units", entry.Units).
		Msg("Trade logged")

	return id, nil
}

// GetTradeLogs returns the most recent entries, newest first.
// limit <= 0 returns all entries.
func (r *TradeLogRepository) GetTradeLogs(limit int) ([]TradeLogEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM trade_logs ORDER BY timestamp DESC, id DESC", tradeLogColumns)
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade logs: %w", err)
	}
	defer rows.Close()

	var entries []TradeLogEntry
	for rows.Next() {
		var e TradeLogEntry
		var ts int64
		if err := rows.Scan(&e.ID, &e.Symbol, &ts, &e.Sentiment, &e.Recommendation, &e.Units, &e.Mode); err != nil {
			return nil, fmt.Errorf("failed to scan trade log: %w", err)
		}
		e.Timestamp = time.Unix(ts, 0).UTC()
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GetTradeLogsBySymbol returns the most recent entries for one symbol.
func (r *TradeLogRepository) GetTradeLogsBySymbol(symbol string, limit int) ([]TradeLogEntry, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM trade_logs WHERE symbol = ? ORDER BY timestamp DESC, id DESC", tradeLogColumns)
	args := []interface{}{symbol}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade logs for %s: %w", symbol, err)
	}
	defer rows.Close()

	var entries []TradeLogEntry
	for rows.Next() {
		var e TradeLogEntry
		var ts int64
		if err := rows.Scan(&e.ID, &e.Symbol, &ts, &e.Sentiment, &e.Recommendation, &e.Units, &e.Mode); err != nil {
			return nil, fmt.Errorf("failed to scan trade log: %w", err)
		}
		e.Timestamp = time.Unix(ts, 0).UTC()
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
