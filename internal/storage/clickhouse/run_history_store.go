package clickhouse

import (
	"context"
	"fmt"

	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/storage"
)

// RunHistoryStore implements storage.RunHistoryStore on the simulation_runs table.
type RunHistoryStore struct {
	conn *Conn
}

// Compile-time interface check.
var _ storage.RunHistoryStore = (*RunHistoryStore)(nil)

// NewRunHistoryStore creates a new RunHistoryStore.
func NewRunHistoryStore(conn *Conn) *RunHistoryStore {
	return &RunHistoryStore{conn: conn}
}

// Record inserts one completed run.
func (s *RunHistoryStore) Record(ctx context.Context, rec models.RunRecord) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO simulation_runs (
			run_id, style, trials, seed, win_rate, risk_reward_ratio, risk_per_trade,
			profit_target, pass_days, trades_per_day, success_rate, max_drawdown,
			average_drawdown, average_days_to_target, duration_ms, created_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		rec.RunID, string(rec.Style), uint32(rec.Trials), rec.Seed,
		rec.WinRate, rec.RiskRewardRatio, rec.RiskPerTrade,
		rec.ProfitTarget, uint16(rec.PassDays), uint16(rec.TradesPerDay),
		rec.SuccessRate, rec.MaxDrawdown, rec.AverageDrawdown, rec.AverageDaysToTarget,
		rec.DurationMs, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *RunHistoryStore) Recent(ctx context.Context, limit int) ([]models.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT run_id, style, trials, seed, win_rate, risk_reward_ratio, risk_per_trade,
			profit_target, pass_days, trades_per_day, success_rate, max_drawdown,
			average_drawdown, average_days_to_target, duration_ms, created_at
		FROM simulation_runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []models.RunRecord
	for rows.Next() {
		var (
			rec                    models.RunRecord
			style                  string
			trials                 uint32
			passDays, tradesPerDay uint16
		)
		if err := rows.Scan(
			&rec.RunID, &style, &trials, &rec.Seed,
			&rec.WinRate, &rec.RiskRewardRatio, &rec.RiskPerTrade,
			&rec.ProfitTarget, &passDays, &tradesPerDay,
			&rec.SuccessRate, &rec.MaxDrawdown, &rec.AverageDrawdown, &rec.AverageDaysToTarget,
			&rec.DurationMs, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Style = models.RiskStyle(style)
		rec.Trials = int(trials)
		rec.PassDays = int(passDays)
		rec.TradesPerDay = int(tradesPerDay)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the connection.
func (s *RunHistoryStore) Close() error {
	return s.conn.Close()
}
