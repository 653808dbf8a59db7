package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"wine-model-service/internal/config"
	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
)

const predictionLogSchema = `
	CREATE TABLE IF NOT EXISTS prediction_log (
		id               UUID PRIMARY KEY,
		created_at       TIMESTAMPTZ NOT NULL,
		request_id       TEXT NOT NULL DEFAULT '',
		operation        TEXT NOT NULL,
		model_type       TEXT NOT NULL,
		features         JSONB NOT NULL,
		prediction       INTEGER,
		prediction_label TEXT NOT NULL DEFAULT '',
		probabilities    JSONB,
		latency_ms       BIGINT NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_prediction_log_created_at ON prediction_log (created_at);
`

type predictionLogRepo struct {
	pool *pgxpool.Pool
}

// NewPool opens and pings a pgx pool from config.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// NewPredictionLogRepository creates the prediction_log table if needed. The
// repository owns pool and closes it on Close.
func NewPredictionLogRepository(ctx context.Context, pool *pgxpool.Pool) (ports.PredictionLog, error) {
	if _, err := pool.Exec(ctx, predictionLogSchema); err != nil {
		return nil, fmt.Errorf("create prediction_log: %w", err)
	}
	return &predictionLogRepo{pool: pool}, nil
}

func (r *predictionLogRepo) Save(ctx context.Context, rec *domain.PredictionRecord) error {
	args, err := insertArgs(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO prediction_log
			(id, created_at, request_id, operation, model_type, features,
			 prediction, prediction_label, probabilities, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prediction record: %w", err)
	}
	return nil
}

// insertArgs orders rec for the INSERT. Absent prediction and probabilities
// are passed as untyped nil so they are stored as NULL.
func insertArgs(rec *domain.PredictionRecord) ([]any, error) {
	featuresJSON, err := json.Marshal(rec.Features)
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}

	var prediction any
	if rec.Prediction != nil {
		prediction = int32(*rec.Prediction)
	}
	var probabilities any
	if rec.Probabilities != nil {
		b, err := json.Marshal(rec.Probabilities)
		if err != nil {
			return nil, fmt.Errorf("marshal probabilities: %w", err)
		}
		probabilities = b
	}

	return []any{
		rec.ID, rec.CreatedAt, rec.RequestID, string(rec.Operation), rec.ModelType,
		featuresJSON, prediction, rec.Label, probabilities, rec.LatencyMS,
	}, nil
}

func (r *predictionLogRepo) Close() error {
	r.pool.Close()
	return nil
}
