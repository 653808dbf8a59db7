package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
)

const predictionLogSchema = `
	CREATE TABLE IF NOT EXISTS prediction_log (
		id               TEXT PRIMARY KEY,
		created_at       DATETIME NOT NULL,
		request_id       TEXT NOT NULL DEFAULT '',
		operation        TEXT NOT NULL,
		model_type       TEXT NOT NULL,
		features         TEXT NOT NULL,
		prediction       INTEGER,
		prediction_label TEXT NOT NULL DEFAULT '',
		probabilities    TEXT,
		latency_ms       INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_prediction_log_created_at ON prediction_log (created_at);
`

type predictionLogRepo struct {
	db *sql.DB
}

// NewPredictionLogRepository opens the database file at path and creates the
// prediction_log table if needed.
func NewPredictionLogRepository(ctx context.Context, path string) (ports.PredictionLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, predictionLogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create prediction_log: %w", err)
	}
	return &predictionLogRepo{db: db}, nil
}

func (r *predictionLogRepo) Save(ctx context.Context, rec *domain.PredictionRecord) error {
	featuresJSON, err := json.Marshal(rec.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	var probs sql.NullString
	if rec.Probabilities != nil {
		b, err := json.Marshal(rec.Probabilities)
		if err != nil {
			return fmt.Errorf("marshal probabilities: %w", err)
		}
		probs = sql.NullString{String: string(b), Valid: true}
	}
	var prediction sql.NullInt64
	if rec.Prediction != nil {
		prediction = sql.NullInt64{Int64: int64(*rec.Prediction), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO prediction_log
			(id, created_at, request_id, operation, model_type, features,
			 prediction, prediction_label, probabilities, latency_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.RequestID,
		string(rec.Operation), rec.ModelType, string(featuresJSON),
		prediction, rec.Label, probs, rec.LatencyMS,
	)
	if err != nil {
		return fmt.Errorf("insert prediction record: %w", err)
	}
	return nil
}

func (r *predictionLogRepo) Close() error {
	return r.db.Close()
}
