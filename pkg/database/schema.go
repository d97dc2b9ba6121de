package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS period_days (
		user_id VARCHAR(64) NOT NULL,
		day     DATE        NOT NULL,
		PRIMARY KEY (user_id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS symptom_logs (
		user_id VARCHAR(64) NOT NULL,
		day     DATE        NOT NULL,
		symptom VARCHAR(32) NOT NULL,
		PRIMARY KEY (user_id, day, symptom)
	)`,
	`CREATE TABLE IF NOT EXISTS cycle_settings (
		user_id               VARCHAR(64) NOT NULL PRIMARY KEY,
		average_cycle_length  INT         NOT NULL,
		average_period_length INT         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS voice_recordings (
		id          CHAR(36)    NOT NULL PRIMARY KEY,
		user_id     VARCHAR(64) NOT NULL,
		recorded_at DATETIME(3) NOT NULL,
		duration_ms BIGINT      NOT NULL,
		stability   DOUBLE      NOT NULL,
		jitter_pct  DOUBLE      NOT NULL,
		is_baseline TINYINT(1)  NOT NULL DEFAULT 0,
		KEY idx_voice_user_time (user_id, recorded_at)
	)`,
	`CREATE TABLE IF NOT EXISTS health_metrics (
		user_id            VARCHAR(64) NOT NULL,
		day                DATE        NOT NULL,
		resting_heart_rate DOUBLE      NULL,
		weight             DOUBLE      NULL,
		source             VARCHAR(16) NOT NULL,
		updated_at         DATETIME(3) NOT NULL,
		PRIMARY KEY (user_id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS risk_profiles (
		user_id    VARCHAR(64) NOT NULL PRIMARY KEY,
		profile    JSON        NOT NULL,
		updated_at DATETIME(3) NOT NULL
	)`,
}

// EnsureSchema creates the tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
