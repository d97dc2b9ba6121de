package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"cycle-insights/pkg/models"
)

// Repository reads and writes the stores of one user in MySQL.
type Repository struct {
	db      *sql.DB
	userID  string
	Verbose bool
}

func NewRepository(db *sql.DB, userID string) *Repository {
	return &Repository{db: db, userID: userID}
}

// ForUser returns a repository on the same connection pool for another user.
func (r *Repository) ForUser(userID string) *Repository {
	return &Repository{db: r.db, userID: userID, Verbose: r.Verbose}
}

func (r *Repository) debugf(format string, args ...any) {
	if r.Verbose {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func (r *Repository) PeriodLedger(ctx context.Context) (models.LedgerSnapshot, error) {
	snap := models.LedgerSnapshot{Symptoms: map[string][]models.Symptom{}}

	rows, err := r.db.QueryContext(ctx,
		`SELECT DATE_FORMAT(day, '%Y-%m-%d') FROM period_days WHERE user_id = ? ORDER BY day`, r.userID)
	if err != nil {
		return snap, fmt.Errorf("load period days: %w", err)
	}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan period day: %w", err)
		}
		snap.PeriodDays = append(snap.PeriodDays, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT DATE_FORMAT(day, '%Y-%m-%d'), symptom FROM symptom_logs WHERE user_id = ? ORDER BY day, symptom`, r.userID)
	if err != nil {
		return snap, fmt.Errorf("load symptoms: %w", err)
	}
	for rows.Next() {
		var d, s string
		if err := rows.Scan(&d, &s); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan symptom: %w", err)
		}
		tag, err := models.ParseSymptom(s)
		if err != nil {
			r.debugf("skip unknown symptom user=%s day=%s tag=%q", r.userID, d, s)
			continue
		}
		snap.Symptoms[d] = append(snap.Symptoms[d], tag)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, err
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT average_cycle_length, average_period_length FROM cycle_settings WHERE user_id = ?`, r.userID).
		Scan(&snap.AverageCycleLength, &snap.AveragePeriodLength)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("load cycle settings: %w", err)
	}

	r.debugf("ledger user=%s periodDays=%d symptomDays=%d", r.userID, len(snap.PeriodDays), len(snap.Symptoms))
	return snap, nil
}

// SaveLedger replaces the user's period days, symptoms and averages in one transaction.
func (r *Repository) SaveLedger(ctx context.Context, s models.LedgerSnapshot) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM period_days WHERE user_id = ?`, r.userID); err != nil {
			return err
		}
		for _, d := range s.PeriodDays {
			if _, err := tx.ExecContext(ctx, `INSERT INTO period_days (user_id, day) VALUES (?, ?)`, r.userID, d); err != nil {
				return fmt.Errorf("insert period day %s: %w", d, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM symptom_logs WHERE user_id = ?`, r.userID); err != nil {
			return err
		}
		for d, tags := range s.Symptoms {
			for _, tag := range tags {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO symptom_logs (user_id, day, symptom) VALUES (?, ?, ?)`, r.userID, d, string(tag)); err != nil {
					return fmt.Errorf("insert symptom %s/%s: %w", d, tag, err)
				}
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cycle_settings (user_id, average_cycle_length, average_period_length)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE
				average_cycle_length = VALUES(average_cycle_length),
				average_period_length = VALUES(average_period_length)`,
			r.userID, s.AverageCycleLength, s.AveragePeriodLength)
		return err
	})
}

func (r *Repository) Recordings(ctx context.Context) ([]models.VoiceRecording, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, recorded_at, duration_ms, stability, jitter_pct, is_baseline
		FROM voice_recordings
		WHERE user_id = ?
		ORDER BY recorded_at`, r.userID)
	if err != nil {
		return nil, fmt.Errorf("load recordings: %w", err)
	}
	defer rows.Close()

	var out []models.VoiceRecording
	for rows.Next() {
		var rec models.VoiceRecording
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.DurationMs, &rec.Stability, &rec.JitterPct, &rec.IsBaseline); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		rec.Timestamp = rec.Timestamp.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.debugf("recordings user=%s count=%d", r.userID, len(out))
	return out, nil
}

// SaveRecordings replaces the user's recording log.
func (r *Repository) SaveRecordings(ctx context.Context, recs []models.VoiceRecording) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM voice_recordings WHERE user_id = ?`, r.userID); err != nil {
			return err
		}
		for _, rec := range recs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO voice_recordings (id, user_id, recorded_at, duration_ms, stability, jitter_pct, is_baseline)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				rec.ID, r.userID, rec.Timestamp.UTC(), rec.DurationMs, rec.Stability, rec.JitterPct, rec.IsBaseline); err != nil {
				return fmt.Errorf("insert recording %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

func (r *Repository) Metrics(ctx context.Context) (map[string]models.HealthMetric, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DATE_FORMAT(day, '%Y-%m-%d'), resting_heart_rate, weight, source, updated_at
		FROM health_metrics
		WHERE user_id = ?`, r.userID)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	defer rows.Close()

	out := map[string]models.HealthMetric{}
	for rows.Next() {
		var (
			m       models.HealthMetric
			rhr, kg sql.NullFloat64
			source  string
			updated time.Time
		)
		if err := rows.Scan(&m.Date, &rhr, &kg, &source, &updated); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		if rhr.Valid {
			m.RestingHeartRate = &rhr.Float64
		}
		if kg.Valid {
			m.Weight = &kg.Float64
		}
		m.Source = models.MetricSource(source)
		m.Timestamp = updated.UTC()
		out[m.Date] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.debugf("metrics user=%s days=%d", r.userID, len(out))
	return out, nil
}

// SaveMetrics upserts the given days; other days are left untouched.
func (r *Repository) SaveMetrics(ctx context.Context, ms []models.HealthMetric) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, m := range ms {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO health_metrics (user_id, day, resting_heart_rate, weight, source, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON DUPLICATE KEY UPDATE
					resting_heart_rate = VALUES(resting_heart_rate),
					weight = VALUES(weight),
					source = VALUES(source),
					updated_at = VALUES(updated_at)`,
				r.userID, m.Date, nullFloat(m.RestingHeartRate), nullFloat(m.Weight), string(m.Source), m.Timestamp.UTC()); err != nil {
				return fmt.Errorf("upsert metric %s: %w", m.Date, err)
			}
		}
		return nil
	})
}

// Profile returns nil without error when the user has no stored profile.
func (r *Repository) Profile(ctx context.Context) (*models.RiskInputProfile, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT profile FROM risk_profiles WHERE user_id = ?`, r.userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	var p models.RiskInputProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

func (r *Repository) SaveProfile(ctx context.Context, p models.RiskInputProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO risk_profiles (user_id, profile, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE profile = VALUES(profile), updated_at = VALUES(updated_at)`,
		r.userID, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
