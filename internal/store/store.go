package store

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fatigue"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/stability"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS detections (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	session_id    TEXT NOT NULL,
	turn_number   INTEGER NOT NULL,
	category      TEXT NOT NULL,
	confidence    REAL NOT NULL,
	probs_json    TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_detections_user_time
ON detections(user_id, created_at);

CREATE TABLE IF NOT EXISTS transitions (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	session_id    TEXT NOT NULL,
	turn_number   INTEGER NOT NULL,
	from_category TEXT NOT NULL,
	to_category   TEXT NOT NULL,
	type          TEXT NOT NULL,
	severity      TEXT NOT NULL,
	triggers_json TEXT,
	elapsed_ms    INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transitions_user_severity
ON transitions(user_id, severity);

CREATE TABLE IF NOT EXISTS stability_snapshots (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id       TEXT NOT NULL,
	session_id    TEXT NOT NULL,
	turn_number   INTEGER NOT NULL,
	stability     REAL NOT NULL,
	streak_length INTEGER NOT NULL,
	trend         TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS intervention_history (
	user_key              TEXT NOT NULL,
	intervention_type     TEXT NOT NULL,
	dismissal_count       INTEGER NOT NULL DEFAULT 0,
	last_dismissal_at     TEXT,
	user_acted_on_count   INTEGER NOT NULL DEFAULT 0,
	cumulative_exposure_ms INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_key, intervention_type)
);

CREATE TABLE IF NOT EXISTS suppressions (
	user_key          TEXT NOT NULL,
	intervention_type TEXT NOT NULL,
	expires_at        TEXT NOT NULL,
	last_fatigue      REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (user_key, intervention_type)
);
`

// #endregion schema

// #region store-struct

// Store persists detections, transitions, stability snapshots, and
// intervention state in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region record-detection

// RecordDetection appends one per-turn detection.
func (s *Store) RecordDetection(d Detection) error {
	probsJSON, err := json.Marshal(d.Probabilities)
	if err != nil {
		return fmt.Errorf("marshal probabilities: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO detections (id, user_id, session_id, turn_number, category, confidence, probs_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.SessionID, d.TurnNumber, string(d.Category), d.Confidence,
		string(probsJSON), d.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert detection: %w", err)
	}
	return nil
}

// #endregion record-detection

// #region record-transition

// RecordTransition appends one confirmed transition.
func (s *Store) RecordTransition(r TransitionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO transitions (id, user_id, session_id, turn_number, from_category, to_category, type, severity, triggers_json, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.SessionID, r.TurnNumber, string(r.FromCategory), string(r.ToCategory),
		r.Type, r.Severity, nullIfEmpty(r.TriggersJSON), r.SessionElapsedMs,
		r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	return nil
}

// #endregion record-transition

// #region record-snapshot

// RecordStabilitySnapshot appends one per-turn stability view.
func (s *Store) RecordStabilitySnapshot(snap StabilitySnapshot) error {
	_, err := s.db.Exec(
		`INSERT INTO stability_snapshots (user_id, session_id, turn_number, stability, streak_length, trend, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.UserID, snap.SessionID, snap.TurnNumber, snap.Stability, snap.StreakLength,
		string(snap.Trend), snap.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// #endregion record-snapshot

// #region historical-prior

// PriorWindow is how far back HistoricalPrior looks.
const PriorWindow = 30 * 24 * time.Hour

// HistoricalPrior aggregates the user's detections over the prior window
// into a raw per-category distribution weighted by recency and confidence.
// Returns nil when the user has no recent detections; callers fall back to
// the cold-start default.
func (s *Store) HistoricalPrior(userID string, now time.Time) (map[estimator.Category]float64, error) {
	cutoff := now.Add(-PriorWindow)
	rows, err := s.db.Query(
		`SELECT category, confidence, created_at FROM detections
		 WHERE user_id = ? AND created_at >= ?`,
		userID, cutoff.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query prior: %w", err)
	}
	defer rows.Close()

	weights := make(map[estimator.Category]float64)
	found := false
	for rows.Next() {
		var cat string
		var conf float64
		var createdStr string
		if err := rows.Scan(&cat, &conf, &createdStr); err != nil {
			return nil, fmt.Errorf("scan prior row: %w", err)
		}
		created, err := time.Parse(time.RFC3339Nano, createdStr)
		if err != nil {
			continue
		}
		recency := 1 - now.Sub(created).Seconds()/PriorWindow.Seconds()
		if recency < 0.1 {
			recency = 0.1
		}
		weights[estimator.Category(cat)] += conf * recency
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prior rows: %w", err)
	}
	if !found {
		return nil, nil
	}
	return weights, nil
}

// #endregion historical-prior

// #region queries

// TransitionsBySeverity returns the user's most recent transitions at one
// severity, newest first.
func (s *Store) TransitionsBySeverity(userID, severity string, limit int) ([]TransitionRecord, error) {
	return s.queryTransitions(
		`SELECT id, user_id, session_id, turn_number, from_category, to_category, type, severity, triggers_json, elapsed_ms, created_at
		 FROM transitions WHERE user_id = ? AND severity = ?
		 ORDER BY created_at DESC LIMIT ?`,
		userID, severity, limit,
	)
}

// TransitionsBySession returns a session's transitions, newest first.
func (s *Store) TransitionsBySession(userID, sessionID string, limit int) ([]TransitionRecord, error) {
	return s.queryTransitions(
		`SELECT id, user_id, session_id, turn_number, from_category, to_category, type, severity, triggers_json, elapsed_ms, created_at
		 FROM transitions WHERE user_id = ? AND session_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		userID, sessionID, limit,
	)
}

func (s *Store) queryTransitions(query string, args ...interface{}) ([]TransitionRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var out []TransitionRecord
	for rows.Next() {
		var r TransitionRecord
		var from, to string
		var triggers sql.NullString
		var createdStr string
		if err := rows.Scan(&r.ID, &r.UserID, &r.SessionID, &r.TurnNumber, &from, &to,
			&r.Type, &r.Severity, &triggers, &r.SessionElapsedMs, &createdStr); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		r.FromCategory = estimator.Category(from)
		r.ToCategory = estimator.Category(to)
		if triggers.Valid {
			r.TriggersJSON = triggers.String
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SnapshotsBySession returns a session's stability snapshots, newest first.
func (s *Store) SnapshotsBySession(userID, sessionID string, limit int) ([]StabilitySnapshot, error) {
	rows, err := s.db.Query(
		`SELECT user_id, session_id, turn_number, stability, streak_length, trend, created_at
		 FROM stability_snapshots WHERE user_id = ? AND session_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		userID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []StabilitySnapshot
	for rows.Next() {
		var snap StabilitySnapshot
		var trend, createdStr string
		if err := rows.Scan(&snap.UserID, &snap.SessionID, &snap.TurnNumber,
			&snap.Stability, &snap.StreakLength, &trend, &createdStr); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Trend = stability.TrendDirection(trend)
		snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// #endregion queries

// #region intervention-history

// SaveInterventionHistory upserts one intervention history entry.
func (s *Store) SaveInterventionHistory(userKey string, typ fatigue.InterventionType, entry fatigue.Entry) error {
	var lastDismissal interface{}
	if !entry.LastDismissalAt.IsZero() {
		lastDismissal = entry.LastDismissalAt.Format(time.RFC3339Nano)
	}
	_, err := s.db.Exec(
		`INSERT INTO intervention_history (user_key, intervention_type, dismissal_count, last_dismissal_at, user_acted_on_count, cumulative_exposure_ms)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_key, intervention_type) DO UPDATE SET
			dismissal_count = excluded.dismissal_count,
			last_dismissal_at = excluded.last_dismissal_at,
			user_acted_on_count = excluded.user_acted_on_count,
			cumulative_exposure_ms = excluded.cumulative_exposure_ms`,
		userKey, string(typ), entry.DismissalCount, lastDismissal,
		entry.UserActedOnCount, entry.CumulativeExposureMs,
	)
	if err != nil {
		return fmt.Errorf("save intervention history: %w", err)
	}
	return nil
}

// LoadInterventionHistory reads every tracked type for a user key.
func (s *Store) LoadInterventionHistory(userKey string) (fatigue.History, error) {
	rows, err := s.db.Query(
		`SELECT intervention_type, dismissal_count, last_dismissal_at, user_acted_on_count, cumulative_exposure_ms
		 FROM intervention_history WHERE user_key = ?`,
		userKey,
	)
	if err != nil {
		return nil, fmt.Errorf("load intervention history: %w", err)
	}
	defer rows.Close()

	history := make(fatigue.History)
	for rows.Next() {
		var typ string
		var entry fatigue.Entry
		var lastDismissal sql.NullString
		if err := rows.Scan(&typ, &entry.DismissalCount, &lastDismissal,
			&entry.UserActedOnCount, &entry.CumulativeExposureMs); err != nil {
			return nil, fmt.Errorf("scan intervention history: %w", err)
		}
		if lastDismissal.Valid {
			entry.LastDismissalAt, _ = time.Parse(time.RFC3339Nano, lastDismissal.String)
		}
		e := entry
		history[fatigue.InterventionType(typ)] = &e
	}
	return history, rows.Err()
}

// #endregion intervention-history

// #region suppressions

// SaveSuppression upserts one suppression timer.
func (s *Store) SaveSuppression(userKey string, typ fatigue.InterventionType, expiresAt time.Time, lastFatigue float64) error {
	_, err := s.db.Exec(
		`INSERT INTO suppressions (user_key, intervention_type, expires_at, last_fatigue)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_key, intervention_type) DO UPDATE SET
			expires_at = excluded.expires_at,
			last_fatigue = excluded.last_fatigue`,
		userKey, string(typ), expiresAt.Format(time.RFC3339Nano), lastFatigue,
	)
	if err != nil {
		return fmt.Errorf("save suppression: %w", err)
	}
	return nil
}

// ClearSuppression removes a type's suppression timer.
func (s *Store) ClearSuppression(userKey string, typ fatigue.InterventionType) error {
	_, err := s.db.Exec(
		`DELETE FROM suppressions WHERE user_key = ? AND intervention_type = ?`,
		userKey, string(typ),
	)
	if err != nil {
		return fmt.Errorf("clear suppression: %w", err)
	}
	return nil
}

// LoadSuppressions reconstructs a user key's suppression state. Expired
// timers are loaded as-is; lazy expiry treats them as absent on read.
func (s *Store) LoadSuppressions(userKey string) (*fatigue.SuppressionState, error) {
	rows, err := s.db.Query(
		`SELECT intervention_type, expires_at, last_fatigue FROM suppressions WHERE user_key = ?`,
		userKey,
	)
	if err != nil {
		return nil, fmt.Errorf("load suppressions: %w", err)
	}
	defer rows.Close()

	state := fatigue.NewSuppressionState()
	for rows.Next() {
		var typ, expiresStr string
		var lastFatigue float64
		if err := rows.Scan(&typ, &expiresStr, &lastFatigue); err != nil {
			return nil, fmt.Errorf("scan suppression: %w", err)
		}
		expires, err := time.Parse(time.RFC3339Nano, expiresStr)
		if err != nil {
			continue
		}
		state.ExpiresAt[fatigue.InterventionType(typ)] = expires
		state.LastFatigueScore = lastFatigue
	}
	return state, rows.Err()
}

// #endregion suppressions

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
