package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/sareefit/internal/body"
)

// Analysis is the stored derivation for a session.
type Analysis struct {
	SessionID string
	body.Analysis
	CreatedAt time.Time
}

// AnalysisRepository stores the anchors, measurements and drape placement
// computed for each session.
type AnalysisRepository struct {
	db *sql.DB
}

// Analyses returns the analysis repository for this store.
func (s *Store) Analyses() *AnalysisRepository {
	return &AnalysisRepository{db: s.db}
}

// Save stores the analysis for a session, replacing any previous one.
func (r *AnalysisRepository) Save(ctx context.Context, sessionID string, a body.Analysis) error {
	anchors, err := json.Marshal(a.Anchors)
	if err != nil {
		return fmt.Errorf("encode anchors: %w", err)
	}
	measurements, err := json.Marshal(a.Measurements)
	if err != nil {
		return fmt.Errorf("encode measurements: %w", err)
	}
	placement, err := json.Marshal(a.Placement)
	if err != nil {
		return fmt.Errorf("encode placement: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO session_analysis (session_id, anchors, measurements, placement, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			anchors = excluded.anchors,
			measurements = excluded.measurements,
			placement = excluded.placement,
			created_at = excluded.created_at`,
		sessionID, string(anchors), string(measurements), string(placement), time.Now(),
	)
	return err
}

// GetBySessionID retrieves the analysis of a session.
func (r *AnalysisRepository) GetBySessionID(ctx context.Context, sessionID string) (*Analysis, error) {
	a := &Analysis{}
	var anchors, measurements, placement string

	err := r.db.QueryRowContext(ctx,
		`SELECT session_id, anchors, measurements, placement, created_at
		 FROM session_analysis WHERE session_id = ?`,
		sessionID,
	).Scan(&a.SessionID, &anchors, &measurements, &placement, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(anchors), &a.Anchors); err != nil {
		return nil, fmt.Errorf("decode anchors: %w", err)
	}
	if err := json.Unmarshal([]byte(measurements), &a.Measurements); err != nil {
		return nil, fmt.Errorf("decode measurements: %w", err)
	}
	if err := json.Unmarshal([]byte(placement), &a.Placement); err != nil {
		return nil, fmt.Errorf("decode placement: %w", err)
	}
	return a, nil
}
