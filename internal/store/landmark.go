package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ayusman/sareefit/internal/pose"
)

// LandmarkRepository stores the detected pose of each session.
type LandmarkRepository struct {
	db *sql.DB
}

// Landmarks returns the landmark repository for this store.
func (s *Store) Landmarks() *LandmarkRepository {
	return &LandmarkRepository{db: s.db}
}

// Save replaces the landmarks stored for a session in a single transaction.
func (r *LandmarkRepository) Save(ctx context.Context, sessionID string, set *pose.LandmarkSet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_landmarks WHERE session_id = ?`, sessionID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO session_landmarks (session_id, landmark_index, x, y, z, visibility) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range set.Points() {
		if _, err := stmt.ExecContext(ctx, sessionID, i, l.X, l.Y, l.Z, l.Visibility); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetBySessionID returns the stored pose of a session, or ErrNotFound when
// none was saved.
func (r *LandmarkRepository) GetBySessionID(ctx context.Context, sessionID string) (*pose.LandmarkSet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT landmark_index, x, y, z, visibility
		 FROM session_landmarks
		 WHERE session_id = ?
		 ORDER BY landmark_index`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	raw := make([]pose.Landmark, 0, pose.NumLandmarks)
	for rows.Next() {
		var idx int
		var l pose.Landmark
		if err := rows.Scan(&idx, &l.X, &l.Y, &l.Z, &l.Visibility); err != nil {
			return nil, err
		}
		if idx != len(raw) {
			return nil, fmt.Errorf("session %s: landmark %d missing", sessionID, len(raw))
		}
		raw = append(raw, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, ErrNotFound
	}

	return pose.NewLandmarkSet(raw)
}
