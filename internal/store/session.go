package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// SessionStatus tracks a try-on session through analysis.
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusAnalyzing SessionStatus = "analyzing"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
)

// DrapingStyle is the regional saree draping the user wants to try on.
type DrapingStyle string

const (
	DrapeNivi          DrapingStyle = "nivi"
	DrapeBengali       DrapingStyle = "bengali"
	DrapeGujarati      DrapingStyle = "gujarati"
	DrapeTamilNadu     DrapingStyle = "tamil_nadu"
	DrapeKerala        DrapingStyle = "kerala"
	DrapeMaharashtrian DrapingStyle = "maharashtrian"
	DrapeModernLehenga DrapingStyle = "modern_lehenga"

	DefaultDrapingStyle = DrapeNivi
)

// DrapingStyles lists every supported style.
var DrapingStyles = []DrapingStyle{
	DrapeNivi, DrapeBengali, DrapeGujarati, DrapeTamilNadu,
	DrapeKerala, DrapeMaharashtrian, DrapeModernLehenga,
}

// ParseDrapingStyle returns the style named s. Empty means the default.
func ParseDrapingStyle(s string) (DrapingStyle, error) {
	if s == "" {
		return DefaultDrapingStyle, nil
	}
	for _, d := range DrapingStyles {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown draping style %q", s)
}

// Session is one try-on attempt: a photo or landmark set and its analysis.
type Session struct {
	ID           string
	Status       SessionStatus
	DrapingStyle DrapingStyle
	ImageWidth   int
	ImageHeight  int
	Error        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionRepository provides CRUD operations for try-on sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

const sessionColumns = `id, status, draping_style, image_width, image_height, error, created_at, updated_at`

// Create inserts a new session. An empty status or style takes its default.
func (r *SessionRepository) Create(ctx context.Context, sess *Session) error {
	now := time.Now()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	if sess.Status == "" {
		sess.Status = StatusPending
	}
	if sess.DrapingStyle == "" {
		sess.DrapingStyle = DefaultDrapingStyle
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tryon_sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, string(sess.Status), string(sess.DrapingStyle), sess.ImageWidth, sess.ImageHeight,
		sess.Error, sess.CreatedAt, sess.UpdatedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM tryon_sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List retrieves sessions, newest first. A limit of zero returns all of them.
func (r *SessionRepository) List(ctx context.Context, limit int) ([]*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM tryon_sessions ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// UpdateStatus moves a session to status, recording errMsg for failures.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, status SessionStatus, errMsg string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tryon_sessions SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), errMsg, time.Now(), id,
	)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// Delete removes a session and, by cascade, its landmarks and analysis.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tryon_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var status, style string

	err := row.Scan(&sess.ID, &status, &style, &sess.ImageWidth, &sess.ImageHeight,
		&sess.Error, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}

	sess.Status = SessionStatus(status)
	sess.DrapingStyle = DrapingStyle(style)
	return sess, nil
}

func expectRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
