package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Try-on sessions, one per analysed photo or landmark submission
		`CREATE TABLE IF NOT EXISTS tryon_sessions (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK(status IN ('pending', 'analyzing', 'completed', 'failed')),
			draping_style TEXT NOT NULL DEFAULT 'nivi'
				CHECK(draping_style IN ('nivi', 'bengali', 'gujarati', 'tamil_nadu', 'kerala', 'maharashtrian', 'modern_lehenga')),
			image_width INTEGER NOT NULL CHECK(image_width > 0),
			image_height INTEGER NOT NULL CHECK(image_height > 0),
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Detected pose, one row per landmark index
		`CREATE TABLE IF NOT EXISTS session_landmarks (
			session_id TEXT NOT NULL REFERENCES tryon_sessions(id) ON DELETE CASCADE,
			landmark_index INTEGER NOT NULL CHECK(landmark_index BETWEEN 0 AND 32),
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			visibility REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, landmark_index)
		)`,

		// Derived anchors, measurements and drape placement as JSON
		`CREATE TABLE IF NOT EXISTS session_analysis (
			session_id TEXT PRIMARY KEY REFERENCES tryon_sessions(id) ON DELETE CASCADE,
			anchors TEXT NOT NULL,
			measurements TEXT NOT NULL,
			placement TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_tryon_sessions_created_at ON tryon_sessions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_tryon_sessions_status ON tryon_sessions(status)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
