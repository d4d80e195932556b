package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - tuning overrides and app settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Reactions table - one row per fired reaction
		`CREATE TABLE IF NOT EXISTS reactions (
			id TEXT PRIMARY KEY,
			object_key TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('like', 'save', 'repost')),
			side TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Interactions table - session log for grabs, transforms, scrolls, taps
		`CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			side TEXT NOT NULL DEFAULT '',
			object_key TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_reactions_object_key ON reactions(object_key)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_object_key ON interactions(object_key)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
