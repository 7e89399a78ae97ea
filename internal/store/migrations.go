package store

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS recordings (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		seed INTEGER NOT NULL,
		width REAL NOT NULL,
		height REAL NOT NULL,
		frame_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	// One row per engine frame; data is the JSON-encoded input.
	`CREATE TABLE IF NOT EXISTS recording_frames (
		recording_id TEXT NOT NULL REFERENCES recordings(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		timestamp_ms INTEGER NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (recording_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_recordings_created_at ON recordings(created_at)`,
}

func (s *Store) migrate() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
