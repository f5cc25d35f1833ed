package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per (patient, exercise, camera) run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			exercise_id TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('squat', 'straight_leg_raise', 'elbow_flexion')),
			side TEXT NOT NULL CHECK(side IN ('left', 'right')),
			difficulty TEXT NOT NULL CHECK(difficulty IN ('easy', 'normal', 'hard')),
			total_reps INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		)`,

		// Session reps table - one row per counted repetition
		`CREATE TABLE IF NOT EXISTS session_reps (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			rep_index INTEGER NOT NULL,
			rom_max INTEGER NOT NULL,
			rom_target INTEGER NOT NULL,
			accuracy_score INTEGER NOT NULL,
			tempo_score INTEGER NOT NULL,
			form_quality TEXT NOT NULL CHECK(form_quality IN ('good', 'too_shallow', 'too_fast', 'compensated')),
			error_segment TEXT NOT NULL DEFAULT '',
			timestamp_ms INTEGER NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_sessions_patient_id ON sessions(patient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_session_reps_session_id ON session_reps(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
