package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session represents one exercise session stored in the database.
type Session struct {
	ID         string
	PatientID  string
	ExerciseID string
	Kind       string
	Side       string
	Difficulty string
	TotalReps  int
	StartedAt  time.Time
	EndedAt    *time.Time
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(sess *Session) error {
	sess.StartedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, patient_id, exercise_id, kind, side, difficulty, total_reps, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.PatientID, sess.ExerciseID, sess.Kind, sess.Side,
		sess.Difficulty, sess.TotalReps, sess.StartedAt,
	)
	return err
}

// End marks a session finished and records its final rep count.
func (r *SessionRepository) End(id string, totalReps int) error {
	now := time.Now()
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, total_reps = ? WHERE id = ?`,
		now, totalReps, id,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, patient_id, exercise_id, kind, side, difficulty, total_reps, started_at, ended_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.PatientID, &sess.ExerciseID, &sess.Kind, &sess.Side,
		&sess.Difficulty, &sess.TotalReps, &sess.StartedAt, &endedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	return sess, nil
}

// List retrieves all sessions, most recent first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, patient_id, exercise_id, kind, side, difficulty, total_reps, started_at, ended_at
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var endedAt sql.NullTime

		err := rows.Scan(&sess.ID, &sess.PatientID, &sess.ExerciseID, &sess.Kind,
			&sess.Side, &sess.Difficulty, &sess.TotalReps, &sess.StartedAt, &endedAt)
		if err != nil {
			return nil, err
		}

		if endedAt.Valid {
			sess.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
