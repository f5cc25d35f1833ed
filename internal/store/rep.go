package store

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/session"
)

// RepRepository provides storage for counted repetitions.
type RepRepository struct {
	db *sql.DB
}

// Reps returns the rep repository for this store.
func (s *Store) Reps() *RepRepository {
	return &RepRepository{db: s.db}
}

// Insert stores one counted rep payload under the given session.
func (r *RepRepository) Insert(sessionID string, p session.RepPayload) error {
	_, err := r.db.Exec(
		`INSERT INTO session_reps (id, session_id, rep_index, rom_max, rom_target,
			accuracy_score, tempo_score, form_quality, error_segment, timestamp_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), sessionID, p.RepIndex, p.RomMax, p.RomTarget,
		p.AccuracyScore, p.TempoScore, string(p.FormQuality), p.ErrorSegment, p.TimestampMs,
	)
	return err
}

// ListBySession retrieves all reps of a session in rep order.
func (r *RepRepository) ListBySession(sessionID string) ([]session.RepPayload, error) {
	rows, err := r.db.Query(
		`SELECT s.exercise_id, r.rep_index, r.rom_max, r.rom_target,
			r.accuracy_score, r.tempo_score, r.form_quality, r.error_segment, r.timestamp_ms
		 FROM session_reps r JOIN sessions s ON s.id = r.session_id
		 WHERE r.session_id = ? ORDER BY r.rep_index`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []session.RepPayload
	for rows.Next() {
		var p session.RepPayload
		var quality string

		err := rows.Scan(&p.ExerciseID, &p.RepIndex, &p.RomMax, &p.RomTarget,
			&p.AccuracyScore, &p.TempoScore, &quality, &p.ErrorSegment, &p.TimestampMs)
		if err != nil {
			return nil, err
		}

		p.FormQuality = session.FormQuality(quality)
		reps = append(reps, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reps, nil
}
