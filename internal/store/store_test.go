package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/session"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "physiocheck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrationsCreateTables(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"sessions", "session_reps"} {
		var name string
		err := s.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := &Session{
		ID:         uuid.NewString(),
		PatientID:  "patient-7",
		ExerciseID: "ex-squat-01",
		Kind:       "squat",
		Side:       "left",
		Difficulty: "normal",
	}
	require.NoError(t, repo.Create(sess))

	got, err := repo.GetByID(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "patient-7", got.PatientID)
	assert.Equal(t, "squat", got.Kind)
	assert.Zero(t, got.TotalReps)
	assert.Nil(t, got.EndedAt)

	require.NoError(t, repo.End(sess.ID, 12))

	got, err = repo.GetByID(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.TotalReps)
	require.NotNil(t, got.EndedAt)
	assert.False(t, got.EndedAt.Before(got.StartedAt))
}

func TestSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	_, err := repo.GetByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.End("missing", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(&Session{
			ID:         uuid.NewString(),
			PatientID:  "patient-7",
			ExerciseID: "ex-slr-01",
			Kind:       "straight_leg_raise",
			Side:       "right",
			Difficulty: "easy",
		}))
	}

	sessions, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}

func TestRepInsertAndList(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{
		ID:         uuid.NewString(),
		PatientID:  "patient-2",
		ExerciseID: "ex-curl-04",
		Kind:       "elbow_flexion",
		Side:       "left",
		Difficulty: "hard",
	}
	require.NoError(t, s.Sessions().Create(sess))

	reps := s.Reps()
	require.NoError(t, reps.Insert(sess.ID, session.RepPayload{
		ExerciseID:    sess.ExerciseID,
		RepIndex:      1,
		RomMax:        95,
		RomTarget:     80,
		AccuracyScore: 98,
		TempoScore:    100,
		FormQuality:   session.FormGood,
		TimestampMs:   1700000000000,
	}))
	require.NoError(t, reps.Insert(sess.ID, session.RepPayload{
		ExerciseID:    sess.ExerciseID,
		RepIndex:      2,
		RomMax:        60,
		RomTarget:     80,
		AccuracyScore: 64,
		TempoScore:    40,
		FormQuality:   session.FormTooFast,
		ErrorSegment:  "left_elbow",
		TimestampMs:   1700000004000,
	}))

	got, err := reps.ListBySession(sess.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].RepIndex)
	assert.Equal(t, session.FormGood, got[0].FormQuality)
	assert.Empty(t, got[0].ErrorSegment)

	assert.Equal(t, "ex-curl-04", got[1].ExerciseID)
	assert.Equal(t, session.FormTooFast, got[1].FormQuality)
	assert.Equal(t, "left_elbow", got[1].ErrorSegment)
}

func TestRepForeignKeyEnforced(t *testing.T) {
	s := newTestStore(t)

	err := s.Reps().Insert("no-such-session", session.RepPayload{
		ExerciseID:  "ex-squat-01",
		RepIndex:    1,
		FormQuality: session.FormGood,
	})
	assert.Error(t, err)
}
