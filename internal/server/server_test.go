package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/session"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/store"
)

// fakeController records control calls for assertions.
type fakeController struct {
	status     Status
	difficulty string
	detection  *bool
}

func (f *fakeController) SetDifficulty(d string) error {
	switch d {
	case "easy", "normal", "hard":
		f.difficulty = d
		f.status.Difficulty = d
		return nil
	}
	return fmt.Errorf("unknown difficulty %q", d)
}

func (f *fakeController) SetDetection(enabled bool) {
	f.detection = &enabled
	f.status.Running = enabled
}

func (f *fakeController) Status() Status { return f.status }

func newTestServer(t *testing.T) (*Server, *store.Store, *fakeController) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctrl := &fakeController{status: Status{
		Running:    true,
		Kind:       "squat",
		Side:       "left",
		Difficulty: "normal",
	}}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	srv := New(Config{
		Store:      st,
		Hub:        NewHub(log),
		Controller: ctrl,
		Log:        log,
	})
	return srv, st, ctrl
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestExercises(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/exercises", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, kind := range []string{"squat", "straight_leg_raise", "elbow_flexion"} {
		assert.Contains(t, body, kind)
	}
}

func TestSessionEndpoints(t *testing.T) {
	srv, st, _ := newTestServer(t)

	sess := &store.Session{
		ID:         uuid.NewString(),
		PatientID:  "patient-1",
		ExerciseID: "squat-left",
		Kind:       "squat",
		Side:       "left",
		Difficulty: "normal",
	}
	require.NoError(t, st.Sessions().Create(sess))
	require.NoError(t, st.Reps().Insert(sess.ID, session.RepPayload{
		ExerciseID:    sess.ExerciseID,
		RepIndex:      1,
		RomMax:        85,
		RomTarget:     68,
		AccuracyScore: 94,
		TempoScore:    100,
		FormQuality:   session.FormGood,
		TimestampMs:   1700000000000,
	}))

	t.Run("list sessions", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), sess.ID)
	})

	t.Run("get session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "patient-1")
	})

	t.Run("get missing session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list reps", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/reps", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var reps []session.RepPayload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reps))
		require.Len(t, reps, 1)
		assert.Equal(t, 85, reps[0].RomMax)
		assert.Equal(t, session.FormGood, reps[0].FormQuality)
	})

	t.Run("list reps of missing session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/missing/reps", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSetDifficulty(t *testing.T) {
	srv, _, ctrl := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/difficulty",
		strings.NewReader(`{"difficulty":"hard"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hard", ctrl.difficulty)
	assert.Contains(t, rec.Body.String(), `"difficulty":"hard"`)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/difficulty",
		strings.NewReader(`{"difficulty":"impossible"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/difficulty",
		bytes.NewReader([]byte("not json"))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetDetection(t *testing.T) {
	srv, _, ctrl := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/detection",
		strings.NewReader(`{"enabled":false}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ctrl.detection)
	assert.False(t, *ctrl.detection)
}

func TestStatus(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "squat", status.Kind)
	assert.True(t, status.Running)
}

func TestHubBroadcast(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	hub := NewHub(log)

	ts := httptest.NewServer(hub)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for the server side to register the connection.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, hub.ClientCount())

	hub.Broadcast(map[string]any{"repCount": 3, "phase": "bottom"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.EqualValues(t, 3, msg["repCount"])
	assert.Equal(t, "bottom", msg["phase"])
}
