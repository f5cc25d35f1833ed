// Package app wires the PhysioCheck pipeline together: camera capture,
// pose estimation, landmark conditioning, repetition detection and
// persistence of the resulting session.
package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/capture"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/exercise"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/pose"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/server"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/session"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/store"
)

// Pipeline timing constants.
const (
	// DefaultIdleFPS is the frame rate while no motion is detected.
	DefaultIdleFPS = 5
	// DefaultActiveFPS is the frame rate during active detection.
	DefaultActiveFPS = 15
	// idleTimeout is how long without motion before dropping back to idle.
	idleTimeout = 2 * time.Second
	// defaultMotionThreshold is the percentage of changed pixels that wakes
	// the pipeline up.
	defaultMotionThreshold = 1.0
)

// Config holds the application dependencies and session parameters.
// Camera and Estimator may be injected for testing; when nil, a real
// webcam and the MediaPipe bridge are used.
type Config struct {
	Store     *store.Store
	Camera    capture.Camera
	Estimator pose.Estimator
	Hub       *server.Hub
	Announcer session.Announcer
	Log       logrus.FieldLogger

	PatientID  string
	ExerciseID string
	Kind       exercise.Kind
	Side       exercise.Side
	Difficulty exercise.Difficulty

	CameraOpts      capture.Options
	PoseConfig      pose.Config
	MotionThreshold float64
	IdleFPS         int
	ActiveFPS       int

	// DisableMotionGate runs pose estimation on every frame regardless of
	// motion. Used when driving the pipeline from recorded footage.
	DisableMotionGate bool
}

// App orchestrates one exercise session from camera frames to stored reps.
type App struct {
	config    Config
	camera    capture.Camera
	motion    *capture.MotionDetector
	estimator pose.Estimator

	conditioner *pose.Conditioner
	detector    *exercise.RepDetector

	log       logrus.FieldLogger
	announcer session.Announcer

	mu        sync.RWMutex
	enabled   bool
	sessionID string
	stopCh    chan struct{}
}

// New creates an App for the configured exercise. The detection pipeline
// is not started until Start is called.
func New(config Config) (*App, error) {
	if config.Log == nil {
		config.Log = logrus.StandardLogger()
	}
	if config.MotionThreshold <= 0 {
		config.MotionThreshold = defaultMotionThreshold
	}
	if config.IdleFPS <= 0 {
		config.IdleFPS = DefaultIdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = DefaultActiveFPS
	}

	detector, err := exercise.NewRepDetector(config.Kind, config.Side, config.Difficulty)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:      config,
		camera:      config.Camera,
		motion:      capture.NewMotionDetector(config.MotionThreshold),
		estimator:   config.Estimator,
		conditioner: pose.NewConditioner(),
		detector:    detector,
		log:         config.Log,
		announcer:   config.Announcer,
		enabled:     true,
	}

	if a.camera == nil {
		opts := config.CameraOpts
		opts.FPS = config.IdleFPS
		a.camera = capture.NewCamera(opts)
	}

	if a.estimator == nil {
		pc := config.PoseConfig
		if pc == (pose.Config{}) {
			pc = pose.DefaultConfig()
		}
		if mp, err := pose.NewMediaPipeEstimator(pc); err == nil {
			a.estimator = mp
			a.log.Info("using MediaPipe pose estimation")
		} else {
			a.log.WithError(err).Warn("MediaPipe not available, using mock estimator")
			a.estimator = pose.NewMockEstimator()
		}
	}

	if a.announcer == nil {
		a.announcer = session.NewLogAnnouncer(a.log)
	}

	return a, nil
}

// Start opens the camera, records a new session and begins processing frames.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.IdleFPS)

	a.sessionID = uuid.NewString()
	if a.config.Store != nil {
		err := a.config.Store.Sessions().Create(&store.Session{
			ID:         a.sessionID,
			PatientID:  a.config.PatientID,
			ExerciseID: a.config.ExerciseID,
			Kind:       string(a.config.Kind),
			Side:       string(a.config.Side),
			Difficulty: string(a.config.Difficulty),
		})
		if err != nil {
			a.camera.Close()
			return err
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	a.log.WithFields(logrus.Fields{
		"session":  a.sessionID,
		"exercise": a.config.Kind,
		"side":     a.config.Side,
	}).Info("session started")
	return nil
}

// Stop halts the pipeline, closes the session record and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if a.config.Store != nil && a.sessionID != "" {
		if err := a.config.Store.Sessions().End(a.sessionID, a.detector.RepCount()); err != nil {
			a.log.WithError(err).Error("failed to close session record")
		}
	}

	if err := a.camera.Close(); err != nil {
		a.log.WithError(err).Error("error closing camera")
	}
	a.motion.Close()
	if a.estimator != nil {
		if err := a.estimator.Close(); err != nil {
			a.log.WithError(err).Error("error closing pose estimator")
		}
	}

	a.log.WithField("session", a.sessionID).Info("session stopped")
}

// SetDetection pauses or resumes frame processing without ending the session.
func (a *App) SetDetection(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether detection is currently active.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDifficulty switches the detector threshold set mid-session.
func (a *App) SetDifficulty(difficulty string) error {
	level, err := exercise.ParseDifficulty(difficulty)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector.SetDifficulty(level)
	a.config.Difficulty = level
	a.log.WithField("difficulty", level).Info("difficulty changed")
	return nil
}

// RepCount returns the number of reps counted so far.
func (a *App) RepCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector.RepCount()
}

// SessionID returns the current session identifier, or "" before Start.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// Status reports the session state for the HTTP API.
func (a *App) Status() server.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return server.Status{
		Running:    a.enabled && a.stopCh != nil,
		SessionID:  a.sessionID,
		Kind:       string(a.config.Kind),
		Side:       string(a.config.Side),
		Difficulty: string(a.config.Difficulty),
		RepCount:   a.detector.RepCount(),
	}
}

// Camera returns the camera instance, used by the preview stream.
func (a *App) Camera() capture.Camera {
	return a.camera
}
