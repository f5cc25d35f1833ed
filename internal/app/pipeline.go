package app

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/exercise"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/pose"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/session"
)

// liveUpdate is the message pushed to WebSocket clients for every
// processed frame.
type liveUpdate struct {
	exercise.RepOutput
	SessionID       string  `json:"sessionId"`
	TrackingQuality float64 `json:"trackingQuality"`
	FullBodyVisible bool    `json:"fullBodyVisible"`
	TimestampMs     int64   `json:"timestampMs"`
}

// runPipeline is the main loop that reads camera frames and advances the
// repetition detector.
//
// The loop idles at a low frame rate until motion wakes it up, runs pose
// estimation at the active rate while the patient moves, and drops back to
// idle after a quiet period. Every estimated frame flows through the
// conditioner into the detector; counted reps are stored and broadcast.
func (a *App) runPipeline(stopCh chan struct{}) {
	idleInterval := time.Second / time.Duration(a.config.IdleFPS)
	activeInterval := time.Second / time.Duration(a.config.ActiveFPS)

	activeMode := a.config.DisableMotionGate
	lastMotion := time.Now()

	interval := idleInterval
	if activeMode {
		interval = activeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.log.WithError(err).Debug("frame read failed")
				continue
			}

			if !a.config.DisableMotionGate {
				moved, _ := a.motion.Detect(frame)
				if moved {
					lastMotion = time.Now()
					if !activeMode {
						activeMode = true
						a.camera.SetFPS(a.config.ActiveFPS)
						ticker.Reset(activeInterval)
						a.log.Debug("motion detected, switching to active mode")
					}
				} else if activeMode && time.Since(lastMotion) > idleTimeout {
					activeMode = false
					a.camera.SetFPS(a.config.IdleFPS)
					ticker.Reset(idleInterval)
					a.log.Debug("no motion, switching to idle mode")
				}
			}

			if !activeMode {
				frame.Close()
				continue
			}

			raw, err := a.estimator.Detect(frame)
			frame.Close()
			if err != nil {
				a.log.WithError(err).Debug("pose estimation failed")
				continue
			}

			a.processFrame(raw, time.Now().UnixMilli())
		}
	}
}

// processFrame conditions one raw landmark frame, advances the detector
// and fans the result out to storage, the announcer and live clients.
func (a *App) processFrame(raw *pose.Frame, timestampMs int64) {
	conditioned := a.conditioner.Process(raw)

	a.mu.Lock()
	out := a.detector.Update(conditioned, timestampMs)
	a.mu.Unlock()

	if a.config.Hub != nil {
		a.config.Hub.Broadcast(liveUpdate{
			RepOutput:       out,
			SessionID:       a.SessionID(),
			TrackingQuality: a.conditioner.TrackingQuality(),
			FullBodyVisible: a.conditioner.FullBodyVisible(),
			TimestampMs:     timestampMs,
		})
	}

	if a.announcer != nil {
		a.announcer.Announce(out.Feedback)
	}

	if out.LastRep == nil {
		return
	}

	payload := session.MapRep(a.config.ExerciseID, out.RepCount, *out.LastRep, timestampMs)
	if a.config.Store != nil {
		if err := a.config.Store.Reps().Insert(a.SessionID(), payload); err != nil {
			a.log.WithError(err).Error("failed to store rep")
		}
	}

	a.log.WithFields(logrus.Fields{
		"rep":     out.RepCount,
		"romMax":  payload.RomMax,
		"form":    payload.FormQuality,
		"tempo":   payload.TempoScore,
		"quality": payload.AccuracyScore,
	}).Info("rep counted")
}
