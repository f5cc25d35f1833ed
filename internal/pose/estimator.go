package pose

import "gocv.io/x/gocv"

// Estimator defines the interface for body pose estimation implementations.
type Estimator interface {
	// Detect analyzes a video frame and returns the detected body landmarks.
	// Returns nil (and no error) when no person is in the frame.
	Detect(frame *gocv.Mat) (*Frame, error)

	// Close releases any resources held by the estimator.
	Close() error
}

// Config holds configuration options for pose estimation.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ModelComplexity selects the MediaPipe pose model variant (0, 1 or 2).
	// Higher is more accurate and slower.
	ModelComplexity int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		ModelComplexity: 1,
	}
}
