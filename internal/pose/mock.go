package pose

import (
	"gocv.io/x/gocv"
)

// MockEstimator is a test implementation of the Estimator interface.
// It allows tests to script the detection results frame by frame.
type MockEstimator struct {
	frames []*Frame
	index  int
	frame  *Frame
	err    error
}

// NewMockEstimator creates a new MockEstimator instance.
func NewMockEstimator() *MockEstimator {
	return &MockEstimator{}
}

// SetFrame sets a single frame that will be returned by every Detect call.
func (m *MockEstimator) SetFrame(f *Frame) {
	m.frame = f
	m.frames = nil
	m.index = 0
}

// SetFrames sets a sequence of frames returned by successive Detect calls.
// After the sequence is exhausted, Detect keeps returning the last entry.
// A nil entry simulates a frame with no person detected.
func (m *MockEstimator) SetFrames(frames []*Frame) {
	m.frames = frames
	m.frame = nil
	m.index = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockEstimator) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured frame or error.
func (m *MockEstimator) Detect(frame *gocv.Mat) (*Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.frames != nil {
		if m.index >= len(m.frames) {
			return m.frames[len(m.frames)-1], nil
		}
		f := m.frames[m.index]
		m.index++
		return f, nil
	}
	return m.frame, nil
}

// Close is a no-op for the mock estimator.
func (m *MockEstimator) Close() error {
	return nil
}
