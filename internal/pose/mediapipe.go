package pose

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// MediaPipeEstimator implements Estimator using a Python MediaPipe Pose
// subprocess. Frames go out as length-prefixed JPEG, landmarks come back
// as one JSON line per frame.
type MediaPipeEstimator struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewMediaPipeEstimator creates a new MediaPipe pose estimator.
// The Python process is started lazily on first detection.
func NewMediaPipeEstimator(config Config) (*MediaPipeEstimator, error) {
	scriptPath := findPoseScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("pose_service.py not found")
	}

	return &MediaPipeEstimator{
		config: config,
	}, nil
}

// Detect analyzes a frame and returns the detected body landmarks.
// Returns nil when the model reports no person in the frame.
func (e *MediaPipeEstimator) Detect(frame *gocv.Mat) (*Frame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := e.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := e.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := e.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Pose []jsonLandmark `json:"pose"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	e.lastUsed = time.Now()
	e.resetIdleTimer()

	// No person in frame
	if response.Pose == nil {
		return nil, nil
	}

	result := &Frame{}
	for i := 0; i < NumLandmarks && i < len(response.Pose); i++ {
		p := response.Pose[i]
		result[i] = Landmark{X: p.X, Y: p.Y, Z: p.Z, Visibility: p.Visibility}
	}

	return result, nil
}

// Close shuts down the Python subprocess.
func (e *MediaPipeEstimator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdown()
}

func (e *MediaPipeEstimator) ensureStarted() error {
	if e.started {
		return nil
	}

	scriptPath := findPoseScript()
	if scriptPath == "" {
		return fmt.Errorf("pose_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	e.cmd = exec.Command(pythonPath, scriptPath,
		fmt.Sprintf("--model-complexity=%d", e.config.ModelComplexity),
		fmt.Sprintf("--min-detection-confidence=%g", e.config.MinConfidence),
		fmt.Sprintf("--min-tracking-confidence=%g", e.config.MinTrackingConf),
	)

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	e.cmd.Stderr = os.Stderr

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("start pose service: %w", err)
	}

	e.stdin = stdin
	e.stdout = bufio.NewReader(stdout)
	e.started = true
	e.lastUsed = time.Now()

	return nil
}

func (e *MediaPipeEstimator) shutdown() error {
	if !e.started {
		return nil
	}

	if e.idleTimer != nil {
		e.idleTimer.Stop()
		e.idleTimer = nil
	}

	if e.stdin != nil {
		e.stdin.Close()
	}

	err := e.cmd.Wait()
	e.started = false
	e.cmd = nil
	e.stdin = nil
	e.stdout = nil

	return err
}

func (e *MediaPipeEstimator) resetIdleTimer() {
	if e.idleTimer != nil {
		e.idleTimer.Stop()
	}
	e.idleTimer = time.AfterFunc(30*time.Second, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.shutdown()
	})
}

func findPoseScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/pose_service.py",
		"../scripts/pose_service.py",
		filepath.Join(execDir, "scripts/pose_service.py"),
		filepath.Join(os.Getenv("HOME"), ".physiocheck/scripts/pose_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".physiocheck/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonLandmark represents one landmark in the JSON structure from the
// Python service.
type jsonLandmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}
