// Package config loads PhysioCheck configuration from a YAML file with
// PHYSIOCHECK_ environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Camera  CameraConfig  `yaml:"camera"`
	Pose    PoseConfig    `yaml:"pose"`
	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CameraConfig struct {
	DeviceID  int `yaml:"device_id"`
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	IdleFPS   int `yaml:"idle_fps"`
	ActiveFPS int `yaml:"active_fps"`
}

type PoseConfig struct {
	MinConfidence   float64 `yaml:"min_confidence"`
	MinTrackingConf float64 `yaml:"min_tracking_conf"`
	ModelComplexity int     `yaml:"model_complexity"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type SessionConfig struct {
	PatientID  string `yaml:"patient_id"`
	ExerciseID string `yaml:"exercise_id"`
	Kind       string `yaml:"kind"`
	Side       string `yaml:"side"`
	Difficulty string `yaml:"difficulty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Addr returns the host:port listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8417},
		Camera: CameraConfig{DeviceID: 0, Width: 1280, Height: 720, IdleFPS: 5, ActiveFPS: 15},
		Pose:   PoseConfig{MinConfidence: 0.5, MinTrackingConf: 0.5, ModelComplexity: 1},
		Store:  StoreConfig{Path: home + "/.physiocheck/physiocheck.db"},
		Session: SessionConfig{
			PatientID:  "default",
			ExerciseID: "squat-left",
			Kind:       "squat",
			Side:       "left",
			Difficulty: "normal",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads config from a YAML file on top of the defaults, then applies
// environment variable overrides. Env vars use the prefix PHYSIOCHECK_ and
// underscore-separated paths:
//
//	PHYSIOCHECK_SERVER_HOST, PHYSIOCHECK_SERVER_PORT,
//	PHYSIOCHECK_CAMERA_DEVICE_ID, PHYSIOCHECK_STORE_PATH,
//	PHYSIOCHECK_SESSION_PATIENT_ID, PHYSIOCHECK_SESSION_KIND,
//	PHYSIOCHECK_SESSION_SIDE, PHYSIOCHECK_SESSION_DIFFICULTY,
//	PHYSIOCHECK_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides replaces config values with PHYSIOCHECK_ env vars when set.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PHYSIOCHECK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PHYSIOCHECK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PHYSIOCHECK_CAMERA_DEVICE_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Camera.DeviceID = id
		}
	}
	if v := os.Getenv("PHYSIOCHECK_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("PHYSIOCHECK_SESSION_PATIENT_ID"); v != "" {
		cfg.Session.PatientID = v
	}
	if v := os.Getenv("PHYSIOCHECK_SESSION_KIND"); v != "" {
		cfg.Session.Kind = v
	}
	if v := os.Getenv("PHYSIOCHECK_SESSION_SIDE"); v != "" {
		cfg.Session.Side = v
	}
	if v := os.Getenv("PHYSIOCHECK_SESSION_DIFFICULTY"); v != "" {
		cfg.Session.Difficulty = v
	}
	if v := os.Getenv("PHYSIOCHECK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks that the configuration can actually run a session.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera.width and camera.height must be positive")
	}
	if c.Camera.IdleFPS <= 0 || c.Camera.ActiveFPS <= 0 {
		return fmt.Errorf("camera frame rates must be positive")
	}
	if c.Camera.ActiveFPS < c.Camera.IdleFPS {
		return fmt.Errorf("camera.active_fps must be at least camera.idle_fps")
	}
	if c.Pose.MinConfidence < 0 || c.Pose.MinConfidence > 1 {
		return fmt.Errorf("pose.min_confidence must be in [0, 1]")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Session.PatientID == "" {
		return fmt.Errorf("session.patient_id is required")
	}
	switch c.Session.Kind {
	case "squat", "straight_leg_raise", "elbow_flexion":
	default:
		return fmt.Errorf("session.kind %q is not a known exercise", c.Session.Kind)
	}
	switch c.Session.Side {
	case "left", "right":
	default:
		return fmt.Errorf("session.side must be left or right")
	}
	switch c.Session.Difficulty {
	case "easy", "normal", "hard":
	default:
		return fmt.Errorf("session.difficulty must be easy, normal or hard")
	}
	return nil
}
