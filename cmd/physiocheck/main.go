package main

import (
	"flag"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/app"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/capture"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/config"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/exercise"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/pose"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/server"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/store"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.physiocheck/config.yaml)")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := loadConfig(*configPath, log)

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
		log.WithError(err).Fatal("failed to create data directory")
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize store")
	}
	defer st.Close()

	kind, err := exercise.ParseKind(cfg.Session.Kind)
	if err != nil {
		log.WithError(err).Fatal("invalid exercise kind")
	}
	side, err := exercise.ParseSide(cfg.Session.Side)
	if err != nil {
		log.WithError(err).Fatal("invalid side")
	}
	difficulty, err := exercise.ParseDifficulty(cfg.Session.Difficulty)
	if err != nil {
		log.WithError(err).Fatal("invalid difficulty")
	}

	hub := server.NewHub(log)

	application, err := app.New(app.Config{
		Store:      st,
		Hub:        hub,
		Log:        log,
		PatientID:  cfg.Session.PatientID,
		ExerciseID: cfg.Session.ExerciseID,
		Kind:       kind,
		Side:       side,
		Difficulty: difficulty,
		CameraOpts: capture.Options{
			DeviceID: cfg.Camera.DeviceID,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Camera.IdleFPS,
		},
		PoseConfig: pose.Config{
			MinConfidence:   cfg.Pose.MinConfidence,
			MinTrackingConf: cfg.Pose.MinTrackingConf,
			ModelComplexity: cfg.Pose.ModelComplexity,
		},
		IdleFPS:   cfg.Camera.IdleFPS,
		ActiveFPS: cfg.Camera.ActiveFPS,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build application")
	}

	srv := server.New(server.Config{
		Store:      st,
		Camera:     application.Camera(),
		Hub:        hub,
		Controller: application,
		Log:        log,
	})

	addr := cfg.Server.Addr()
	go func() {
		log.WithField("addr", addr).Info("starting HTTP server")
		if err := srv.ListenAndServe(addr); err != nil {
			log.WithError(err).Fatal("server failed")
		}
	}()

	if err := application.Start(); err != nil {
		log.WithError(err).Fatal("failed to start session")
	}

	t := tray.New()
	t.OnToggle(application.SetDetection)
	t.OnDashboard(func() {
		openBrowser("http://"+addr, log)
	})
	t.OnQuit(application.Stop)

	// Keep the tray rep counter current.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			t.SetRepCount(application.RepCount())
		}
	}()

	t.Run()
}

// loadConfig loads the config file, falling back to defaults plus env
// overrides when no file exists at the default location.
func loadConfig(path string, log *logrus.Logger) *config.Config {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.WithError(err).Fatal("failed to resolve home directory")
		}
		path = filepath.Join(home, ".physiocheck", "config.yaml")
		if _, err := os.Stat(path); err != nil {
			cfg := config.Default()
			config.ApplyEnvOverrides(cfg)
			if err := cfg.Validate(); err != nil {
				log.WithError(err).Fatal("invalid configuration")
			}
			return cfg
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	return cfg
}

func openBrowser(url string, log *logrus.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.WithError(err).WithField("url", url).Warn("failed to open browser")
	}
}
