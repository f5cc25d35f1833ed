package session

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Announcer receives plain feedback strings for vocalization. The engine
// never blocks on delivery; implementations decide whether and when to
// actually speak.
type Announcer interface {
	Announce(text string)
}

// Announcement pacing.
const (
	// minAnnounceGap throttles announcements regardless of content.
	minAnnounceGap = 1500 * time.Millisecond
	// dedupeWindow suppresses an identical message repeated too soon.
	dedupeWindow = 5 * time.Second
)

// LogAnnouncer is the default Announcer: it debounces and deduplicates
// feedback, then writes it to the log instead of a speech engine.
type LogAnnouncer struct {
	log    logrus.FieldLogger
	now    func() time.Time
	mu     sync.Mutex
	last   string
	lastAt time.Time
}

// NewLogAnnouncer creates a LogAnnouncer writing to the given logger.
func NewLogAnnouncer(log logrus.FieldLogger) *LogAnnouncer {
	return &LogAnnouncer{
		log: log,
		now: time.Now,
	}
}

// Announce logs the text unless it arrives too soon after the previous
// announcement or repeats it within the dedupe window.
func (a *LogAnnouncer) Announce(text string) {
	if text == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	since := now.Sub(a.lastAt)
	if !a.lastAt.IsZero() {
		if since < minAnnounceGap {
			return
		}
		if text == a.last && since < dedupeWindow {
			return
		}
	}

	a.last = text
	a.lastAt = now
	a.log.WithField("feedback", text).Info("announce")
}
