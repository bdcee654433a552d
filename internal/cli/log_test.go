package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		debug bool
		info  bool
	}{
		{log.DebugLevel, true, true},
		{log.InfoLevel, false, true},
		{log.WarnLevel, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)

			l.Debug("layout pass", "year", 1300)
			if got := strings.Contains(buf.String(), "layout pass"); got != tt.debug {
				t.Errorf("debug logged = %v, want %v", got, tt.debug)
			}
			l.Info("synced", "families", 3)
			if got := strings.Contains(buf.String(), "families=3"); got != tt.info {
				t.Errorf("info logged = %v, want %v", got, tt.info)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.start = time.Now().Add(-1500 * time.Millisecond)
	p.done("Synced 3 families")

	out := buf.String()
	if !strings.Contains(out, "Synced 3 families (1.5") {
		t.Errorf("progress line = %q", out)
	}

	quiet := newProgress(newLogger(io.Discard, log.InfoLevel))
	quiet.done("nothing to see")
}
