// Package cli is the factionmap command tree.
//
// Every command shares one [CLI] value: the loaded configuration, a charm
// logger and the persistent flags. Commands that need data build a backend
// (cache, snapshot store, primary source and the fallback chain in front of
// them) and close it when they return.
//
//	factionmap state 1003 --year 1301
//	factionmap layout --year 1300 -o map.json
//	factionmap render --year 1300 --format svg,dot --selected 1003
//	factionmap timeline
//	factionmap --sheet sync
//	factionmap serve --addr :8080
//
// --verbose lowers the log level to debug and routes the pipeline, cache
// and HTTP hooks to the logger.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger on w with centisecond timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command step.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg followed by the elapsed time in parentheses.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
