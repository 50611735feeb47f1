// Package cli implements the diaconv command-line interface.
//
// Commands:
//   - convert: .dia and .shape files to flat ODG (.fodg), plus graph exports
//   - detect: report whether files hold diagrams or shape templates
//   - graph: render a saved connectivity graph as DOT, SVG or PNG
//   - shapes: list, preview and browse the shape template library
//   - serve: the HTTP conversion service
//   - cache, config: housekeeping
//
// Human output goes to stdout through lipgloss styles. Logs go to stderr;
// --verbose lowers the level to debug and routes pipeline and cache
// events there too.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch suffixes log lines with the time since it was started, as
// in "Converted 12 files (1.234s)".
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

func (s stopwatch) elapsed() time.Duration {
	return time.Since(s.start).Round(time.Millisecond)
}

func (s stopwatch) info(format string, args ...any) {
	s.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), s.elapsed())
}

func (s stopwatch) debug(format string, args ...any) {
	s.logger.Debugf("%s (%s)", fmt.Sprintf(format, args...), s.elapsed())
}
