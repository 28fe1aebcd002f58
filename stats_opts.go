package mlmdbench

import (
	"io"
	"log/slog"
)

// StatsOption configures a ThreadStats.
type StatsOption func(*ThreadStats)

// StatsWithProgressSink routes progress lines to sink instead of stderr.
func StatsWithProgressSink(sink ProgressSink) StatsOption {
	return func(s *ThreadStats) {
		if sink != nil {
			s.progress = sink
		}
	}
}

// StatsWithReportWriter routes the final report line to w instead of stdout.
func StatsWithReportWriter(w io.Writer) StatsOption {
	return func(s *ThreadStats) {
		if w != nil {
			s.reportWriter = w
		}
	}
}

// StatsWithLogger sets the logger used for diagnostics.
// A nil logger discards all output.
func StatsWithLogger(logger *slog.Logger) StatsOption {
	return func(s *ThreadStats) {
		s.logger = logger
	}
}
