package progress

import "go.abhg.dev/jjryu/internal/silog"

// LogSink is the one non-observable, headless Sink implementation: it
// renders every event as a structured log line through silog, for
// non-interactive (e.g. CI) use.
type LogSink struct {
	log *silog.Logger
}

var _ Sink = (*LogSink)(nil)

// NewLogSink builds a LogSink that logs through log.
func NewLogSink(log *silog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) OnPhase(phase Phase, begin bool) {
	if begin {
		s.log.Debugf("phase %s: starting", phase)
	} else {
		s.log.Debugf("phase %s: done", phase)
	}
}

func (s *LogSink) OnBookmarkPush(bookmark string, err error) {
	if err != nil {
		s.log.Error("push failed", "bookmark", bookmark, "error", err)
		return
	}
	s.log.Info("pushed bookmark", "bookmark", bookmark)
}

func (s *LogSink) OnPRCreated(bookmark string, number int, url string) {
	s.log.Info("created pull request", "bookmark", bookmark, "number", number, "url", url)
}

func (s *LogSink) OnPRUpdated(bookmark string, number int) {
	s.log.Info("updated pull request", "bookmark", bookmark, "number", number)
}

func (s *LogSink) OnError(bookmark string, err error) {
	s.log.Error("non-fatal error", "bookmark", bookmark, "error", err)
}

func (s *LogSink) OnMessage(msg string) {
	s.log.Info(msg)
}
