package progress_test

import (
	"errors"
	"testing"

	"go.abhg.dev/jjryu/internal/progress"
	"go.abhg.dev/jjryu/internal/silog/silogtest"
)

// TestLogSink_smoke exercises every Sink method against a real silog
// logger; there is nothing to assert on beyond "it doesn't panic",
// since LogSink's entire job is producing log lines.
func TestLogSink_smoke(t *testing.T) {
	sink := progress.NewLogSink(silogtest.New(t))

	sink.OnPhase(progress.PhasePush, true)
	sink.OnBookmarkPush("feature", nil)
	sink.OnBookmarkPush("feature2", errors.New("boom"))
	sink.OnPhase(progress.PhasePush, false)

	sink.OnPhase(progress.PhaseCreatePRs, true)
	sink.OnPRCreated("feature", 42, "https://example.test/pull/42")
	sink.OnPRUpdated("feature", 42)
	sink.OnPhase(progress.PhaseCreatePRs, false)

	sink.OnError("feature", errors.New("comment failed"))
	sink.OnMessage("dry run: would push 1 bookmark")
}
