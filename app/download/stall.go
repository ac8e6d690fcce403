package download

import (
	"io"
	"time"
)

// stallWatchdog fires onStall when no data arrives for timeout. It is armed
// before the request is sent, so a server that never answers is caught too.
type stallWatchdog struct {
	timeout time.Duration
	timer   *time.Timer
}

func newStallWatchdog(timeout time.Duration, onStall func()) *stallWatchdog {
	return &stallWatchdog{
		timeout: timeout,
		timer:   time.AfterFunc(timeout, onStall),
	}
}

func (w *stallWatchdog) touch() {
	w.timer.Reset(w.timeout)
}

func (w *stallWatchdog) stop() {
	w.timer.Stop()
}

// watch returns r with every non-empty read counting as activity.
func (w *stallWatchdog) watch(r io.Reader) io.Reader {
	return &stallReader{r: r, watchdog: w}
}

type stallReader struct {
	r        io.Reader
	watchdog *stallWatchdog
}

func (s *stallReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if n > 0 {
		s.watchdog.touch()
	}
	return n, err
}
