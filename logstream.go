package mockmcp

import (
	"encoding/json"
	"fmt"
	"iter"
	"sync"
)

// LogStream is a LogHandler implementation that domain servers use to push
// per-tool diagnostics to connected clients. Messages below the configured
// level are dropped at the source, and the stream ends when Close is called.
type LogStream struct {
	name string

	levelMu sync.RWMutex
	level   LogLevel

	logs      chan LogParams
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogStream creates a log stream whose messages carry name as their
// logger field. The initial minimum level is info.
func NewLogStream(name string) *LogStream {
	return &LogStream{
		name:  name,
		level: LogLevelInfo,
		logs:  make(chan LogParams, 10),
		done:  make(chan struct{}),
	}
}

// LogStreams implements the LogHandler interface.
func (l *LogStream) LogStreams() iter.Seq[LogParams] {
	return func(yield func(LogParams) bool) {
		for {
			select {
			case <-l.done:
				return
			case params := <-l.logs:
				if !yield(params) {
					return
				}
			}
		}
	}
}

// SetLogLevel implements the LogHandler interface.
func (l *LogStream) SetLogLevel(level LogLevel) {
	l.levelMu.Lock()
	defer l.levelMu.Unlock()
	l.level = level
}

// Log emits a message at the given level. Messages below the configured
// minimum level are dropped, as are messages that would block after Close.
func (l *LogStream) Log(level LogLevel, msg string) {
	l.levelMu.RLock()
	minLevel := l.level
	l.levelMu.RUnlock()

	if level < minLevel {
		return
	}

	type logData struct {
		Message string `json:"message"`
	}
	dataBs, _ := json.Marshal(logData{Message: msg})

	select {
	case l.logs <- LogParams{
		Level:  level,
		Logger: l.name,
		Data:   dataBs,
	}:
	case <-l.done:
	default:
	}
}

// Logf is Log with fmt.Sprintf formatting.
func (l *LogStream) Logf(level LogLevel, format string, args ...any) {
	l.Log(level, fmt.Sprintf(format, args...))
}

// Close ends the stream. It is safe to call more than once.
func (l *LogStream) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}
