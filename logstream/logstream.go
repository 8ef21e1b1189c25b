// Package logstream is the append-only channel between a running deployment
// and whatever is currently watching it. The broadcaster is created once at
// process start and injected into the pipeline and the HTTP server; it never
// blocks a writer and never drops a line.
package logstream

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// PollInterval is how often a streaming reader wakes to drain the channel.
const PollInterval = 100 * time.Millisecond

// Event is one entry on the stream: a human-readable Line, a Progress
// milestone, or a Terminal outcome.
type Event interface {
	isEvent()
}

// Line is a timestamped log message.
type Line struct {
	Timestamp time.Time
	Message   string
}

// Progress is a cosmetic progress milestone for structured consumers.
type Progress struct {
	Stage   string
	Percent int
}

// Terminal signals that the run has finished, one way or the other.
type Terminal struct {
	Succeeded bool
}

func (Line) isEvent()     {}
func (Progress) isEvent() {}
func (Terminal) isEvent() {}

// String renders a line the way it appears in the browser log pane.
func (l Line) String() string {
	return fmt.Sprintf("[%s] %s", l.Timestamp.Format("2006-01-02 15:04:05"), l.Message)
}

// Broadcaster is an unbounded FIFO queue of events. Appends and drains are
// safe to interleave from different goroutines. Lifecycle is owned by the
// process: created once, never torn down.
type Broadcaster struct {
	mu     sync.Mutex
	events []Event
}

// New returns an empty broadcaster.
func New() *Broadcaster {
	return &Broadcaster{}
}

// Append timestamps the message and queues it. The message is mirrored to
// the server log so a terminal sees what the browser sees.
func (b *Broadcaster) Append(message string) {
	line := Line{Timestamp: time.Now(), Message: message}
	log.Info(message)
	b.push(line)
}

// Appendf is Append with formatting.
func (b *Broadcaster) Appendf(format string, args ...interface{}) {
	b.Append(fmt.Sprintf(format, args...))
}

// Progress queues a progress milestone alongside the log text.
func (b *Broadcaster) Progress(stage string, percent int) {
	b.push(Progress{Stage: stage, Percent: percent})
}

// Finish queues the terminal event and a distinct human-readable marker so
// plain-text consumers can still tell success from failure.
func (b *Broadcaster) Finish(succeeded bool) {
	if succeeded {
		b.Append("✅ Deployment process completed successfully!")
	} else {
		b.Append("❌ Deployment process failed")
	}
	b.push(Terminal{Succeeded: succeeded})
}

// DrainAll removes and returns every queued event in FIFO order. The drain
// is destructive: two concurrent readers split the stream between them. The
// tool assumes a single active viewer.
func (b *Broadcaster) DrainAll() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}

func (b *Broadcaster) push(e Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}
