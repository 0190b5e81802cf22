package batch

import (
	"errors"
	"fmt"
	"sync"

	zlog "github.com/go-imsto/imwebp/log"
)

// EventKind ...
type EventKind uint8

const (
	EventStart EventKind = iota + 1
	EventEmpty
	EventDone
	EventFailed
	EventDeleted
	EventSummary
	EventFinished
)

var kindNames = map[EventKind]string{
	EventStart:    "start",
	EventEmpty:    "empty",
	EventDone:     "done",
	EventFailed:   "failed",
	EventDeleted:  "deleted",
	EventSummary:  "summary",
	EventFinished: "finished",
}

func (k EventKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Event is one progress notice of a run
type Event struct {
	Kind    EventKind
	RunID   string
	Index   int
	Total   int
	Name    string
	Result  *Result
	Summary *Summary
	Err     error
}

// newTaskEvent snapshots res, later changes to it stay on the worker side
func newTaskEvent(kind EventKind, res *Result) Event {
	r := *res
	return Event{
		Kind:   kind,
		Index:  res.Task.Index,
		Total:  res.Task.Total,
		Name:   res.Task.Name,
		Result: &r,
		Err:    r.Err,
	}
}

// String renders the human readable progress line
func (e Event) String() string {
	switch e.Kind {
	case EventStart:
		return fmt.Sprintf("found %d images, processing...", e.Total)
	case EventEmpty:
		return "no supported images found in the folder"
	case EventDone:
		s := fmt.Sprintf("[%d/%d] ok %s (%s)", e.Index, e.Total, e.Name, e.Result.Resize)
		if e.Result.Thumb != nil {
			s += fmt.Sprintf(" | thumb (%s)", e.Result.Thumb)
		}
		return s
	case EventFailed:
		return fmt.Sprintf("[%d/%d] failed: %s, error: %s", e.Index, e.Total, e.Name, errText(e.Err))
	case EventDeleted:
		return fmt.Sprintf("    deleted original: %s", e.Name)
	case EventSummary:
		s := e.Summary
		line := fmt.Sprintf("all done: %d succeeded, %d failed, %d deleted", s.Succeeded, s.Failed, s.Deleted)
		if s.Cancelled {
			line += fmt.Sprintf(", %d skipped (cancelled)", s.Total-s.Succeeded-s.Failed)
		}
		return line
	case EventFinished:
		return "all images processed"
	}
	return e.Kind.String()
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	var fe *FileError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return err.Error()
}

// Sink receives the events of a run, always from the worker goroutine
type Sink interface {
	Report(ev Event)
}

// SinkFunc ...
type SinkFunc func(ev Event)

// Report implements Sink
func (f SinkFunc) Report(ev Event) { f(ev) }

// MessageSink adapts a plain string callback
func MessageSink(fn func(msg string)) Sink {
	return SinkFunc(func(ev Event) { fn(ev.String()) })
}

// MultiSink fans every event out in order
type MultiSink []Sink

// Report implements Sink
func (ms MultiSink) Report(ev Event) {
	for _, s := range ms {
		if s != nil {
			s.Report(ev)
		}
	}
}

var nopSink = SinkFunc(func(Event) {})

// LogSink writes every event to the structured logger
type LogSink struct{}

// Report implements Sink
func (LogSink) Report(ev Event) {
	kv := []any{"run", ev.RunID, "kind", ev.Kind.String()}
	if ev.Name != "" {
		kv = append(kv, "name", ev.Name, "index", ev.Index, "total", ev.Total)
	}
	switch ev.Kind {
	case EventFailed:
		zlog.Warnw("convert fail", append(kv, "err", ev.Err)...)
	case EventDone:
		kv = append(kv, "resize", ev.Result.Resize.String(), "in", ev.Result.InSize, "out", ev.Result.OutSize)
		if ev.Result.Thumb != nil {
			kv = append(kv, "thumb", ev.Result.Thumb.String())
		}
		zlog.Debugw("converted", kv...)
	case EventSummary:
		s := ev.Summary
		zlog.Infow("batch done", append(kv, "ok", s.Succeeded, "fail", s.Failed, "deleted", s.Deleted,
			"elapsed", s.Elapsed, "saved", fmt.Sprintf("%0.2f%%", s.Saved()))...)
	default:
		zlog.Debugw(ev.String(), kv...)
	}
}

// ChanSink hands events over to another goroutine without ever blocking the worker.
// Events queue up until read from C; Close flushes the queue and then closes C.
type ChanSink struct {
	C <-chan Event

	in   chan Event
	once sync.Once
}

// NewChanSink ...
func NewChanSink() *ChanSink {
	in := make(chan Event)
	out := make(chan Event)
	go pump(in, out)
	return &ChanSink{C: out, in: in}
}

// Report implements Sink
func (cs *ChanSink) Report(ev Event) {
	cs.in <- ev
}

// Close must be called once the run is over
func (cs *ChanSink) Close() {
	cs.once.Do(func() { close(cs.in) })
}

func pump(in <-chan Event, out chan<- Event) {
	defer close(out)
	var queue []Event
	for in != nil || len(queue) > 0 {
		var (
			send chan<- Event
			next Event
		)
		if len(queue) > 0 {
			send = out
			next = queue[0]
		}
		select {
		case ev, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			queue = append(queue, ev)
		case send <- next:
			queue = queue[1:]
		}
	}
}
