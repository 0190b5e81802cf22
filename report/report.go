// Package report sends failures to sentry.
package report

import (
	"errors"
	"sync/atomic"

	"github.com/getsentry/raven-go"

	"github.com/go-imsto/imwebp/batch"
	zlog "github.com/go-imsto/imwebp/log"
)

var (
	packagePrefixes = []string{"github.com/go-imsto"}

	enabled atomic.Bool
	capture = func(packet *raven.Packet, tags map[string]string) {
		raven.Capture(packet, tags)
	}
)

func logger() zlog.Logger {
	return zlog.Get()
}

// Init sets the sentry dsn, an empty dsn keeps reporting off
func Init(dsn, release string, tags map[string]string) error {
	if dsn == "" {
		enabled.Store(false)
		return nil
	}
	if err := raven.SetDSN(dsn); err != nil {
		return err
	}
	raven.SetRelease(release)
	raven.SetTagsContext(tags)
	enabled.Store(true)
	logger().Debugw("sentry ready", "release", release)
	return nil
}

// Enabled ...
func Enabled() bool {
	return enabled.Load()
}

// Flush waits for pending packets
func Flush() {
	if Enabled() {
		raven.Wait()
	}
}

// Error captures err with tags when reporting is on
func Error(err error, tags map[string]string) {
	if err == nil || !Enabled() {
		return
	}
	packet := raven.NewPacket(err.Error(),
		raven.NewException(err, raven.NewStacktrace(1, 3, packagePrefixes)))

	capture(packet, tags)
}

// Sink forwards failed files of a run
type Sink struct{}

// Report implements batch.Sink
func (Sink) Report(ev batch.Event) {
	if ev.Kind != batch.EventFailed {
		return
	}
	tags := map[string]string{"run": ev.RunID, "file": ev.Name}
	var fe *batch.FileError
	if errors.As(ev.Err, &fe) {
		tags["op"] = fe.Op
	}
	Error(ev.Err, tags)
}
