package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Runner starts runs on a background goroutine, one at a time
type Runner struct {
	proc  *Processor
	sinks []Sink
	sem   *semaphore.Weighted
}

// NewRunner returns a Runner feeding every run's events to sinks as well
func NewRunner(proc *Processor, sinks ...Sink) *Runner {
	if proc == nil {
		proc = New()
	}
	return &Runner{proc: proc, sinks: sinks, sem: semaphore.NewWeighted(1)}
}

// Run is a started batch
type Run struct {
	ID     uuid.UUID
	Config Config

	cancel  context.CancelFunc
	done    chan struct{}
	summary *Summary
	err     error
}

// Start validates cfg and processes it in the background.
// ErrBusy is returned while another run of this Runner is active.
func (r *Runner) Start(ctx context.Context, cfg Config, sink Sink) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !r.sem.TryAcquire(1) {
		return nil, ErrBusy
	}

	ctx, cancel := context.WithCancel(ctx)
	run := &Run{
		ID:     uuid.New(),
		Config: cfg,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	id := run.ID.String()
	sinks := append(MultiSink{sink}, r.sinks...)
	stamp := SinkFunc(func(ev Event) {
		ev.RunID = id
		sinks.Report(ev)
	})

	logger().Infow("run start", "run", id, "dir", cfg.InputDir)
	go func() {
		defer close(run.done)
		defer r.sem.Release(1)
		defer cancel()
		run.summary, run.err = r.proc.run(ctx, id, cfg, stamp)
		if run.err != nil {
			logger().Warnw("run abort", "run", id, "err", run.err)
		}
	}()
	return run, nil
}

// Active reports whether a run is in progress
func (r *Runner) Active() bool {
	if r.sem.TryAcquire(1) {
		r.sem.Release(1)
		return false
	}
	return true
}

// Cancel stops the run before its next file
func (run *Run) Cancel() {
	run.cancel()
}

// Done is closed when the run is over
func (run *Run) Done() <-chan struct{} {
	return run.done
}

// Wait blocks until the run is over
func (run *Run) Wait() (*Summary, error) {
	<-run.done
	return run.summary, run.err
}

// RunSync starts cfg and waits for it, events go to sink
func (r *Runner) RunSync(ctx context.Context, cfg Config, sink Sink) (*Summary, error) {
	run, err := r.Start(ctx, cfg, sink)
	if err != nil {
		return nil, err
	}
	return run.Wait()
}

// Pipe starts cfg with a ChanSink and calls fn for each event on the calling goroutine,
// returning once the run is over and every event was handled.
func (r *Runner) Pipe(ctx context.Context, cfg Config, fn func(Event)) (*Summary, error) {
	cs := NewChanSink()
	run, err := r.Start(ctx, cfg, cs)
	if err != nil {
		cs.Close()
		return nil, err
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-run.Done()
		cs.Close()
	}()
	for ev := range cs.C {
		fn(ev)
	}
	wg.Wait()
	return run.Wait()
}
