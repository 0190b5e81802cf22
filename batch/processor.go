// Package batch converts the images of a folder into webp files.
package batch

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	cimg "github.com/go-imsto/imwebp/image"
	zlog "github.com/go-imsto/imwebp/log"
	"github.com/go-imsto/imwebp/utils"
)

func logger() zlog.Logger {
	return zlog.Get()
}

// Codec decodes sources and writes encoded outputs
type Codec interface {
	Open(filename string) (image.Image, *cimg.Attr, error)
	Save(filename string, m image.Image, wopt cimg.WriteOption) (int, error)
}

type webpCodec struct{}

func (webpCodec) Open(filename string) (image.Image, *cimg.Attr, error) {
	return cimg.Open(filename)
}

func (webpCodec) Save(filename string, m image.Image, wopt cimg.WriteOption) (int, error) {
	return cimg.SaveWebP(filename, m, wopt)
}

// Option ...
type Option func(*Processor)

// WithCodec replaces the image codec
func WithCodec(c Codec) Option {
	return func(p *Processor) {
		if c != nil {
			p.codec = c
		}
	}
}

// Processor runs one batch at a time over a folder
type Processor struct {
	codec Codec
}

// New ...
func New(opts ...Option) *Processor {
	p := &Processor{codec: webpCodec{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run converts every supported file of cfg.InputDir in name order.
// Only a bad config or a failing output folder or listing returns an error;
// a failing file is reported to sink and the run continues.
func (p *Processor) Run(ctx context.Context, cfg Config, sink Sink) (*Summary, error) {
	return p.run(ctx, "", cfg, sink)
}

// run is Run with the summary bound to a run id before any event goes out
func (p *Processor) run(ctx context.Context, id string, cfg Config, sink Sink) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = nopSink
	}
	started := time.Now()

	created := !utils.IsDir(cfg.OutputDir)
	if err := os.MkdirAll(cfg.OutputDir, os.FileMode(0755)); err != nil {
		return nil, &SetupError{Op: "create output folder", Path: cfg.OutputDir, Err: err}
	}
	tasks, err := Scan(cfg)
	if err != nil {
		return nil, &SetupError{Op: "list folder", Path: cfg.InputDir, Err: err}
	}

	sum := &Summary{RunID: id, Total: len(tasks)}
	if len(tasks) == 0 {
		if created && utils.IsEmptyDir(cfg.OutputDir) {
			_ = os.Remove(cfg.OutputDir)
		}
		sink.Report(Event{Kind: EventEmpty})
		return sum, nil
	}

	logger().Infow("batch start", "dir", cfg.InputDir, "files", len(tasks),
		"maxEdge", cfg.MaxEdge, "quality", cfg.Quality, "thumb", cfg.Thumbnail, "delete", cfg.DeleteOriginal)
	sink.Report(Event{Kind: EventStart, Total: len(tasks)})

	for _, task := range tasks {
		if ctx.Err() != nil {
			sum.Cancelled = true
			break
		}
		res := p.convert(cfg, task)
		if res.Err != nil {
			sum.add(res)
			sink.Report(newTaskEvent(EventFailed, &res))
			continue
		}
		sink.Report(newTaskEvent(EventDone, &res))

		if cfg.DeleteOriginal {
			if err := removeSource(task); err != nil {
				res.Err = &FileError{Name: task.Name, Op: "delete", Err: err}
				sink.Report(newTaskEvent(EventFailed, &res))
			} else {
				res.Deleted = true
				sink.Report(newTaskEvent(EventDeleted, &res))
			}
		}
		sum.add(res)
	}

	sum.Elapsed = time.Since(started)
	sink.Report(Event{Kind: EventSummary, Total: sum.Total, Summary: sum})
	sink.Report(Event{Kind: EventFinished, Total: sum.Total, Summary: sum})
	return sum, nil
}

// convert decodes, normalizes, resizes and writes one task
func (p *Processor) convert(cfg Config, task Task) (res Result) {
	res.Task = task
	op := "decode"
	defer func() {
		if r := recover(); r != nil {
			res.Err = &FileError{Name: task.Name, Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	m, attr, err := p.codec.Open(task.Source)
	if err != nil {
		res.Err = &FileError{Name: task.Name, Op: op, Err: err}
		return
	}
	res.InSize = int64(attr.Size)
	res.Mode = attr.Mode

	op = "resize"
	src := cimg.Normalize(m, attr.Mode).NRGBA
	wopt := cfg.WriteOption()
	main, rs, err := cimg.ThumbnailImage(src, cimg.ThumbOption{MaxEdge: cfg.MaxEdge, WriteOption: wopt})
	if err != nil {
		res.Err = &FileError{Name: task.Name, Op: op, Err: err}
		return
	}
	res.Resize = rs

	op = "write"
	size, err := p.codec.Save(task.Output, main, wopt)
	if err != nil {
		res.Err = &FileError{Name: task.Name, Op: op, Err: err}
		return
	}
	res.OutSize = int64(size)

	if task.ThumbOutput == "" {
		return
	}
	// from the normalized original, not from main
	op = "thumbnail"
	thumb, tr, err := cimg.ThumbnailImage(src, cimg.ThumbOption{MaxEdge: cfg.ThumbEdge, WriteOption: wopt})
	if err != nil {
		res.Err = &FileError{Name: task.Name, Op: op, Err: err}
		return
	}
	res.Thumb = &tr
	if size, err = p.codec.Save(task.ThumbOutput, thumb, wopt); err != nil {
		res.Err = &FileError{Name: task.Name, Op: op, Err: err}
		return
	}
	res.ThumbSize = int64(size)
	return
}

// removeSource deletes the source only when its outputs are on disk
func removeSource(task Task) error {
	if !utils.IsRegular(task.Output) {
		return fmt.Errorf("output %s missing, original kept", task.Output)
	}
	if task.ThumbOutput != "" && !utils.IsRegular(task.ThumbOutput) {
		return fmt.Errorf("thumbnail %s missing, original kept", task.ThumbOutput)
	}
	return os.Remove(task.Source)
}
