package batch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	cimg "github.com/go-imsto/imwebp/image"
)

// Task is one source file with its derived outputs
type Task struct {
	Index       int
	Total       int
	Name        string
	Source      string
	Output      string
	ThumbOutput string
}

// Scan snapshots the supported files of cfg.InputDir, ordered by name.
func Scan(cfg Config) ([]Task, error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	var (
		tasks   []Task
		outputs = make(map[string]string)
	)
	for _, e := range entries {
		if e.IsDir() || !cimg.IsSupported(e.Name()) {
			continue
		}
		src := filepath.Join(cfg.InputDir, e.Name())
		if fi, err := os.Stat(src); err != nil || !fi.Mode().IsRegular() {
			continue
		}

		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		t := Task{
			Name:   e.Name(),
			Source: src,
			Output: filepath.Join(cfg.OutputDir, base+OutputExt),
		}
		if cfg.Thumbnail {
			t.ThumbOutput = filepath.Join(cfg.OutputDir, base+ThumbSuffix+OutputExt)
		}
		// a.jpg and a.png share a.webp, x_thumb.jpg and x.jpg share x_thumb.webp
		for _, out := range []string{t.Output, t.ThumbOutput} {
			if out == "" {
				continue
			}
			if prev, ok := outputs[out]; ok {
				logger().Warnw("output name shared, later file overwrites",
					"name", e.Name(), "prev", prev, "output", filepath.Base(out))
			}
			outputs[out] = e.Name()
		}
		tasks = append(tasks, t)
	}
	for i := range tasks {
		tasks[i].Index = i + 1
		tasks[i].Total = len(tasks)
	}
	return tasks, nil
}

// Result is the outcome of one Task
type Result struct {
	Task      Task
	Mode      cimg.ColorMode
	Resize    cimg.Resized
	Thumb     *cimg.Resized
	InSize    int64
	OutSize   int64
	ThumbSize int64
	Deleted   bool
	Err       error
}

// OK reports whether the task succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// Summary collects the results of a run
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Deleted   int
	InBytes   int64
	OutBytes  int64
	Cancelled bool
	Elapsed   time.Duration
	Results   []Result
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	if r.Err != nil {
		s.Failed++
		return
	}
	s.Succeeded++
	s.InBytes += r.InSize
	s.OutBytes += r.OutSize + r.ThumbSize
	if r.Deleted {
		s.Deleted++
	}
}

// Saved returns the share of bytes saved by successful conversions, in percent
func (s *Summary) Saved() float64 {
	if s.InBytes == 0 {
		return 0
	}
	return float64(s.InBytes-s.OutBytes) * 100.0 / float64(s.InBytes)
}
