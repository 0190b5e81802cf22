package batch

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cimg "github.com/go-imsto/imwebp/image"
)

func TestEventString(t *testing.T) {
	thumb := cimg.Resized{FromW: 800, FromH: 600, ToW: 300, ToH: 225}
	cases := []struct {
		ev   Event
		want string
	}{
		{Event{Kind: EventStart, Total: 3}, "found 3 images, processing..."},
		{Event{Kind: EventEmpty}, "no supported images found in the folder"},
		{Event{Kind: EventDone, Index: 1, Total: 3, Name: "a.jpg",
			Result: &Result{Resize: cimg.Resized{FromW: 2000, FromH: 1000, ToW: 1600, ToH: 800}}},
			"[1/3] ok a.jpg (2000x1000 -> 1600x800)"},
		{Event{Kind: EventDone, Index: 2, Total: 3, Name: "b.png",
			Result: &Result{Resize: cimg.Resized{FromW: 800, FromH: 600, ToW: 800, ToH: 600}, Thumb: &thumb}},
			"[2/3] ok b.png (unchanged) | thumb (800x600 -> 300x225)"},
		{Event{Kind: EventFailed, Index: 3, Total: 3, Name: "c.jpg",
			Err: &FileError{Name: "c.jpg", Op: "decode", Err: errors.New("bad")}},
			"[3/3] failed: c.jpg, error: decode: bad"},
		{Event{Kind: EventDeleted, Name: "a.jpg"}, "    deleted original: a.jpg"},
		{Event{Kind: EventSummary, Summary: &Summary{Total: 3, Succeeded: 2, Failed: 1, Deleted: 2}},
			"all done: 2 succeeded, 1 failed, 2 deleted"},
		{Event{Kind: EventSummary, Summary: &Summary{Total: 5, Succeeded: 1, Cancelled: true}},
			"all done: 1 succeeded, 0 failed, 0 deleted, 4 skipped (cancelled)"},
		{Event{Kind: EventFinished}, "all images processed"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.ev.String(), c.ev.Kind.String())
	}
	assert.Equal(t, "kind(99)", EventKind(99).String())
}

func TestTaskEventSnapshot(t *testing.T) {
	res := Result{Task: Task{Index: 1, Total: 1, Name: "a.jpg"}}
	ev := newTaskEvent(EventDone, &res)
	res.Deleted = true
	assert.False(t, ev.Result.Deleted)
	assert.Equal(t, "a.jpg", ev.Name)
}

func TestMultiSink(t *testing.T) {
	var a, b []string
	ms := MultiSink{
		MessageSink(func(s string) { a = append(a, s) }),
		nil,
		MessageSink(func(s string) { b = append(b, s) }),
	}
	ms.Report(Event{Kind: EventEmpty})
	ms.Report(Event{Kind: EventFinished})
	assert.Equal(t, []string{"no supported images found in the folder", "all images processed"}, a)
	assert.Equal(t, a, b)
}

func TestChanSinkOrder(t *testing.T) {
	cs := NewChanSink()
	var (
		got []int
		wg  sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range cs.C {
			got = append(got, ev.Index)
		}
	}()
	// the producer never waits on the reader
	for i := 1; i <= 500; i++ {
		cs.Report(Event{Kind: EventDone, Index: i})
	}
	cs.Close()
	cs.Close()
	wg.Wait()

	require.Len(t, got, 500)
	for i, idx := range got {
		assert.Equal(t, i+1, idx)
	}
}

func TestLogSink(t *testing.T) {
	res := &Result{Task: Task{Name: "a.jpg"}}
	assert.NotPanics(t, func() {
		LogSink{}.Report(Event{Kind: EventDone, Name: "a.jpg", Result: res})
		LogSink{}.Report(Event{Kind: EventFailed, Name: "a.jpg", Err: errors.New("x")})
		LogSink{}.Report(Event{Kind: EventSummary, Summary: &Summary{}})
		LogSink{}.Report(Event{Kind: EventStart, Total: 1})
	})
}
