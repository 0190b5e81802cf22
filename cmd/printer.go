package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/go-imsto/imwebp/batch"
	"github.com/go-imsto/imwebp/config"
)

// printer writes progress lines for humans, it is a batch.Sink
type printer struct {
	out io.Writer

	ok, fail, warn, info, dim *color.Color
}

// useColors resolves the COLOR setting against the terminal
func useColors(mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return !color.NoColor
}

func newPrinter(w io.Writer, mode string) *printer {
	on := useColors(mode)
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &printer{
		out:  w,
		ok:   paint(color.FgGreen),
		fail: paint(color.FgRed),
		warn: paint(color.FgYellow),
		info: paint(color.FgCyan),
		dim:  paint(color.Faint),
	}
}

// Report implements batch.Sink
func (p *printer) Report(ev batch.Event) {
	line := ev.String()
	switch ev.Kind {
	case batch.EventDone:
		p.ok.Fprintln(p.out, line)
	case batch.EventFailed:
		p.fail.Fprintln(p.out, line)
	case batch.EventEmpty:
		p.warn.Fprintln(p.out, line)
	case batch.EventDeleted:
		p.dim.Fprintln(p.out, line)
	case batch.EventSummary:
		if ev.Summary.Failed > 0 || ev.Summary.Cancelled {
			p.warn.Fprintln(p.out, line)
		} else {
			p.ok.Fprintln(p.out, line)
		}
	default:
		p.info.Fprintln(p.out, line)
	}
}

// Alert prints a blocking notice, the caller decides what happens next
func (p *printer) Alert(format string, args ...interface{}) {
	p.fail.Fprintf(p.out, "! "+format+"\n", args...)
}

// Print prints a plain line
func (p *printer) Print(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}
