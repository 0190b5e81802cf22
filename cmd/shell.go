package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/go-imsto/imwebp/batch"
	"github.com/go-imsto/imwebp/config"
	"github.com/go-imsto/imwebp/report"
)

var cmdShell = &Command{
	UsageLine: "shell [-preset FILE]",
	Short:     "ask for the settings and convert interactively",
	Long: `
Prompts for the folder, the max edge, the quality, thumbnails and
deletion of originals, then converts the folder in the background
while progress is printed. Invalid answers are reported and asked again.
`,
}

var (
	shPreset = cmdShell.Flag.String("preset", "", "yaml preset file with the default answers")
)

func init() {
	cmdShell.Run = runShell
}

type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	return &prompter{sc: bufio.NewScanner(r), out: w}
}

// ask returns the trimmed answer or def on an empty line, io.EOF once input ends
func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	if !p.sc.Scan() {
		fmt.Fprintln(p.out)
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	s := strings.TrimSpace(p.sc.Text())
	if s == "" {
		return def, nil
	}
	return s, nil
}

func (p *prompter) confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		s, err := p.ask(label+" ("+hint+")", "")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// askForm collects one round of answers keyed by the batch.Form tags
func (p *prompter) askForm(base batch.Form) (url.Values, error) {
	values := url.Values{}
	questions := []struct{ key, label, def string }{
		{"dir", "Folder", base.Dir},
		{"size", "Max edge (px)", base.MaxEdge},
		{"quality", "Quality (1-100)", base.Quality},
	}
	for _, q := range questions {
		s, err := p.ask(q.label, q.def)
		if err != nil {
			return nil, err
		}
		values.Set(q.key, s)
	}

	thumb, err := p.confirm("Write thumbnails?", base.Thumbnail)
	if err != nil {
		return nil, err
	}
	values.Set("thumb", strconv.FormatBool(thumb))
	if thumb {
		s, err := p.ask("Thumbnail edge (px)", base.ThumbEdge)
		if err != nil {
			return nil, err
		}
		values.Set("thumb_size", s)
	}
	del, err := p.confirm("Delete originals after conversion?", base.DeleteOriginal)
	if err != nil {
		return nil, err
	}
	values.Set("delete", strconv.FormatBool(del))
	return values, nil
}

func runShell(args []string) bool {
	s := settings
	if *shPreset != "" {
		preset, err := config.LoadPreset(*shPreset)
		if err != nil {
			errorf("%s", err)
			return false
		}
		s = s.Apply(preset)
	}
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pr := newPrinter(stdout, s.Color)
	pt := newPrompter(stdin, stdout)
	runner := batch.NewRunner(batch.New(), batch.LogSink{}, report.Sink{})
	base := s.Form(dir)
	for {
		cfg, form, err := pt.askConfig(pr, base)
		if err != nil {
			return errors.Is(err, io.EOF)
		}
		base = form

		sum, err := runShellBatch(ctx, runner, cfg, pr)
		if err != nil {
			pr.Alert("%s", err)
		} else if err = renderSummary(stdout, sum); err != nil {
			logger().Infow("render summary fail", "err", err)
		}
		if ctx.Err() != nil {
			return true
		}

		again, err := pt.confirm("Convert another folder?", false)
		if err != nil || !again {
			return err == nil || errors.Is(err, io.EOF)
		}
	}
}

// askConfig repeats the questions until they form a valid config,
// only a failing input ends it
func (p *prompter) askConfig(pr *printer, base batch.Form) (batch.Config, batch.Form, error) {
	for {
		values, err := p.askForm(base)
		if err != nil {
			return batch.Config{}, base, err
		}
		form, err := bindForm(base, values)
		if err != nil {
			pr.Alert("%s", err)
			continue
		}
		base = form
		cfg, err := batch.ParseConfig(form)
		if err != nil {
			pr.Alert("%s", err)
			continue
		}
		return cfg, form, nil
	}
}

// runShellBatch runs cfg in the background and pumps its events to pr
func runShellBatch(ctx context.Context, runner *batch.Runner, cfg batch.Config, pr *printer) (*batch.Summary, error) {
	cs := batch.NewChanSink()
	run, err := runner.Start(ctx, cfg, cs)
	if err != nil {
		cs.Close()
		return nil, err
	}

	var sum *batch.Summary
	var g errgroup.Group
	g.Go(func() error {
		for ev := range cs.C {
			pr.Report(ev)
		}
		return nil
	})
	g.Go(func() error {
		defer cs.Close()
		var err error
		sum, err = run.Wait()
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	// an empty folder ends with its notice alone
	if sum != nil && sum.Total > 0 {
		pr.Print("done")
	}
	return sum, nil
}
