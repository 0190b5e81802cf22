// Package cmd The command line tool for running imwebp.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/template"

	"github.com/go-imsto/imwebp/config"
	zlog "github.com/go-imsto/imwebp/log"
	"github.com/go-imsto/imwebp/report"
)

// Command Cribbed from the genius organization of the "go" command.
type Command struct {
	Run                    func(args []string) bool
	UsageLine, Short, Long string
	// Flag is a set of flags specific to this command.
	Flag flag.FlagSet
}

func (cmd *Command) Name() string {
	name := cmd.UsageLine
	i := strings.Index(name, " ")
	if i >= 0 {
		name = name[:i]
	}
	return name
}

func (cmd *Command) Usage() {
	fmt.Fprintf(stderr, "Usage: imwebp %s\n", cmd.UsageLine)
	fmt.Fprintf(stderr, "Default Usage:\n")
	cmd.Flag.SetOutput(stderr)
	cmd.Flag.PrintDefaults()
	fmt.Fprintf(stderr, "Description:\n")
	fmt.Fprintf(stderr, "  %s\n", strings.TrimSpace(cmd.Long))
}

// main
var (
	exitStatus = 0
	exitMu     sync.Mutex

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	settings config.Settings
)

var commands = []*Command{
	cmdConvert,
	cmdShell,
	cmdInfo,
}

func setExitStatus(n int) {
	exitMu.Lock()
	if exitStatus < n {
		exitStatus = n
	}
	exitMu.Unlock()
}

func logger() zlog.Logger {
	return zlog.Get()
}

func Main() {
	flag.Usage = func() { usage(1) }
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 || args[0] == "help" {
		if len(args) == 1 {
			usage(0)
		}
		if len(args) > 1 {
			if args[1] == "env" {
				_ = config.Usage()
				return
			}
			for _, cmd := range commands {
				if cmd.Name() == args[1] {
					tmpl(os.Stdout, helpTemplate, cmd)
					return
				}
			}
		}
		usage(2)
	}

	var err error
	if settings, err = config.Load(); err != nil {
		errorf("load settings: %s", err)
		os.Exit(2)
	}

	zl, flush := zlog.NewZap(settings.Develop)
	atExit(flush)
	zlog.Set(zl)
	logger().Debugw("logger start", "version", config.Version)

	if err = report.Init(settings.SentryDSN, config.Version, map[string]string{"app": "imwebp"}); err != nil {
		logger().Warnw("sentry init fail", "err", err)
	}
	atExit(report.Flush)

	for _, cmd := range commands {
		if cmd.Name() == args[0] && cmd.Run != nil {
			exit(runCommand(cmd, args[1:]))
		}
	}

	errorf("unknown command %q\nRun 'imwebp help' for usage.\n", args[0])
	exit(2)
}

// runCommand parses the flags of cmd and runs it, returning the exit status
func runCommand(cmd *Command, args []string) int {
	cmd.Flag.SetOutput(stderr)
	cmd.Flag.Usage = func() { cmd.Usage() }
	if err := cmd.Flag.Parse(args); err != nil {
		return 2
	}
	if !cmd.Run(cmd.Flag.Args()) {
		setExitStatus(1)
	}
	exitMu.Lock()
	defer exitMu.Unlock()
	return exitStatus
}

func errorf(format string, args ...interface{}) {
	// Ensure the user's command prompt starts on the next line.
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(stderr, format, args...)
}

const usageTemplate = `usage: imwebp command [arguments]

The commands are:
{{range .}}
    {{.Name | printf "%-11s"}} {{.Short}}{{end}}

Use "imwebp help [command]" for more information.
Use "imwebp help env" for the environment settings.
`

var helpTemplate = `usage: imwebp {{.UsageLine}}
{{.Long}}
`

func usage(exitCode int) {
	fmt.Fprintln(os.Stderr, "version ", config.Version)
	tmpl(os.Stderr, usageTemplate, commands)
	os.Exit(exitCode)
}

func tmpl(w io.Writer, text string, data interface{}) {
	t := template.New("top")
	template.Must(t.Parse(text))
	if err := t.Execute(w, data); err != nil {
		panic(err)
	}
}

var atExitFuncs []func()

func atExit(f func()) {
	atExitFuncs = append(atExitFuncs, f)
}

func exit(code int) {
	for _, f := range atExitFuncs {
		f()
	}
	os.Exit(code)
}
