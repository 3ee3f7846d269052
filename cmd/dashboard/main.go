package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/social-dashboard/internal/config"
	"github.com/jrsteele09/social-dashboard/internal/logging"
	"github.com/mattn/go-isatty"
)

const usage = `Usage: dashboard [flags] <command>

Commands:
  dashboard   totals and recent posts (default)
  posts       list all posts
  platforms   platform connection status (-query "status=error&message=...")
  connect     connect Instagram and wait for the redirect back
  create      create a post (-content, -goal, -platforms)
  watch       re-render the dashboard every -interval
  logout      clear stored credentials

Flags:
`

type cliFlags struct {
	query     string
	content   string
	goal      string
	platforms string
	interval  time.Duration
	noBanner  bool
	noColour  bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	var f cliFlags
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&f.query, "query", "", "redirect query for the platforms view")
	fs.StringVar(&f.content, "content", "", "post content for create")
	fs.StringVar(&f.goal, "goal", "promotion", "post goal for create: promotion|announcement|hiring")
	fs.StringVar(&f.platforms, "platforms", "instagram", "comma separated target platforms for create")
	fs.DurationVar(&f.interval, "interval", 30*time.Second, "refresh interval for watch")
	fs.BoolVar(&f.noBanner, "no-banner", false, "do not print the banner")
	fs.BoolVar(&f.noColour, "no-colour", false, "disable coloured output")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	command := "dashboard"
	if fs.NArg() > 0 {
		command = fs.Arg(0)
	}

	c := config.New()
	logger := logging.New(os.Stderr, c.GetEnv(), c.GetLogLevel())
	if !f.noBanner && command != "logout" {
		displayAppname(c.GetAppName())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	colour := !f.noColour && isatty.IsTerminal(os.Stdout.Fd())
	return runCommand(ctx, c, logger, os.Stdout, colour, command, f)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
