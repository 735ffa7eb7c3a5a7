// Command figura runs, formats and checks figura animation programs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/woozymasta/figura"
	"github.com/woozymasta/figura/internal/clock"
	"github.com/woozymasta/figura/internal/config"
	"github.com/woozymasta/figura/internal/svg"
	"gopkg.in/yaml.v3"
)

const appName = "figura"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "run":
		return cmdRun(rest, stdout, stderr)
	case "tokens":
		return cmdTokens(rest, stdout, stderr)
	case "ast":
		return cmdAST(rest, stdout, stderr)
	case "fmt":
		return cmdFmt(rest, stdout, stderr)
	case "vet":
		return cmdVet(rest, stdout, stderr)
	case "repl":
		return cmdRepl(rest, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, version)
		return 0
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n", appName, cmd)
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `figura %s

Usage:
  %s run [-config file] [-frames n] [-out dir] [-realtime] <file.fig>
  %s tokens [-comments] <file.fig>            Print tokens as JSON
  %s ast [-format json|yaml] <file.fig>      Print the syntax tree
  %s fmt [-w] [-check] <file.fig ...>        Format source files
  %s vet [-json] <file.fig ...>              Report static issues
  %s repl                                    Start the interactive shell
  %s version                                 Print the version
`, version, appName, appName, appName, appName, appName, appName, appName)
}

// loadConfig reads an explicit config file, or figura.yaml from the
// working directory when present, or falls back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(config.DefaultPath); err == nil {
		return config.Load(config.DefaultPath)
	}

	return config.Default(), nil
}

// newLogger builds the driver logger on stderr.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "configuration file (default ./figura.yaml when present)")
	frames := fs.Int("frames", -1, "number of frames to run, 0 runs until interrupted (default from config)")
	outDir := fs.String("out", "", "directory for SVG frames (default from config)")
	realtime := fs.Bool("realtime", false, "pace frames to the configured fps using the wall clock")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "usage: %s run [flags] <file.fig>\n", appName)
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	logger := newLogger(stderr, cfg.Level())

	prog, err := figura.DecodeFile(fs.Arg(0), cfg.ParseOptions())
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}
	for _, issue := range figura.Validate(prog, nil) {
		if issue.Level == figura.IssueWarning {
			logger.Warn(issue.Message, "code", issue.Code, "line", issue.Line)
		}
	}

	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	canvas := svg.New(cfg.Output.Dir, cfg.Canvas.Width, cfg.Canvas.Height, cfg.Background(), cfg.Output.Every)

	var clk figura.Clock = &clock.Fixed{Step: cfg.FrameStep()}
	if *realtime {
		clk = clock.NewLimited(cfg.FPS)
	}

	in := figura.New(canvas, cfg.RunOptions(logger))
	if err := in.Load(prog); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = in.Run(ctx, clk, cfg.Frames)
	logger.Info("run finished",
		"frames", in.Frame(), "elapsed_ms", in.Elapsed(),
		"written", canvas.Written(), "active_tweens", in.ActiveTweens())
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}

	fmt.Fprintf(stdout, "%d frames, %d written\n", in.Frame(), canvas.Written())
	return 0
}

// -----------------------------------------------------------------------------
// tokens / ast
// -----------------------------------------------------------------------------

func cmdTokens(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(stderr)
	comments := fs.Bool("comments", false, "accept // line comments")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "usage: %s tokens [-comments] <file.fig>\n", appName)
		return 2
	}

	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	toks, err := figura.Tokenize(src, &figura.ParseOptions{Comments: *comments})
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toks); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	return 0
}

func cmdAST(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "json", "output format: json or yaml")
	comments := fs.Bool("comments", false, "accept // line comments")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "usage: %s ast [-format json|yaml] <file.fig>\n", appName)
		return 2
	}

	prog, err := figura.DecodeFile(fs.Arg(0), &figura.ParseOptions{Comments: *comments})
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(prog)
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		err = enc.Encode(prog)
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	default:
		fmt.Fprintf(stderr, "%s: unknown format %q\n", appName, *format)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	return 0
}

// -----------------------------------------------------------------------------
// fmt
// -----------------------------------------------------------------------------

func cmdFmt(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	write := fs.Bool("w", false, "write result to the source file instead of stdout")
	check := fs.Bool("check", false, "list files whose formatting differs; exit 1 if any")
	comments := fs.Bool("comments", false, "accept // line comments (comments are not preserved)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "usage: %s fmt [-w] [-check] <file.fig ...>\n", appName)
		return 2
	}

	popt := &figura.ParseOptions{Comments: *comments}
	code := 0
	for _, path := range fs.Args() {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		prog, err := figura.Parse(src, popt)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			return 1
		}
		out, err := figura.Format(prog, nil)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			return 1
		}

		switch {
		case *check:
			if string(out) != string(src) {
				fmt.Fprintln(stdout, path)
				code = 1
			}
		case *write:
			if string(out) == string(src) {
				continue
			}
			if err := figura.EncodeFile(path, prog, nil); err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
		default:
			if _, err := stdout.Write(out); err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
		}
	}

	return code
}

// -----------------------------------------------------------------------------
// vet
// -----------------------------------------------------------------------------

// fileIssues groups the issues of one file for JSON output.
type fileIssues struct {
	File   string         `json:"file"`
	Error  string         `json:"error,omitempty"`
	Issues []figura.Issue `json:"issues,omitempty"`
}

func cmdVet(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print issues as JSON")
	comments := fs.Bool("comments", false, "accept // line comments")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "usage: %s vet [-json] <file.fig ...>\n", appName)
		return 2
	}

	popt := &figura.ParseOptions{Comments: *comments}
	code := 0
	report := make([]fileIssues, 0, fs.NArg())
	for _, path := range fs.Args() {
		fi := fileIssues{File: path}
		prog, err := figura.DecodeFile(path, popt)
		if err != nil {
			fi.Error = err.Error()
			code = 1
		} else {
			fi.Issues = figura.Validate(prog, nil)
			if figura.HasErrors(fi.Issues) {
				code = 1
			}
		}
		report = append(report, fi)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return code
	}

	for _, fi := range report {
		if fi.Error != "" {
			fmt.Fprintf(stdout, "%s: %s\n", fi.File, fi.Error)
		}
		for _, issue := range fi.Issues {
			fmt.Fprintf(stdout, "%s: %s\n", fi.File, issue)
		}
	}

	return code
}
