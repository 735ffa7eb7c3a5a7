package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/woozymasta/figura"
)

const (
	historyFile = ".figura_history"
	promptMain  = "figura> "
	promptCont  = "   ...> "
)

const replHelp = `Statements run immediately in the global scope.
  ? <expr>         evaluate and print an expression
  :scene           list drawable entities
  :types           list registered figure types
  :advance <ms>    run one frame of <ms> milliseconds
  :help            show this text
  :quit            leave the shell
`

func cmdRepl(_ []string, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "figura %s, :help for commands\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	cfg, err := loadConfig("")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	sh := newShell(cfg.ParseOptions(), cfg.RunOptions(newLogger(stderr, cfg.Level())))

	for {
		src, ok := readByParseProbe(ln, sh.popt)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if sh.eval(src, stdout, stderr) {
			return 0
		}
	}
}

// readByParseProbe reads lines until they form a complete program, or
// until the parser reports a definite error.
func readByParseProbe(ln *liner.State, popt *figura.ParseOptions) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if incomplete(src, popt) {
			continue
		}
		return src, true
	}
}

// incomplete reports whether src is a valid prefix that needs more input.
func incomplete(src string, popt *figura.ParseOptions) bool {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" || strings.HasPrefix(trimmed, ":") || strings.HasPrefix(trimmed, "?") {
		return false
	}

	_, err := figura.Parse([]byte(src), popt)
	return errors.Is(err, figura.ErrUnexpectedEOF)
}

// shell holds the interpreter state of an interactive session.
type shell struct {
	in   *figura.Interpreter
	popt *figura.ParseOptions
}

func newShell(popt *figura.ParseOptions, ropt *figura.RunOptions) *shell {
	return &shell{in: figura.New(nil, ropt), popt: popt}
}

// eval runs one input and reports whether the session should end.
func (s *shell) eval(src string, stdout, stderr io.Writer) bool {
	src = strings.TrimSpace(src)

	switch {
	case strings.HasPrefix(src, ":"):
		return s.command(src, stdout, stderr)

	case strings.HasPrefix(src, "?"):
		expr, err := figura.ParseExpr(strings.TrimSpace(src[1:]), s.popt)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return false
		}
		v, err := s.in.Eval(expr)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return false
		}
		fmt.Fprintln(stdout, v)

	default:
		prog, err := figura.Parse([]byte(src), s.popt)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return false
		}
		if err := s.in.Load(prog); err != nil {
			fmt.Fprintln(stderr, err)
		}
	}

	return false
}

// command handles a colon command.
func (s *shell) command(src string, stdout, stderr io.Writer) bool {
	fields := strings.Fields(src)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q":
		return true

	case ":help":
		fmt.Fprint(stdout, replHelp)
		fmt.Fprintf(stdout, "Builtin animations: %s\n", strings.Join(figura.Builtins(), " "))

	case ":types":
		fmt.Fprintln(stdout, strings.Join(s.in.Types().Names(), " "))

	case ":scene":
		for _, e := range s.in.Scene() {
			p := e.Position()
			fmt.Fprintf(stdout, "%s at (%g, %g) rotation %g scale %g color %s tweens %d %s\n",
				e, p.X, p.Y, e.Rotation(), e.Scale(), e.FillColor().Hex(), e.ActiveTweens(), shape(e))
		}

	case ":advance":
		if len(fields) != 2 {
			fmt.Fprintln(stderr, "usage: :advance <ms>")
			return false
		}
		ms, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			fmt.Fprintf(stderr, "bad duration %q\n", fields[1])
			return false
		}
		if err := s.in.AdvanceFrame(ms); err != nil {
			fmt.Fprintln(stderr, err)
			return false
		}
		fmt.Fprintf(stdout, "frame %d, %g ms, %d active tweens\n", s.in.Frame(), s.in.Elapsed(), s.in.ActiveTweens())

	default:
		fmt.Fprintf(stderr, "unknown command %s, type :help\n", fields[0])
	}

	return false
}

// shape describes what an entity draws as.
func shape(e figura.Entity) string {
	switch e := e.(type) {
	case *figura.Shape:
		return "[" + string(e.Kind()) + "]"
	case *figura.Composite:
		return "[" + strconv.Itoa(e.Len()) + " children]"
	default:
		return ""
	}
}
