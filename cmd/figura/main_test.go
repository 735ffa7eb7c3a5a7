package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/figura"
)

func testdataPath(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := runCmd(t, "paint")
	if code != 2 || !strings.Contains(stderr, `unknown command "paint"`) {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	if code, _, _ := runCmd(t); code != 2 {
		t.Fatalf("expected usage error without arguments")
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCmd(t, "version")
	if code != 0 || strings.TrimSpace(stdout) != version {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}
}

func TestRunWritesFrames(t *testing.T) {
	out := t.TempDir()
	code, stdout, stderr := runCmd(t, "run", "-frames", "3", "-out", out, testdataPath("scene.fig"))
	if code != 0 {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "3 frames, 3 written") {
		t.Fatalf("unexpected stdout %q", stdout)
	}

	files, err := filepath.Glob(filepath.Join(out, "frame_*.svg"))
	if err != nil || len(files) != 3 {
		t.Fatalf("frames on disk: %v, %v", files, err)
	}
}

func TestRunWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "figura.yaml")
	cfg := "frames: 4\noutput: {dir: " + filepath.Join(dir, "out") + ", every: 2}\nparse: {comments: true}\nlog: {level: error}\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	code, stdout, stderr := runCmd(t, "run", "-config", cfgPath, testdataPath("comments.fig"))
	if code != 0 {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "4 frames, 2 written") {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestRunReportsSyntaxError(t *testing.T) {
	code, _, stderr := runCmd(t, "run", "-frames", "1", testdataPath("broken.fig"))
	if code != 1 || !strings.Contains(stderr, "line 3") {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
}

func TestTokens(t *testing.T) {
	code, stdout, stderr := runCmd(t, "tokens", testdataPath("basic.fig"))
	if code != 0 {
		t.Fatalf("code=%d stderr=%s", code, stderr)
	}

	var toks []map[string]any
	if err := json.Unmarshal([]byte(stdout), &toks); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	if len(toks) == 0 || toks[0]["lit"] != "figure" {
		t.Fatalf("unexpected tokens: %v", toks)
	}
}

func TestAST(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		code, stdout, stderr := runCmd(t, "ast", "-format", format, testdataPath("basic.fig"))
		if code != 0 {
			t.Fatalf("%s: code=%d stderr=%s", format, code, stderr)
		}
		if !strings.Contains(stdout, "grow") {
			t.Fatalf("%s: output lacks animation name:\n%s", format, stdout)
		}
	}

	if code, _, _ := runCmd(t, "ast", "-format", "xml", testdataPath("basic.fig")); code != 2 {
		t.Fatalf("expected usage error for unknown format")
	}
}

func TestFmt(t *testing.T) {
	code, stdout, _ := runCmd(t, "fmt", "-check", testdataPath("basic.fig"))
	if code != 0 || stdout != "" {
		t.Fatalf("basic.fig is canonical: code=%d stdout=%q", code, stdout)
	}

	path := filepath.Join(t.TempDir(), "messy.fig")
	if err := os.WriteFile(path, []byte("circle a;if(a.x>1)move(a,1,2,3);"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if code, stdout, _ := runCmd(t, "fmt", "-check", path); code != 1 || strings.TrimSpace(stdout) != path {
		t.Fatalf("check: code=%d stdout=%q", code, stdout)
	}
	if code, _, stderr := runCmd(t, "fmt", "-w", path); code != 0 {
		t.Fatalf("write: code=%d stderr=%s", code, stderr)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "circle a;\nif (a.x > 1) {\n    move(a, 1, 2, 3);\n}\n"
	if string(got) != want {
		t.Fatalf("formatted:\n%s\nwant:\n%s", got, want)
	}
}

func TestVet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.fig")
	if err := os.WriteFile(path, []byte("square s;\nwobble(s);\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	code, stdout, _ := runCmd(t, "vet", "-json", path, testdataPath("broken.fig"))
	if code != 1 {
		t.Fatalf("expected failure, got %d", code)
	}

	var report []fileIssues
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report) != 2 || len(report[0].Issues) != 2 || report[1].Error == "" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report[0].Issues[0].Code != figura.CodeUnknownType || report[0].Issues[1].Code != figura.CodeUnknownAnimation {
		t.Fatalf("unexpected issues: %+v", report[0].Issues)
	}

	if code, stdout, _ := runCmd(t, "vet", testdataPath("scene.fig")); code != 0 {
		t.Fatalf("scene.fig: code=%d stdout=%s", code, stdout)
	}
}

func TestShell(t *testing.T) {
	sh := newShell(nil, nil)
	var stdout, stderr bytes.Buffer

	inputs := []string{
		"circle c;",
		"move(c, 100, 0, 1000);",
		"? c.x + 1",
		":advance 500",
		"? c.x",
		":types",
		":scene",
		":help",
		"undefined.x = 1;",
	}
	for _, in := range inputs {
		if sh.eval(in, &stdout, &stderr) {
			t.Fatalf("%q ended the session", in)
		}
	}
	if !sh.eval(":quit", &stdout, &stderr) {
		t.Fatalf(":quit must end the session")
	}

	out := stdout.String()
	for _, want := range []string{
		"401\n",
		"frame 1, 500 ms, 1 active tweens",
		"450\n",
		"line circle",
		"circle c at (450, 300)",
		"tweens 1 [circle]",
		"Builtin animations: move rotate scale show stain",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if !strings.Contains(stderr.String(), "undefined") {
		t.Fatalf("expected runtime error, got %q", stderr.String())
	}
}

func TestIncomplete(t *testing.T) {
	cases := map[string]bool{
		"figure f {":   true,
		"move(a, 1":    true,
		"circle a;":    false,
		"circle a":     true,
		"circle 1;":    false,
		":scene":       false,
		"? 1 +":        false,
		"if (a.x > 1)": true,
	}
	for src, want := range cases {
		if got := incomplete(src, nil); got != want {
			t.Fatalf("incomplete(%q) = %v, want %v", src, got, want)
		}
	}
}
