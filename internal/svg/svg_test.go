package svg

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/figura"
)

func TestRender(t *testing.T) {
	prims := []figura.Primitive{
		{Kind: figura.ShapeCircle, Position: figura.Vec2{X: 10, Y: 20}, Size: figura.Vec2{X: 40, Y: 40}, Scale: 0.5, Color: figura.Black},
		{Kind: figura.ShapeLine, Position: figura.Vec2{X: 100, Y: 50}, Size: figura.Vec2{X: 100, Y: 10}, Rotation: 45, Scale: 1,
			Color: figura.Color{R: 255, A: 0}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, 200, 100, figura.SetColorRGB(255, 255, 255), prims); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`width="200" height="100"`,
		`<rect width="100%" height="100%" fill="rgb(255,255,255)"/>`,
		`<circle cx="10" cy="20" r="10" fill="rgb(0,0,0)"/>`,
		`<rect x="50" y="45" width="100" height="10" transform="rotate(45 100 50)" fill="rgb(255,0,0)" fill-opacity="0"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Fatalf("unterminated document:\n%s", out)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, 1, 1, figura.Black, []figura.Primitive{{Kind: "square"}}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCanvasWritesEveryNthFrame(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, 100, 100, figura.Black, 2)

	for frame := uint64(1); frame <= 5; frame++ {
		c.BeginFrame(frame)
		c.DrawPrimitive(figura.Primitive{Kind: figura.ShapeCircle, Size: figura.Vec2{X: 2, Y: 2}, Scale: 1})
		if err := c.EndFrame(); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
	}

	if c.Written() != 2 {
		t.Fatalf("written = %d, want 2", c.Written())
	}
	for _, name := range []string{"frame_00002.svg", "frame_00004.svg"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if strings.Count(string(b), "<circle") != 1 {
			t.Fatalf("%s: primitives leaked between frames:\n%s", name, b)
		}
	}
}

func TestCanvasDrivenByInterpreter(t *testing.T) {
	p, err := figura.Parse([]byte("circle c;\nmove(c, 100, 0, 100);\n"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	dir := t.TempDir()
	c := New(dir, 800, 600, figura.SetColorRGB(255, 255, 255), 1)
	in := figura.New(c, nil)
	if err := in.Load(p); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := in.AdvanceFrame(100); err != nil {
		t.Fatalf("advance: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "frame_00001.svg"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `<circle cx="500" cy="300" r="20"`) {
		t.Fatalf("unexpected frame:\n%s", b)
	}
}
