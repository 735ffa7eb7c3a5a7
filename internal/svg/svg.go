// Package svg renders interpreter frames to SVG files.
package svg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/woozymasta/figura"
)

var _ figura.FrameCanvas = (*Canvas)(nil)

// Canvas collects the primitives of a frame and writes them as one SVG
// document. With an empty directory frames are rendered and discarded.
type Canvas struct {
	dir        string
	width      int
	height     int
	background figura.Color
	every      uint64

	frame   uint64
	prims   []figura.Primitive
	written int
}

// New creates a canvas writing every n-th frame into dir.
func New(dir string, width, height int, background figura.Color, every int) *Canvas {
	if every < 1 {
		every = 1
	}

	return &Canvas{
		dir:        dir,
		width:      width,
		height:     height,
		background: background,
		every:      uint64(every),
	}
}

// Written returns the number of frame files written.
func (c *Canvas) Written() int { return c.written }

// BeginFrame implements figura.FrameCanvas.
func (c *Canvas) BeginFrame(frame uint64) {
	c.frame = frame
	c.prims = c.prims[:0]
}

// DrawPrimitive implements figura.Canvas.
func (c *Canvas) DrawPrimitive(p figura.Primitive) {
	c.prims = append(c.prims, p)
}

// EndFrame writes the frame if it is due.
func (c *Canvas) EndFrame() error {
	if c.dir == "" || c.frame%c.every != 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := Render(&buf, c.width, c.height, c.background, c.prims); err != nil {
		return err
	}

	path := filepath.Join(c.dir, fmt.Sprintf("frame_%05d.svg", c.frame))
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write frame %d: %w", c.frame, err)
	}
	c.written++

	return nil
}

// Render writes one SVG document with the given primitives.
func Render(w io.Writer, width, height int, background figura.Color, prims []figura.Primitive) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(bw, `  <rect width="100%%" height="100%%" %s/>`+"\n", fill(background))

	for _, p := range prims {
		switch p.Kind {
		case figura.ShapeLine:
			l, t := p.Size.X*p.Scale, p.Size.Y*p.Scale
			fmt.Fprintf(bw, `  <rect x="%s" y="%s" width="%s" height="%s" transform="rotate(%s %s %s)" %s/>`+"\n",
				num(p.Position.X-l/2), num(p.Position.Y-t/2), num(l), num(t),
				num(p.Rotation), num(p.Position.X), num(p.Position.Y), fill(p.Color))
		case figura.ShapeCircle:
			fmt.Fprintf(bw, `  <circle cx="%s" cy="%s" r="%s" %s/>`+"\n",
				num(p.Position.X), num(p.Position.Y), num(p.Size.X/2*p.Scale), fill(p.Color))
		default:
			return fmt.Errorf("svg: unsupported primitive %q", p.Kind)
		}
	}

	if _, err := bw.WriteString("</svg>\n"); err != nil {
		return err
	}

	return bw.Flush()
}

// fill formats the fill attributes of a color.
func fill(c figura.Color) string {
	s := fmt.Sprintf(`fill="rgb(%d,%d,%d)"`, c.R, c.G, c.B)
	if c.A != 255 {
		s += ` fill-opacity="` + num(float64(c.A)/255) + `"`
	}

	return s
}

// num formats a coordinate compactly.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
