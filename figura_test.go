package figura

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseSamples(t *testing.T) {
	files := []struct {
		name       string
		opt        *ParseOptions
		statements int
	}{
		{"basic.fig", nil, 4},
		{"scene.fig", nil, 11},
		{"comments.fig", &ParseOptions{Comments: true}, 3},
	}

	for _, f := range files {
		p, err := DecodeFile(filepath.Join("testdata", f.name), f.opt)
		if err != nil {
			t.Fatalf("parse %s: %v", f.name, err)
		}
		if p.Len() != f.statements {
			t.Fatalf("%s: got %d statements, want %d", f.name, p.Len(), f.statements)
		}
	}
}

func TestRunSceneSample(t *testing.T) {
	p, err := DecodeFile(filepath.Join("testdata", "scene.fig"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rec := &recordCanvas{}
	in := New(rec, nil)
	if err := in.Load(p); err != nil {
		t.Fatalf("load: %v", err)
	}
	for rep := 0; rep < 150; rep++ {
		if err := in.AdvanceFrame(16); err != nil {
			t.Fatalf("frame %d: %v", in.Frame(), err)
		}
	}

	if got := in.ActiveTweens(); got != 0 {
		t.Fatalf("tweens still active after 2400ms: %d", got)
	}
	// a, ground and four dots; each pair draws two circles.
	if len(rec.prims) != 2+1+4 {
		t.Fatalf("unexpected draw calls: %d", len(rec.prims))
	}
}

func TestRoundTrip(t *testing.T) {
	p, err := DecodeFile(filepath.Join("testdata", "scene.fig"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := Format(p, nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	p2, err := Parse(b, nil)
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, b)
	}
	if p2.Len() != p.Len() {
		t.Fatalf("statement count mismatch: %d vs %d", p2.Len(), p.Len())
	}

	b2, err := Format(p2, nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if string(b) != string(b2) {
		t.Fatalf("format is not stable:\n%s\n---\n%s", b, b2)
	}
}

func TestFormatCanonical(t *testing.T) {
	src := "figure f{circle c;}animation g(){}circle a;if(a.x>1)a.x=(2+3)*4;else{a.x=3;move(a,1,0-1,10);}"
	p, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got, err := Format(p, &FormatOptions{Indent: "  "})
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	want := strings.Join([]string{
		"figure f {",
		"  circle c;",
		"}",
		"",
		"animation g() {",
		"}",
		"",
		"circle a;",
		"if (a.x > 1) {",
		"  a.x = (2 + 3) * 4;",
		"} else {",
		"  a.x = 3;",
		"  move(a, 1, 0 - 1, 10);",
		"}",
		"",
	}, "\n")
	if string(got) != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestValidate(t *testing.T) {
	src := `animation move(circle c) { }
animation spin(circle c) { spin(c); }
blob b;
circle a;
a.spin(1);
fly(a);
each 0 a.x = 1;
`
	p, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	issues := Validate(p, nil)
	var codes []string
	for _, i := range issues {
		codes = append(codes, i.Code)
	}
	want := []string{CodeShadowsBuiltin, CodeRecursion, CodeUnknownType, CodeArity, CodeUnknownAnimation, CodeZeroPeriod}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if !HasErrors(issues) {
		t.Fatalf("expected errors")
	}
	if issues[2].Line != 3 || issues[2].Path != "blob" {
		t.Fatalf("unexpected issue: %+v", issues[2])
	}

	opt := &ValidateOptions{DisableTypeCheck: true, DisableAnimationCheck: true, DisableShadowCheck: true}
	if got := Validate(p, opt); len(got) != 1 || got[0].Code != CodeZeroPeriod {
		t.Fatalf("unexpected issues with checks disabled: %v", got)
	}
}

func TestValidateOrder(t *testing.T) {
	p, err := Parse([]byte("pair early;\nfigure pair { circle c; }\npair late;\nanimation f() { pair x; }"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	issues := Validate(p, nil)
	if len(issues) != 1 || issues[0].Line != 1 || issues[0].Code != CodeUnknownType {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestValidateSamplesClean(t *testing.T) {
	p, err := DecodeFile(filepath.Join("testdata", "scene.fig"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if issues := Validate(p, nil); len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestASTDump(t *testing.T) {
	p, err := Parse([]byte("circle a;\nmove(a, 1 + 2, 0, 10);"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	j, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(string(j), `"kind":"var"`) || !strings.Contains(string(j), `"op":"+"`) {
		t.Fatalf("unexpected json: %s", j)
	}

	y, err := yaml.Marshal(p)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(string(y), "kind: call") || !strings.Contains(string(y), "line: 2") {
		t.Fatalf("unexpected yaml: %s", y)
	}
}
