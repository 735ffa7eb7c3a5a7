package figura

import (
	"io"
	"log/slog"
)

// Defaults used when RunOptions leaves a field zero.
const (
	DefaultCollectionStep = 30
	DefaultLineLength     = 100
	DefaultLineThickness  = 10
	DefaultCircleRadius   = 20
)

// DefaultOrigin is where built-in shapes are placed (center of an 800x600 canvas).
var DefaultOrigin = Vec2{X: 400, Y: 300}

// ParseOptions controls lexing and parsing.
type ParseOptions struct {
	// Comments enables // line comments. The core grammar has none.
	Comments bool
}

// RunOptions controls the interpreter.
type RunOptions struct {
	// Logger receives debug events (declarations, timers, finished tweens).
	// Nil discards everything.
	Logger *slog.Logger
	// Origin is the position of the built-in line and circle prototypes.
	// Zero means DefaultOrigin.
	Origin Vec2
	// CollectionStep is the diagonal offset between collection elements.
	CollectionStep float64
	// LineLength and LineThickness size the built-in line.
	LineLength    float64
	LineThickness float64
	// CircleRadius sizes the built-in circle.
	CircleRadius float64
}

// FormatOptions controls writer formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested blocks (default is four spaces).
	Indent string
}

// ValidateOptions controls validation rules.
type ValidateOptions struct {
	// DisableTypeCheck disables unknown type checks for declarations and parameters.
	DisableTypeCheck bool
	// DisableAnimationCheck disables unknown animation and arity checks for calls.
	DisableAnimationCheck bool
	// DisableShadowCheck disables warnings for user animations hiding a builtin.
	DisableShadowCheck bool
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{}
	}

	return *o
}

// normalize normalizes the RunOptions.
func (o *RunOptions) normalize() RunOptions {
	var out RunOptions
	if o != nil {
		out = *o
	}

	if out.Logger == nil {
		out.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if out.Origin == (Vec2{}) {
		out.Origin = DefaultOrigin
	}
	if out.CollectionStep == 0 {
		out.CollectionStep = DefaultCollectionStep
	}
	if out.LineLength <= 0 {
		out.LineLength = DefaultLineLength
	}
	if out.LineThickness <= 0 {
		out.LineThickness = DefaultLineThickness
	}
	if out.CircleRadius <= 0 {
		out.CircleRadius = DefaultCircleRadius
	}

	return out
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "    "}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "    "
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{}
	}

	return *o
}
