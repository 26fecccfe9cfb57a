package decoration

import (
	"context"
)

// Kind is a decoration slot kind
type Kind int

const (
	// Hover is transient pointer correlation
	Hover Kind = iota
	// Highlight is sticky click correlation
	Highlight
)

// String returns the css class of a kind
func (k Kind) String() string {
	if k == Highlight {
		return "highlight"
	}
	return "hover"
}

// Handle identifies an applied decoration on a surface
type Handle string

// Decoration is one visual mark on a view element or editor line span
type Decoration struct {
	Ref       string `yaml:"ref"`
	StartLine int    `yaml:"startLine,omitempty"`
	EndLine   int    `yaml:"endLine,omitempty"`
	Class     string `yaml:"class,omitempty"`
}

// Surface is a view able to apply decorations
type Surface interface {
	// Contains reports whether ref still exists on the surface
	Contains(ref string) bool
	// DeltaDecorations removes old handles and applies next, returning the new handles
	DeltaDecorations(old []Handle, next []Decoration) []Handle
	// Reveal scrolls or pans the surface to the decoration until done or ctx is cancelled
	Reveal(ctx context.Context, decoration Decoration) error
}
