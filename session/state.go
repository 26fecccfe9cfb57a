package session

import (
	"context"

	"github.com/viant/xview/correlate"
	"github.com/viant/xview/flowgraph"
	"github.com/viant/xview/mapping"
	"github.com/viant/xview/timing"
)

// State is the versioned session state passed to every view on each update
type State struct {
	Version   uint64
	Snapshot  *correlate.Snapshot
	Mapping   mapping.Mapping
	Elements  *flowgraph.Elements
	Positions flowgraph.Positions
	Pulse     *timing.Pulse // selected pulse, nil without runtime data
	Hover     *correlate.Record
	Highlight *correlate.Record
	Selection *flowgraph.Selection
}

// Values returns timing values of the selected pulse
func (s *State) Values() timing.Values {
	if s == nil || s.Pulse == nil {
		return nil
	}
	return s.Pulse.Values
}

// View receives state updates in version order
type View interface {
	Origin() correlate.Origin
	Update(ctx context.Context, state *State)
}

// Compiled is the compiler output for one document version
type Compiled struct {
	Mapping   mapping.Mapping
	Elements  *flowgraph.Elements
	Positions flowgraph.Positions
}

// Compiler compiles a source document into its mapping and dataflow graph
type Compiler interface {
	Compile(ctx context.Context, src []byte) (*Compiled, error)
}

// CompilerFunc adapts a function to Compiler
type CompilerFunc func(ctx context.Context, src []byte) (*Compiled, error)

// Compile calls fn
func (fn CompilerFunc) Compile(ctx context.Context, src []byte) (*Compiled, error) {
	return fn(ctx, src)
}

// Static returns a compiler ignoring the source and returning compiled
func Static(compiled *Compiled) Compiler {
	return CompilerFunc(func(ctx context.Context, src []byte) (*Compiled, error) {
		return compiled, nil
	})
}
