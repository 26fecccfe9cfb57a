package decoration

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Layer is an in-memory surface
type Layer struct {
	mux     sync.Mutex
	refs    map[string]bool
	active  map[Handle]Decoration
	reveals []Decoration
}

// NewLayer creates a layer; without refs every reference is accepted
func NewLayer(refs ...string) *Layer {
	result := &Layer{active: map[Handle]Decoration{}}
	if len(refs) > 0 {
		result.SetRefs(refs)
	}
	return result
}

// SetRefs replaces the set of existing references
func (l *Layer) SetRefs(refs []string) {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.refs = make(map[string]bool, len(refs))
	for _, ref := range refs {
		l.refs[ref] = true
	}
}

// Contains reports whether ref exists
func (l *Layer) Contains(ref string) bool {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.refs == nil {
		return true
	}
	return l.refs[ref]
}

// DeltaDecorations removes old and applies next
func (l *Layer) DeltaDecorations(old []Handle, next []Decoration) []Handle {
	l.mux.Lock()
	defer l.mux.Unlock()
	for _, handle := range old {
		delete(l.active, handle)
	}
	result := make([]Handle, 0, len(next))
	for _, decoration := range next {
		handle := Handle(uuid.NewString())
		l.active[handle] = decoration
		result = append(result, handle)
	}
	return result
}

// Reveal records the reveal unless ctx is already cancelled
func (l *Layer) Reveal(ctx context.Context, decoration Decoration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mux.Lock()
	defer l.mux.Unlock()
	l.reveals = append(l.reveals, decoration)
	return nil
}

// Active returns applied decorations ordered by ref and class
func (l *Layer) Active() []Decoration {
	l.mux.Lock()
	defer l.mux.Unlock()
	result := make([]Decoration, 0, len(l.active))
	for _, decoration := range l.active {
		result = append(result, decoration)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Ref == result[j].Ref {
			return result[i].Class < result[j].Class
		}
		return result[i].Ref < result[j].Ref
	})
	return result
}

// Reveals returns completed reveals in order
func (l *Layer) Reveals() []Decoration {
	l.mux.Lock()
	defer l.mux.Unlock()
	return append([]Decoration(nil), l.reveals...)
}
