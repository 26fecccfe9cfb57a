package decoration

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xview/correlate"
	"github.com/viant/xview/document"
	"github.com/viant/xview/flame"
	"github.com/viant/xview/mapping"
)

func sampleSnapshot(version uint64) *correlate.Snapshot {
	ranges := document.NewRanges([]*document.Range{
		{StartLine: 1, EndLine: 7, Path: document.Path{document.Property("marks")}},
		{StartLine: 2, EndLine: 6, Path: document.Path{document.Property("marks"), document.Index(0)}},
	})
	index := mapping.NewIndex(mapping.Mapping{`["marks"][0]`: {"op3", "op4"}})
	return correlate.NewSnapshot(version, ranges, index)
}

func TestSync_ApplyIdempotent(t *testing.T) {
	layer := NewLayer()
	syncer := NewSync(correlate.Graph, layer, NodeProjector{})
	snapshot := sampleSnapshot(1)
	record := correlate.Correlate(snapshot, correlate.Editor, document.PathKey(`["marks"][0]`))

	first := syncer.Apply(context.Background(), snapshot, record, Highlight)
	second := syncer.Apply(context.Background(), snapshot, record, Highlight)
	syncer.Wait()

	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Len(t, layer.Active(), 2)
	assert.Len(t, layer.Reveals(), 1, "one reveal per record change")

	third := syncer.Apply(context.Background(), sampleSnapshot(2), record, Highlight)
	syncer.Wait()
	assert.NotEqual(t, first, third, "new snapshot reissues handles")
	assert.Len(t, layer.Active(), 2)
	assert.Len(t, layer.Reveals(), 1, "same record does not reveal again")
}

func TestSync_ClearHighlight(t *testing.T) {
	layer := NewLayer()
	syncer := NewSync(correlate.Graph, layer, NodeProjector{})
	snapshot := sampleSnapshot(1)
	record := correlate.Correlate(snapshot, correlate.Editor, document.PathKey(`["marks"][0]`))

	require.NotEmpty(t, syncer.Apply(context.Background(), snapshot, record, Highlight))
	handles := syncer.Apply(context.Background(), snapshot, nil, Highlight)
	syncer.Wait()
	assert.Empty(t, handles)
	assert.Empty(t, syncer.Handles(Highlight))
	assert.Empty(t, layer.Active())
}

func TestSync_KindsAreIndependent(t *testing.T) {
	layer := NewLayer()
	syncer := NewSync(correlate.Graph, layer, NodeProjector{})
	snapshot := sampleSnapshot(1)
	record := &correlate.Record{IDs: []mapping.OperatorID{"op3"}, Source: correlate.Graph}

	syncer.Apply(context.Background(), snapshot, record, Hover)
	syncer.Apply(context.Background(), snapshot, record, Highlight)
	syncer.Apply(context.Background(), snapshot, nil, Hover)
	syncer.Wait()

	active := layer.Active()
	require.Len(t, active, 1)
	assert.Equal(t, Decoration{Ref: "op3", Class: "highlight"}, active[0])
	assert.Empty(t, layer.Reveals(), "no reveal when the view is the source")
}

func TestSync_StaleReferences(t *testing.T) {
	layer := NewLayer("op3")
	syncer := NewSync(correlate.Flame, layer, NodeProjector{})
	record := &correlate.Record{IDs: []mapping.OperatorID{"op3", "gone"}, Source: correlate.Editor}

	handles := syncer.Apply(context.Background(), sampleSnapshot(1), record, Hover)
	syncer.Wait()
	assert.Len(t, handles, 1)
	assert.Empty(t, layer.Reveals(), "hover never reveals")
}

type blockingSurface struct {
	*Layer
	mux       sync.Mutex
	cancelled int
	started   chan struct{}
}

func (b *blockingSurface) Reveal(ctx context.Context, decoration Decoration) error {
	b.started <- struct{}{}
	<-ctx.Done()
	b.mux.Lock()
	b.cancelled++
	b.mux.Unlock()
	return ctx.Err()
}

func TestSync_RevealSuperseded(t *testing.T) {
	surface := &blockingSurface{Layer: NewLayer(), started: make(chan struct{}, 2)}
	syncer := NewSync(correlate.Graph, surface, NodeProjector{})
	snapshot := sampleSnapshot(1)

	syncer.Apply(context.Background(), snapshot, &correlate.Record{IDs: []mapping.OperatorID{"op3"}, Source: correlate.Editor}, Highlight)
	<-surface.started
	syncer.Apply(context.Background(), snapshot, &correlate.Record{IDs: []mapping.OperatorID{"op4"}, Source: correlate.Editor}, Highlight)
	<-surface.started
	syncer.Close()

	assert.Equal(t, 2, surface.cancelled)
	assert.Empty(t, surface.Active())
}

func TestEditorProjector(t *testing.T) {
	snapshot := sampleSnapshot(1)
	record := &correlate.Record{Target: `["marks"][0]`, Paths: []document.PathKey{`["marks"]`, `["marks"][0]`, `["axes"]`}}

	actual := EditorProjector{}.Project(snapshot, record)
	assert.Equal(t, []Decoration{
		{Ref: `["marks"][0]`, StartLine: 2, EndLine: 6},
		{Ref: `["marks"]`, StartLine: 1, EndLine: 7},
	}, actual)
	assert.Empty(t, EditorProjector{}.Project(snapshot, nil))
}

func TestFlameProjector(t *testing.T) {
	projector := &FlameProjector{}
	record := &correlate.Record{IDs: []mapping.OperatorID{"op3"}}
	assert.Empty(t, projector.Project(nil, record))

	tree, err := flame.Build([]flame.Record{
		{ID: flame.RootID},
		{ID: `["marks"][0]`, Parent: flame.RootID},
		{ID: "op3", Parent: `["marks"][0]`, Value: 1},
		{ID: "op4", Parent: `["marks"][0]`, Value: 1},
	}, nil)
	require.NoError(t, err)
	projector.SetTree(tree)

	assert.Equal(t, []Decoration{{Ref: "op3"}}, projector.Project(nil, record))
	record = &correlate.Record{Target: `["marks"][0]`}
	assert.Equal(t, []Decoration{{Ref: `["marks"][0]`}, {Ref: "op3"}, {Ref: "op4"}}, projector.Project(nil, record))
}
