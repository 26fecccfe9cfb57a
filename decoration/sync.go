package decoration

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/viant/xview/correlate"
)

type slot struct {
	applied bool
	version uint64
	record  *correlate.Record
	handles []Handle
}

// Sync owns the current decorations of one view, one slot per kind
type Sync struct {
	view      correlate.Origin
	surface   Surface
	projector Projector
	logger    *slog.Logger

	mux    sync.Mutex
	slots  [2]slot
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures Sync
type Option func(s *Sync)

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sync) {
		s.logger = logger
	}
}

// NewSync creates a view decoration synchronizer
func NewSync(view correlate.Origin, surface Surface, projector Projector, options ...Option) *Sync {
	result := &Sync{view: view, surface: surface, projector: projector, logger: slog.Default()}
	for _, opt := range options {
		opt(result)
	}
	return result
}

// View returns the synchronized view origin
func (s *Sync) View() correlate.Origin {
	return s.view
}

// Handles returns current handles of kind
func (s *Sync) Handles(kind Kind) []Handle {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.slots[kind].handles
}

// Apply replaces the decorations of kind with the projection of record; nil clears.
// Reapplying an equal record at the same snapshot version is a no-op.
func (s *Sync) Apply(ctx context.Context, snapshot *correlate.Snapshot, record *correlate.Record, kind Kind) []Handle {
	var version uint64
	if snapshot != nil {
		version = snapshot.Version
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	current := &s.slots[kind]
	if current.applied && current.version == version && current.record.Equal(record) {
		return current.handles
	}
	changed := !current.record.Equal(record)
	decorations := s.project(snapshot, record, kind)
	current.handles = s.surface.DeltaDecorations(current.handles, decorations)
	current.record = record
	current.version = version
	current.applied = true
	if kind == Highlight && changed {
		s.stopReveal()
		if record != nil && record.Source != s.view && len(decorations) > 0 {
			s.reveal(ctx, decorations[0])
		}
	}
	return current.handles
}

// Invalidate forces the next Apply of every kind to reproject, e.g. after the surface content changed
func (s *Sync) Invalidate() {
	s.mux.Lock()
	defer s.mux.Unlock()
	for i := range s.slots {
		s.slots[i].applied = false
	}
}

// Wait blocks until the pending reveal finishes
func (s *Sync) Wait() {
	s.wg.Wait()
}

// Close cancels the pending reveal and clears every slot
func (s *Sync) Close() {
	s.mux.Lock()
	s.stopReveal()
	for i := range s.slots {
		s.slots[i].handles = s.surface.DeltaDecorations(s.slots[i].handles, nil)
		s.slots[i] = slot{}
	}
	s.mux.Unlock()
	s.wg.Wait()
}

func (s *Sync) project(snapshot *correlate.Snapshot, record *correlate.Record, kind Kind) []Decoration {
	if record == nil {
		return nil
	}
	var result []Decoration
	for _, item := range s.projector.Project(snapshot, record) {
		if !s.surface.Contains(item.Ref) {
			continue
		}
		item.Class = kind.String()
		result = append(result, item)
	}
	return result
}

func (s *Sync) stopReveal() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Sync) reveal(ctx context.Context, decoration Decoration) {
	revealCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		if err := s.surface.Reveal(revealCtx, decoration); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("failed to reveal decoration", "view", string(s.view), "ref", decoration.Ref, "err", err)
		}
	}()
}
