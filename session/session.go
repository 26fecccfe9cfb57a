package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/viant/xview/config"
	"github.com/viant/xview/correlate"
	"github.com/viant/xview/document"
	"github.com/viant/xview/flowgraph"
	"github.com/viant/xview/mapping"
	"github.com/viant/xview/timing"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Session owns the current snapshot and correlation state and broadcasts it to views
type Session struct {
	compiler Compiler
	config   *config.Config
	logger   *slog.Logger
	limiter  *rate.Limiter
	flight   singleflight.Group

	mux         sync.Mutex
	state       State
	revision    uint64
	fingerprint uint64
	built       bool
	requests    uint64 // rebuild requests issued
	installed   uint64 // request whose snapshot is current
	views       []View
	queue       []*State
	dispatching bool
	timer       *time.Timer
	pending     []byte
	hasPending  bool
	pulses      timing.Pulses
	clock       *int64
}

// Option configures Session
type Option func(s *Session)

// WithConfig sets config
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		s.config = cfg
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithLimiter throttles hover events
func WithLimiter(limiter *rate.Limiter) Option {
	return func(s *Session) {
		s.limiter = limiter
	}
}

// New creates a session
func New(compiler Compiler, options ...Option) *Session {
	result := &Session{compiler: compiler, config: config.DefaultConfig(), logger: slog.Default()}
	for _, opt := range options {
		opt(result)
	}
	if result.limiter == nil && result.config.HoverRate > 0 {
		result.limiter = rate.NewLimiter(rate.Limit(result.config.HoverRate), result.config.HoverBurst)
	}
	return result
}

// Register adds a view
func (s *Session) Register(views ...View) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.views = append(s.views, views...)
}

// State returns a copy of the current state
func (s *Session) State() State {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.state
}

// Edit schedules a debounced rebuild of src
func (s *Session) Edit(src []byte) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.pending = src
	s.hasPending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.config.Debounce, func() {
		if err := s.Flush(context.Background()); err != nil {
			s.logger.Debug("debounced rebuild failed", "err", err)
		}
	})
}

// Flush runs the pending rebuild now
func (s *Session) Flush(ctx context.Context) error {
	s.mux.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !s.hasPending {
		s.mux.Unlock()
		return nil
	}
	src := s.pending
	s.pending = nil
	s.hasPending = false
	s.mux.Unlock()
	return s.Rebuild(ctx, src)
}

// Close cancels the pending rebuild
func (s *Session) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.hasPending = false
}

type artifacts struct {
	ranges   *document.Ranges
	index    *mapping.Index
	compiled *Compiled
}

// Rebuild builds a snapshot from src off-lock and swaps it in; hover is cleared, highlight persists.
// A rebuild finishing after a later request was installed is discarded.
// Failures are logged and leave views untouched.
func (s *Session) Rebuild(ctx context.Context, src []byte) error {
	ctx, span := startRebuildSpan(ctx, len(src))
	defer span.End()
	started := time.Now()
	fingerprint, err := document.Fingerprint(src)
	if err != nil {
		return err
	}
	request, unchanged := s.request(fingerprint)
	if unchanged {
		return nil
	}
	value, err, _ := s.flight.Do(strconv.FormatUint(fingerprint, 16), func() (interface{}, error) {
		return s.build(ctx, src)
	})
	if err != nil {
		span.RecordError(err)
		recordRebuild(ctx, time.Since(started), false)
		s.logger.Warn("failed to rebuild snapshot", "err", err)
		return err
	}
	result := value.(*artifacts)

	s.mux.Lock()
	if request < s.installed {
		s.mux.Unlock()
		s.logger.Debug("discarded superseded rebuild", "request", request)
		return nil
	}
	s.installed = request
	if s.built && s.fingerprint == fingerprint {
		s.mux.Unlock()
		return nil
	}
	s.fingerprint = fingerprint
	s.built = true
	s.revision++
	s.state.Snapshot = correlate.NewSnapshot(s.revision, result.ranges, result.index)
	s.state.Mapping = result.compiled.Mapping
	s.state.Elements = result.compiled.Elements
	s.state.Positions = result.compiled.Positions
	s.state.Hover = nil
	s.state.Selection = nil
	s.commit()
	revision := s.revision
	s.mux.Unlock()

	s.dispatch(ctx)
	recordRebuild(ctx, time.Since(started), true)
	s.logger.Debug("snapshot rebuilt", "version", revision, "ranges", result.ranges.Len(), "keys", result.index.Len())
	return nil
}

// request numbers a rebuild; a request matching the current snapshot supersedes pending ones
func (s *Session) request(fingerprint uint64) (uint64, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.requests++
	if s.built && s.fingerprint == fingerprint {
		s.installed = s.requests
		return s.requests, true
	}
	return s.requests, false
}

func (s *Session) build(ctx context.Context, src []byte) (*artifacts, error) {
	mode, err := s.config.Mode()
	if err != nil {
		return nil, err
	}
	result := &artifacts{}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		ranges, err := document.Parse(groupCtx, src)
		if err != nil {
			return fmt.Errorf("failed to parse document: %w", err)
		}
		result.ranges = ranges
		return nil
	})
	group.Go(func() error {
		compiled, err := s.compiler.Compile(groupCtx, src)
		if err != nil {
			return fmt.Errorf("failed to compile document: %w", err)
		}
		if compiled == nil {
			compiled = &Compiled{}
		}
		result.compiled = compiled
		return nil
	})
	if err = group.Wait(); err != nil {
		return nil, err
	}
	result.index = mapping.NewIndex(result.compiled.Mapping, mapping.WithMatchMode(mode))
	return result, nil
}

// Hover correlates payload from origin into the transient hover; false when throttled or unchanged
func (s *Session) Hover(ctx context.Context, origin correlate.Origin, payload interface{}) bool {
	if s.limiter != nil && !s.limiter.Allow() {
		return false
	}
	s.mux.Lock()
	record := correlate.Correlate(s.state.Snapshot, origin, payload)
	recordCorrelation(ctx, string(origin), "hover")
	if record.Equal(s.state.Hover) {
		s.mux.Unlock()
		return false
	}
	s.state.Hover = record
	s.commit()
	s.mux.Unlock()
	s.dispatch(ctx)
	return true
}

// Leave clears the hover
func (s *Session) Leave(ctx context.Context) bool {
	s.mux.Lock()
	if s.state.Hover == nil {
		s.mux.Unlock()
		return false
	}
	s.state.Hover = nil
	s.commit()
	s.mux.Unlock()
	s.dispatch(ctx)
	return true
}

// Select correlates payload from origin into the sticky highlight; unresolvable payloads are ignored
func (s *Session) Select(ctx context.Context, origin correlate.Origin, payload interface{}) bool {
	s.mux.Lock()
	record := correlate.Correlate(s.state.Snapshot, origin, payload)
	recordCorrelation(ctx, string(origin), "highlight")
	if record == nil || record.Equal(s.state.Highlight) {
		s.mux.Unlock()
		return false
	}
	s.state.Highlight = record
	s.commit()
	s.mux.Unlock()
	s.dispatch(ctx)
	return true
}

// ClearHighlight clears the highlight
func (s *Session) ClearHighlight(ctx context.Context) bool {
	s.mux.Lock()
	if s.state.Highlight == nil {
		s.mux.Unlock()
		return false
	}
	s.state.Highlight = nil
	s.commit()
	s.mux.Unlock()
	s.dispatch(ctx)
	return true
}

// SetSelection records the graph selection without broadcasting
func (s *Session) SetSelection(selection *flowgraph.Selection) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.state.Selection = selection
}

// Selection returns the graph selection
func (s *Session) Selection() *flowgraph.Selection {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.state.Selection
}

// AddPulse appends runtime timings; the first pulse is shown until another is selected
func (s *Session) AddPulse(ctx context.Context, pulse *timing.Pulse) {
	if pulse == nil {
		return
	}
	s.mux.Lock()
	s.pulses.Add(pulse)
	s.selectPulse()
	s.mux.Unlock()
	s.dispatch(ctx)
}

// SelectPulse shows the pulse with clock; nil selects the first pulse
func (s *Session) SelectPulse(ctx context.Context, clock *int64) {
	s.mux.Lock()
	s.clock = clock
	s.selectPulse()
	s.mux.Unlock()
	s.dispatch(ctx)
}

// Pulses returns pulses in clock order
func (s *Session) Pulses() []*timing.Pulse {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]*timing.Pulse(nil), s.pulses.Items()...)
}

func (s *Session) selectPulse() {
	var pulse *timing.Pulse
	if s.clock != nil {
		pulse = s.pulses.Find(*s.clock)
	} else {
		pulse = s.pulses.First()
	}
	if pulse == s.state.Pulse {
		return
	}
	s.state.Pulse = pulse
	s.commit()
}

// commit versions the state and queues it for delivery; caller holds the lock
func (s *Session) commit() {
	s.state.Version++
	state := s.state
	s.queue = append(s.queue, &state)
}

// dispatch delivers queued states in version order; views may re-enter the session
func (s *Session) dispatch(ctx context.Context) {
	s.mux.Lock()
	if s.dispatching {
		s.mux.Unlock()
		return
	}
	s.dispatching = true
	for len(s.queue) > 0 {
		state := s.queue[0]
		s.queue = s.queue[1:]
		views := s.views
		s.mux.Unlock()
		for _, view := range views {
			view.Update(ctx, state)
		}
		s.mux.Lock()
	}
	s.dispatching = false
	s.mux.Unlock()
}
