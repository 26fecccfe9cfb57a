package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/viant/xview/correlate"
	"github.com/viant/xview/flowgraph"
	"github.com/viant/xview/session"
)

// logView reports every delivered state
type logView struct {
	logger *slog.Logger
}

func (v *logView) Origin() correlate.Origin {
	return "log"
}

func (v *logView) Update(ctx context.Context, state *session.State) {
	if state.Snapshot == nil {
		return
	}
	v.logger.Info("snapshot updated", "version", state.Version, "snapshot", state.Snapshot.Version, "ranges", state.Snapshot.Ranges.Len())
}

func runWatch(cmd *cobra.Command, opts *flags, URL string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	logger := opts.logger(cmd)
	in, err := newInputs(opts).load(ctx, URL)
	if err != nil {
		return err
	}

	s := session.New(session.Static(&session.Compiled{Mapping: in.mapping, Elements: in.elements, Positions: in.positions}),
		session.WithConfig(in.config), session.WithLogger(logger))
	defer s.Close()
	engine := flowgraph.NewEngine(flowgraph.NewPreset(),
		flowgraph.WithLogger(logger),
		flowgraph.WithOnSelect(s.SetSelection),
		flowgraph.WithOnHoverReset(func() { s.Leave(ctx) }),
		flowgraph.WithOnClear(func() { s.ClearHighlight(ctx) }),
	)
	defer engine.Stop()
	s.Register(&logView{logger: logger}, session.NewGraphView(engine, in.config.Coloring), session.NewFlameView(in.config.FlameOptions(), logger), session.NewListView())
	if err = s.Rebuild(ctx, in.document); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()
	name, err := filepath.Abs(URL)
	if err != nil {
		return err
	}
	// editors replace files on save, so the directory is watched
	if err = watcher.Add(filepath.Dir(name)); err != nil {
		return fmt.Errorf("failed to watch %v: %w", URL, err)
	}
	logger.Info("watching document", "path", name)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != name || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			data, err := in.fs.DownloadWithURL(ctx, name)
			if err != nil {
				logger.Warn("failed to read document", "path", name, "err", err)
				continue
			}
			s.Edit(data)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "err", err)
		}
	}
}
