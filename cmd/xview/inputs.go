package main

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/xview/config"
	"github.com/viant/xview/document"
	"github.com/viant/xview/flowgraph"
	"github.com/viant/xview/mapping"
	"github.com/viant/xview/timing"
	"golang.org/x/sync/errgroup"
)

// inputs holds everything a command reads before it starts
type inputs struct {
	fs        afs.Service
	opts      *flags
	document  []byte
	config    *config.Config
	mapping   mapping.Mapping
	pulses    *timing.Pulses
	elements  *flowgraph.Elements
	positions flowgraph.Positions
}

func newInputs(opts *flags) *inputs {
	return &inputs{fs: afs.New(), opts: opts, config: config.DefaultConfig(), pulses: &timing.Pulses{}}
}

// load downloads the document and every configured input concurrently
func (i *inputs) load(ctx context.Context, documentURL string) (*inputs, error) {
	group, ctx := errgroup.WithContext(ctx)
	if documentURL != "" {
		group.Go(func() (err error) {
			i.document, err = document.Load(ctx, i.fs, documentURL)
			return err
		})
	}
	if URL := i.opts.config; URL != "" {
		group.Go(func() (err error) {
			i.config, err = config.Load(ctx, i.fs, URL)
			return err
		})
	}
	if URL := i.opts.mapping; URL != "" {
		group.Go(func() error {
			data, err := i.download(ctx, URL)
			if err != nil {
				return err
			}
			i.mapping, err = mapping.Decode(data)
			return err
		})
	}
	if URL := i.opts.pulses; URL != "" {
		group.Go(func() error {
			data, err := i.download(ctx, URL)
			if err != nil {
				return err
			}
			pulses, err := timing.DecodePulses(data)
			for _, pulse := range pulses {
				i.pulses.Add(pulse)
			}
			return err
		})
	}
	if URL := i.opts.elements; URL != "" {
		group.Go(func() error {
			data, err := i.download(ctx, URL)
			if err != nil {
				return err
			}
			i.elements, err = flowgraph.DecodeElements(data)
			return err
		})
	}
	if URL := i.opts.positions; URL != "" {
		group.Go(func() error {
			data, err := i.download(ctx, URL)
			if err != nil {
				return err
			}
			i.positions, err = flowgraph.DecodePositions(data)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *inputs) download(ctx context.Context, URL string) ([]byte, error) {
	data, err := i.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %w", URL, err)
	}
	return data, nil
}
