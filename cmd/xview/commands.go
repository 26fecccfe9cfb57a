package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/viant/xview/correlate"
	"github.com/viant/xview/document"
	"github.com/viant/xview/flame"
	"github.com/viant/xview/mapping"
	"gopkg.in/yaml.v3"
)

type flags struct {
	config    string
	mapping   string
	elements  string
	positions string
	pulses    string
	verbose   bool

	line     int
	path     string
	operator string
	clock    int64
}

func newRootCmd() *cobra.Command {
	opts := &flags{}
	rootCmd := &cobra.Command{
		Use:           "xview",
		Short:         "Correlates a declarative visualization document with its dataflow and runtime timings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.config, "config", "", "config URL (yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.mapping, "mapping", "", "path key to operator ids mapping URL")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	rangesCmd := &cobra.Command{
		Use:   "ranges [document]",
		Short: "Prints the foldable ranges of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRanges(cmd, opts, args[0])
		},
	}

	correlateCmd := &cobra.Command{
		Use:   "correlate [document]",
		Short: "Correlates a line, path or operator with the document and mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrelate(cmd, opts, args[0])
		},
	}
	correlateCmd.Flags().IntVar(&opts.line, "line", -1, "zero-based editor line")
	correlateCmd.Flags().StringVar(&opts.path, "path", "", "path key or step list, i.e. [\"marks\"][0] or [marks, 0]")
	correlateCmd.Flags().StringVar(&opts.operator, "operator", "", "operator id")

	flameCmd := &cobra.Command{
		Use:   "flame",
		Short: "Prints the flame chart partition of a pulse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlame(cmd, opts)
		},
	}
	flameCmd.Flags().StringVar(&opts.pulses, "pulses", "", "runtime pulses URL")
	flameCmd.Flags().Int64Var(&opts.clock, "clock", -1, "pulse clock, first pulse when negative")

	watchCmd := &cobra.Command{
		Use:   "watch [document]",
		Short: "Rebuilds the document snapshot on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args[0])
		},
	}
	watchCmd.Flags().StringVar(&opts.elements, "elements", "", "dataflow graph elements URL")
	watchCmd.Flags().StringVar(&opts.positions, "positions", "", "dataflow graph positions URL")

	rootCmd.AddCommand(rangesCmd, correlateCmd, flameCmd, watchCmd)
	return rootCmd
}

func (f *flags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

type rangeView struct {
	Path      string `yaml:"path"`
	StartLine int    `yaml:"startLine"`
	EndLine   int    `yaml:"endLine"`
}

func runRanges(cmd *cobra.Command, opts *flags, URL string) error {
	ctx := cmd.Context()
	in, err := newInputs(opts).load(ctx, URL)
	if err != nil {
		return err
	}
	ranges, err := document.Parse(ctx, in.document)
	if err != nil {
		return err
	}
	var result []rangeView
	for _, item := range ranges.Items() {
		result = append(result, rangeView{Path: item.Path.Display(), StartLine: item.StartLine, EndLine: item.EndLine})
	}
	return encode(cmd.OutOrStdout(), result)
}

type recordView struct {
	Paths     []document.PathKey   `yaml:"paths,omitempty"`
	IDs       []mapping.OperatorID `yaml:"ids,omitempty"`
	Target    document.PathKey     `yaml:"target,omitempty"`
	StartLine *int                 `yaml:"startLine,omitempty"`
	EndLine   *int                 `yaml:"endLine,omitempty"`
}

func runCorrelate(cmd *cobra.Command, opts *flags, URL string) error {
	ctx := cmd.Context()
	in, err := newInputs(opts).load(ctx, URL)
	if err != nil {
		return err
	}
	mode, err := in.config.Mode()
	if err != nil {
		return err
	}
	ranges, err := document.Parse(ctx, in.document)
	if err != nil {
		return err
	}
	snapshot := correlate.NewSnapshot(1, ranges, mapping.NewIndex(in.mapping, mapping.WithMatchMode(mode)))
	var record *correlate.Record
	switch {
	case opts.line >= 0:
		record = correlate.Correlate(snapshot, correlate.Editor, correlate.Line(opts.line))
	case opts.path != "":
		key, err := pathKey(opts.path)
		if err != nil {
			return err
		}
		record = correlate.Correlate(snapshot, correlate.Editor, key)
	case opts.operator != "":
		record = correlate.Correlate(snapshot, correlate.Graph, mapping.OperatorID(opts.operator))
	default:
		return fmt.Errorf("one of --line, --path or --operator is required")
	}
	if record == nil {
		opts.logger(cmd).Info("nothing correlated")
		return nil
	}
	result := recordView{Paths: record.Paths, IDs: record.IDs, Target: record.Target}
	if record.Selected != nil {
		result.StartLine = &record.Selected.StartLine
		result.EndLine = &record.Selected.EndLine
	}
	return encode(cmd.OutOrStdout(), result)
}

// pathKey accepts a path key or a step list, i.e. ["marks", 0, "encode"]
func pathKey(value string) (document.PathKey, error) {
	var steps []interface{}
	if err := yaml.Unmarshal([]byte(value), &steps); err != nil || len(steps) == 0 {
		return document.PathKey(value), nil
	}
	path, err := document.NewPath(steps...)
	if err != nil {
		return "", err
	}
	return path.Key(), nil
}

type nodeView struct {
	ID      string  `yaml:"id"`
	Label   string  `yaml:"label"`
	Title   string  `yaml:"title"`
	Visible bool    `yaml:"visible"`
	Depth   int     `yaml:"depth"`
	Time    string  `yaml:"time"`
	X0      float64 `yaml:"x0"`
	X1      float64 `yaml:"x1"`
	Y0      float64 `yaml:"y0"`
	Y1      float64 `yaml:"y1"`
	Width   float64 `yaml:"width"`
}

func runFlame(cmd *cobra.Command, opts *flags) error {
	if opts.pulses == "" {
		return fmt.Errorf("--pulses is required")
	}
	in, err := newInputs(opts).load(cmd.Context(), "")
	if err != nil {
		return err
	}
	var clock *int64
	if opts.clock >= 0 {
		clock = &opts.clock
	}
	records := flame.Input(in.mapping, in.pulses.Values(clock))
	if records == nil {
		return fmt.Errorf("no pulse for clock %v", opts.clock)
	}
	tree, err := flame.Build(records, in.config.FlameOptions())
	if err != nil {
		return err
	}
	var result []nodeView
	for _, cell := range flame.NewZoom(tree).Cells() {
		result = append(result, nodeView{
			ID:      cell.Node.ID,
			Label:   cell.Label,
			Title:   cell.Title,
			Visible: cell.Visible,
			Depth:   cell.Node.Depth,
			Time:    flame.FormatTime(cell.Node.Time),
			X0:      cell.Rect.X0,
			X1:      cell.Rect.X1,
			Y0:      cell.Rect.Y0,
			Y1:      cell.Rect.Y1,
			Width:   cell.Width,
		})
	}
	return encode(cmd.OutOrStdout(), result)
}

func encode(w io.Writer, value interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}
