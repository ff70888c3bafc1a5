package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/pointseq/internal/config"
	"github.com/Faultbox/pointseq/internal/headless"
	"github.com/Faultbox/pointseq/internal/host"
	"github.com/Faultbox/pointseq/internal/importer"
	"github.com/Faultbox/pointseq/internal/logger"
	"github.com/Faultbox/pointseq/internal/script"
	"github.com/Faultbox/pointseq/pkg/normalize"
	"github.com/Faultbox/pointseq/pkg/pointio"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

type playOptions struct {
	overrides config.Overrides
	realValue bool
	minValue  float32
	maxValue  float32
	start     int
	end       int
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Import a sequence and step the timeline over it",
		Long: `Import a sequence into an in-memory scene and advance the timeline
from --start to --end, syncing the particle buffer on every frame.

Playback stops early when a frame fails to load, the same way the host
timeline is halted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := opts.overrides
			flags := cmd.Flags()
			if flags.Changed("real-value") {
				o.RealValue = &opts.realValue
			}
			if flags.Changed("min") {
				o.MinValue = &opts.minValue
			}
			if flags.Changed("max") {
				o.MaxValue = &opts.maxValue
			}
			if flags.Changed("start") {
				o.Start = &opts.start
			}
			if flags.Changed("end") {
				o.End = &opts.end
			}

			cfg, err := loadConfig(rootOpts, o)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return runPlay(cmd, rootOpts, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.overrides.Dir, "dir", "", "directory holding the frame files")
	flags.StringVar(&opts.overrides.Pattern, "pattern", "", "glob selecting frame files in --dir")
	flags.StringVar(&opts.overrides.Attribute, "attribute", "", "point attribute driving the color channel")
	flags.StringVar(&opts.overrides.Script, "script", "", "Go preprocess script replacing frame lookup")
	flags.BoolVar(&opts.realValue, "real-value", false, "pass attribute values through without normalizing")
	flags.Float32Var(&opts.minValue, "min", 0, "lower bound of the normalization range")
	flags.Float32Var(&opts.maxValue, "max", 100, "upper bound of the normalization range")
	flags.IntVar(&opts.start, "start", 0, "first timeline frame")
	flags.IntVar(&opts.end, "end", 0, "last timeline frame")

	return cmd
}

func runPlay(cmd *cobra.Command, rootOpts *RootOptions, cfg *config.Config) error {
	seq, err := buildSequence(rootOpts, cfg)
	if err != nil {
		return err
	}

	parser := pointio.Parser{}
	h := headless.New()
	lib := sequence.NewLibrary()
	if err := lib.Add(seq); err != nil {
		return err
	}
	reg := importer.NewRegistry(h, lib, parser)

	var scriptName string
	if cfg.Importer.Script != "" {
		pre, err := script.LoadFile(cfg.Importer.Script, parser)
		if err != nil {
			return err
		}
		if err := reg.Scripts().Add(pre); err != nil {
			return err
		}
		scriptName = pre.Name()
	}

	h.SetFrame(cfg.Playback.Start)
	imp, err := reg.Import(seq.Name(), importer.Options{
		Name:      cfg.Importer.Name,
		Transform: cfg.Importer.Transform(),
		Settings: importer.Settings{
			Attribute:    cfg.Importer.Attribute,
			UseRealValue: cfg.Importer.UseRealValue,
			Range: normalize.Range{
				Min: cfg.Importer.MinValue,
				Max: cfg.Importer.MaxValue,
			},
		},
		ScriptName: scriptName,
		Radius:     cfg.Importer.Radius,
		Display:    host.DisplayMethod(cfg.Importer.Display),
	})
	if err != nil {
		writeNotifications(cmd.OutOrStdout(), h.Notifications())
		return err
	}

	logger.Info("playback started",
		zap.String("importer", imp.Name()),
		zap.Int("frames", seq.Len()),
		zap.Int("start", cfg.Playback.Start),
		zap.Int("end", cfg.Playback.End))

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAME\tFILE\tPOINTS\tRESIZED\tCOLOR\tERROR")

	h.Play()
	played := 0
	for f := cfg.Playback.Start; f <= cfg.Playback.End; f++ {
		if !h.IsPlaybackActive() {
			break
		}
		h.SetFrame(f)
		for _, r := range reg.OnFrameChange() {
			writeReport(tw, r)
		}
		played++
		if cfg.Playback.FrameDelay > 0 {
			time.Sleep(cfg.Playback.FrameDelay)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nPlayed %d frame(s)", played)
	if !h.IsPlaybackActive() {
		fmt.Fprint(out, ", playback halted")
	}
	fmt.Fprintln(out)
	if r, ok := imp.CurrentRange(); ok {
		fmt.Fprintf(out, "Current range: %g .. %g\n", r.Min, r.Max)
	}
	writeNotifications(out, h.Notifications())
	return nil
}

func writeReport(w io.Writer, r importer.FrameReport) {
	errText := "-"
	if r.Err != nil {
		errText = r.Err.Error()
	}
	file := r.Path
	if file == "" {
		file = "-"
	}
	fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
		r.Frame, file, r.Points, yesNo(r.Resized), yesNo(r.ColorWritten), errText)
}

func writeNotifications(w io.Writer, notes []headless.Notification) {
	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(w, "\nNotifications (%d):\n", len(notes))
	for _, n := range notes {
		fmt.Fprintf(w, "  [%s] frame %d: %s\n", n.Severity, n.Frame, n.Message)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
