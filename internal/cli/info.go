package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Faultbox/pointseq/internal/config"
	"github.com/Faultbox/pointseq/pkg/pointio"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		o          config.Overrides
		listFrames bool
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the frames and frame-0 attributes of a sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts, o)
			if err != nil {
				return err
			}
			return runInfo(cmd, rootOpts, cfg, listFrames)
		},
	}

	cmd.Flags().StringVar(&o.Dir, "dir", "", "directory holding the frame files")
	cmd.Flags().StringVar(&o.Pattern, "pattern", "", "glob selecting frame files in --dir")
	cmd.Flags().BoolVar(&listFrames, "frames", false, "list every frame file")

	return cmd
}

func runInfo(cmd *cobra.Command, rootOpts *RootOptions, cfg *config.Config, listFrames bool) error {
	seq, err := buildSequence(rootOpts, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sequence: %s\n", seq.Name())
	if seq.Pattern() != "" {
		fmt.Fprintf(out, "Pattern:  %s\n", seq.Pattern())
	}
	fmt.Fprintf(out, "Frames:   %d\n", seq.Len())
	fmt.Fprintf(out, "First:    %s\n", seq.Path(0))
	fmt.Fprintf(out, "Last:     %s\n", seq.Path(seq.Len()-1))

	m, err := pointio.Read(seq.Path(0))
	if err != nil {
		return fmt.Errorf("reading frame 0: %w", err)
	}
	fmt.Fprintf(out, "Points:   %d\n", m.PointCount())
	fmt.Fprintln(out)

	if listFrames {
		for i, p := range seq.Paths() {
			fmt.Fprintf(out, "%6d  %s\n", i, p)
		}
		fmt.Fprintln(out)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ATTRIBUTE\tSHAPE\tCOMPONENTS")
	for _, name := range m.AttributeNames() {
		a := m.PointData[name]
		fmt.Fprintf(tw, "%s\t%v\t%d\n", name, a.Shape, a.Components())
	}
	return tw.Flush()
}
