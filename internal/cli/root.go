// Package cli implements the seqplay command line.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Faultbox/pointseq/internal/config"
	"github.com/Faultbox/pointseq/internal/logger"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

// RootOptions holds global flags.
type RootOptions struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	// Quiet disables console logging; file logging still applies.
	Quiet bool
}

// NewRootCommand creates the root command for seqplay.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "seqplay",
		Short: "Play point-cloud sequences through the particle sync engine",
		Long: `seqplay drives the particle sync engine against an in-memory host.

It resolves frame files, loads them, resizes the particle buffer, writes
world-space positions and the color channel, and reports what each frame did.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "also log to this file (rotated)")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "no console logging")

	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))

	return cmd
}

// loadConfig loads configuration and initializes logging.
func loadConfig(opts *RootOptions, o config.Overrides) (*config.Config, error) {
	o.Debug = o.Debug || opts.Debug
	if opts.LogFile != "" {
		o.LogFile = opts.LogFile
	}

	cfg, err := config.Load(opts.ConfigPath, o)
	if err != nil {
		return nil, err
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, !opts.Quiet); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

// buildSequence creates the sequence described by cfg. Relative paths are
// resolved against dir of the config file when one was given.
func buildSequence(opts *RootOptions, cfg *config.Config) (*sequence.Sequence, error) {
	base := ""
	if opts.ConfigPath != "" {
		base = filepath.Dir(opts.ConfigPath)
	}
	resolve := func(p string) string {
		if base == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	if len(cfg.Sequence.Files) > 0 {
		paths := make([]string, len(cfg.Sequence.Files))
		for i, f := range cfg.Sequence.Files {
			paths[i] = resolve(f)
		}
		return sequence.New(paths)
	}
	return sequence.FromPattern(resolve(cfg.Sequence.Dir), cfg.Sequence.Pattern)
}
