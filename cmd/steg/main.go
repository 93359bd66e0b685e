package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/svanichkin/steg/internal/config"
)

var (
	cfg     = config.DefaultConfig()
	cfgPath string
	log     = zerolog.Nop()
)

var exampleUsage = strings.TrimSpace(`
  steg encode -i cover.png -o stego.png -m "Hello world!"
  steg encode -i cover.png -o stego.qoi -p secret.bin -g 2 -c zstd
  steg decode stego.png -o secret.bin
  steg capacity *.png
`)

// newRootCmd builds the command tree with fresh flag sets and resets the
// settings they bind to.
func newRootCmd() *cobra.Command {
	cfg = config.DefaultConfig()
	cfgPath = ""
	log = zerolog.Nop()

	root := &cobra.Command{
		Use:               "steg",
		Short:             "Hide data in the low bits of lossless images",
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadSettings,
	}

	f := root.PersistentFlags()
	f.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.steg/config.toml)")
	f.IntVarP(&cfg.Granularity, "granularity", "g", cfg.Granularity, "low bits rewritten per channel (1-4)")
	f.StringVarP(&cfg.Compression, "compression", "c", cfg.Compression, "payload compression (none, gzip, zstd)")
	f.StringVar(&cfg.Format, "format", cfg.Format, "output image format (png, bmp, tiff, qoi); default from extension")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newInspectCmd(),
		newCapacityCmd(),
		newPlanesCmd(),
		newDiffCmd(),
	)
	return root
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// loadSettings resolves cfg from the config file, STEG_* variables and flags,
// then builds the logger.
func loadSettings(cmd *cobra.Command, args []string) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && config.FileExists(cfgFile) {
		fc, err := config.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		config.ApplyFileConfig(&cfg, fc, changed)
	} else if cfgPath != "" {
		return fmt.Errorf("config file %s not found", cfgPath)
	}

	if err := config.ApplyEnvConfig(&cfg, changed); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log = config.NewLogger(cmd.ErrOrStderr(), cfg.Level())
	log.Debug().Interface("config", cfg).Str("file", cfgFile).Msg("configuration")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "steg:", err)
		os.Exit(1)
	}
}
