package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "intermodal",
	Short: "Inspect, validate and convert envelope streams",
	Long: `intermodal works with streams of self-describing data envelopes:
YAML blocks of manifest+content separated by "---" lines.

Examples:
  intermodal validate stream.yaml
  intermodal manifests stream.yaml
  cat stream.yaml | intermodal convert --to json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
}

// openInput resolves a positional file argument; absent or "-" means stdin.
// The caller closes the returned reader.
func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(args[0])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := newLogger()
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
