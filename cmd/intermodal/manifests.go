package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	intermodal "github.com/reoring/intermodal"
)

var manifestsCmd = &cobra.Command{
	Use:   "manifests [file]",
	Short: "Print a manifest summary line for every block in a stream",
	Long: `Manifests decodes only the manifest section of each block, the way a
generic router would, and prints one summary line per block. Blocks whose
manifest cannot be decoded are reported and skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runManifests,
}

func init() {
	rootCmd.AddCommand(manifestsCmd)
}

func runManifests(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	in, err := openInput(args)
	if err != nil {
		return err
	}
	r := intermodal.NewStreamReader(in)
	defer r.Close()

	ctx := cmd.Context()
	n := 0
	for {
		block, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		n++
		h, err := intermodal.DecodeHeader(ctx, block)
		if err != nil {
			logger.Warn().Int("block", n).Err(err).Msg("unreadable manifest")
			continue
		}
		m := h.Manifest
		fmt.Fprintf(cmd.OutOrStdout(), "%s/%s/%s v%d origin=%s ctime=%s labels=%d\n",
			m.Domain, m.Scope, m.Kind, m.Version, m.Origin,
			m.CTime.UTC().Format(time.RFC3339), len(m.Labels))
	}
}
