package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	intermodal "github.com/reoring/intermodal"
	"github.com/reoring/intermodal/i18n"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate every block in an envelope stream",
	Long: `Validate reads a stream of "---"-separated blocks and decodes each one,
reporting every validation issue. Malformed blocks do not stop the scan;
the exit status is non-zero when any block fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	in, err := openInput(args)
	if err != nil {
		return err
	}
	r := intermodal.NewStreamReader(in)
	defer r.Close()

	ctx := cmd.Context()
	var total, bad int
	for {
		block, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		total++
		env, err := intermodal.DecodeBlock(ctx, block)
		if err != nil {
			bad++
			if iss, ok := intermodal.AsIssues(err); ok {
				for _, it := range iss {
					logger.Warn().
						Int("block", total).
						Str("path", it.Path).
						Str("code", it.Code).
						Str("detail", it.Message).
						Msg(i18n.T(it.Code, nil))
				}
			} else {
				logger.Warn().Int("block", total).Err(err).Msg("decode failed")
			}
			continue
		}
		logger.Debug().
			Int("block", total).
			Str("domain", env.Manifest.Domain).
			Str("kind", env.Manifest.Kind).
			Msg("block ok")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d blocks, %d invalid\n", total, bad)
	if bad > 0 {
		return fmt.Errorf("%d of %d blocks invalid", bad, total)
	}
	return nil
}
