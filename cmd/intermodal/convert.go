package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	intermodal "github.com/reoring/intermodal"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert between a YAML envelope stream and JSON lines",
	Long: `Convert re-encodes envelopes between the two wire formats:

  --to json   read a "---"-separated YAML stream, emit one JSON object per line
  --to yaml   read JSON objects one per line, emit a YAML stream

Every envelope is fully validated in both directions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "json", "target format: json or yaml")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	switch strings.ToLower(convertTo) {
	case "json":
		return yamlToJSON(cmd, in)
	case "yaml":
		return jsonToYAML(cmd, in)
	default:
		return fmt.Errorf("unknown target format %q (want json or yaml)", convertTo)
	}
}

func yamlToJSON(cmd *cobra.Command, in io.Reader) error {
	ctx := cmd.Context()
	r := intermodal.NewStreamReader(in)
	out := cmd.OutOrStdout()
	for {
		env, err := r.NextEnvelope(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		data, err := intermodal.EncodeJSON(ctx, env)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
			return err
		}
	}
}

func jsonToYAML(cmd *cobra.Command, in io.Reader) error {
	ctx := cmd.Context()
	w := intermodal.NewStreamWriter(cmd.OutOrStdout())
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		env, err := intermodal.DecodeJSON(ctx, []byte(line))
		if err != nil {
			return err
		}
		if err := w.Write(ctx, env); err != nil {
			return err
		}
	}
	return sc.Err()
}
