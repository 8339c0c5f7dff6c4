package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lk2023060901/binpack-go/internal/framer"
	"github.com/lk2023060901/binpack-go/internal/json"
)

type packOptions struct {
	argsJSON string
	output   string
	outFile  string
	framed   bool
}

func newPackCmd(root *rootOptions) *cobra.Command {
	opts := &packOptions{}

	cmd := &cobra.Command{
		Use:   "pack FORMAT [ARGS...]",
		Short: "Encode arguments according to a format string",
		Long: `Encode arguments into bytes according to FORMAT.

Command line arguments are passed as strings and converted per code:
numeric codes parse a leading decimal number, a/A/h/H take the text as is.
Use --args-json to pass typed values as a JSON array instead.

Examples:
  # Big-endian uint16 followed by a space padded 5 byte string
  binpack pack nA5 258 ab --output hex

  # Typed arguments, length-prefixed frame written to a file
  binpack pack 'CN*' --args-json '[1, 10, 20, 30]' --framed --out record.bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, root, opts, args[0], args[1:])
		},
	}

	cmd.Flags().StringVar(&opts.argsJSON, "args-json", "", "arguments as a JSON array (replaces positional ARGS)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "raw", "Output encoding (raw|hex|base64)")
	cmd.Flags().StringVar(&opts.outFile, "out", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&opts.framed, "framed", false, "prefix the output with a 4-byte big-endian length")
	return cmd
}

func runPack(cmd *cobra.Command, root *rootOptions, opts *packOptions, f string, raw []string) error {
	enc, err := ParseEncoding(opts.output)
	if err != nil {
		return err
	}

	var values []any
	if opts.argsJSON != "" {
		if len(raw) > 0 {
			return fmt.Errorf("positional arguments cannot be combined with --args-json")
		}
		if err := json.UnmarshalUseNumber([]byte(opts.argsJSON), &values); err != nil {
			return fmt.Errorf("parse --args-json: %w", err)
		}
	} else {
		values = make([]any, 0, len(raw))
		for _, s := range raw {
			values = append(values, s)
		}
	}

	data, err := root.codec().Pack(cmd.Context(), f, values...)
	if err != nil {
		return err
	}

	if opts.framed {
		var buf bytes.Buffer
		if err := framer.NewLengthPrefixedFramer(framer.DefaultMaxFrameSize).WriteFrame(&buf, data); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	out := enc.encode(data)
	if opts.outFile != "" {
		return os.WriteFile(opts.outFile, out, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
