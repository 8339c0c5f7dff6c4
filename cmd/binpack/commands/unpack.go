package commands

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lk2023060901/binpack-go/internal/json"
	"github.com/lk2023060901/binpack-go/pkg/binpack"
)

type unpackOptions struct {
	inFile     string
	input      string
	recordSize int
	framed     bool
	pretty     bool
}

func newUnpackCmd(root *rootOptions) *cobra.Command {
	opts := &unpackOptions{}

	cmd := &cobra.Command{
		Use:   "unpack FORMAT",
		Short: "Decode bytes according to a format string",
		Long: `Decode bytes from stdin (or --in) according to FORMAT and print the
values as a JSON object in format order.

Unnamed values are keyed by position. a/A values are printed as base64,
h/H values as lowercase hex text.

With --record-size or --framed the input is split into independent records
that are decoded concurrently and printed one JSON object per line.

Examples:
  # Decode a single record
  binpack pack nA5 258 ab | binpack unpack nlen/A5name

  # Decode fixed size records from a hex dump
  binpack unpack 'Nid/nport' --in dump.hex --input hex --record-size 6`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.inFile, "in", "", "read input from file instead of stdin")
	cmd.Flags().StringVar(&opts.input, "input", "raw", "Input encoding (raw|hex|base64)")
	cmd.Flags().IntVar(&opts.recordSize, "record-size", 0, "split input into records of this many bytes")
	cmd.Flags().BoolVar(&opts.framed, "framed", false, "split input into 4-byte length-prefixed records")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	cmd.MarkFlagsMutuallyExclusive("record-size", "framed")
	return cmd
}

func runUnpack(cmd *cobra.Command, root *rootOptions, opts *unpackOptions, f string) error {
	enc, err := ParseEncoding(opts.input)
	if err != nil {
		return err
	}
	in, err := openInput(cmd.InOrStdin(), opts.inFile)
	if err != nil {
		return err
	}
	defer in.Close()

	codec := root.codec()
	out := cmd.OutOrStdout()

	// 单条原始输入直接流式解码，不读入整个输入。
	if enc == EncodingRaw && !opts.framed && opts.recordSize == 0 {
		values, err := codec.Unpack(cmd.Context(), f, in)
		if werr := writeValues(out, values, opts.pretty); werr != nil {
			return werr
		}
		return err
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	data, err := enc.decode(raw)
	if err != nil {
		return fmt.Errorf("decode %s input: %w", enc, err)
	}

	if !opts.framed && opts.recordSize == 0 {
		values, err := codec.Unpack(cmd.Context(), f, bytes.NewReader(data))
		if werr := writeValues(out, values, opts.pretty); werr != nil {
			return werr
		}
		return err
	}

	records, err := splitRecords(data, opts.recordSize, opts.framed)
	if err != nil {
		return err
	}
	results, err := codec.UnpackRecords(cmd.Context(), f, records)
	for _, values := range results {
		if werr := writeValues(out, values, opts.pretty); werr != nil {
			return werr
		}
	}
	return err
}

// writeValues 输出一行 JSON，values 为 nil 时输出 null。
func writeValues(w io.Writer, values *binpack.Values, pretty bool) error {
	if values == nil {
		_, err := io.WriteString(w, "null\n")
		return err
	}
	data, err := values.MarshalJSON()
	if err != nil {
		return err
	}
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
