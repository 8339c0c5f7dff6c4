package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lk2023060901/binpack-go/internal/binpack/format"
	"github.com/lk2023060901/binpack-go/pkg/binpack"
	"github.com/lk2023060901/binpack-go/pkg/util/typeutil"
)

func newExplainCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "explain FORMAT",
		Short: "Show how a format string is compiled",
		Long: `Compile FORMAT and print one row per segment, followed by any
characters that were dropped as unknown codes.

Examples:
  binpack explain 'nA5x2N*'
  binpack explain 'nlen/A5name/N*ids' --mode unpack`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			return writeExplain(cmd.OutOrStdout(), args[0], m)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "pack", "Compile mode (pack|unpack)")
	return cmd
}

func parseMode(s string) (binpack.Mode, error) {
	switch strings.ToLower(s) {
	case "pack":
		return binpack.ModePack, nil
	case "unpack":
		return binpack.ModeUnpack, nil
	default:
		return 0, fmt.Errorf("invalid mode %q (valid: pack, unpack)", s)
	}
}

func writeExplain(w io.Writer, f string, mode binpack.Mode) error {
	segments, dropped := binpack.Explain(f, mode)

	table := newTable(w)
	table.SetHeader([]string{"#", "Code", "Kind", "Repeat", "Width", "Name"})
	for i, seg := range segments {
		width := "-"
		if seg.Width > 0 {
			width = strconv.Itoa(seg.Width)
		}
		table.Append([]string{
			strconv.Itoa(i),
			string(seg.Code),
			seg.Kind.String(),
			seg.Repeat.String(),
			width,
			seg.Name,
		})
	}
	table.Render()

	if len(dropped) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\ndropped (supported codes: %s):\n", strings.Join(supportedCodes(), " "))
	table = newTable(w)
	table.SetHeader([]string{"Offset", "Code", "Text"})
	for _, d := range dropped {
		table.Append([]string{strconv.Itoa(d.Offset), fmt.Sprintf("%q", d.Code), d.Text})
	}
	table.Render()
	return nil
}

func supportedCodes() []string {
	codes := typeutil.Sorted(format.Codes)
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, string(c))
	}
	return out
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}
