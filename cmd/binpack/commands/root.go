// Package commands implements the binpack command line tool.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lk2023060901/binpack-go/application"
	"github.com/lk2023060901/binpack-go/pkg/binpack"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootOptions 保存全局 flag 以及 PersistentPreRunE 初始化出的 Application。
type rootOptions struct {
	configFile string
	strict     bool
	app        *application.Application
}

func (o *rootOptions) codec() *binpack.Codec {
	return o.app.Codec()
}

// NewRootCmd 创建完整的命令树。每次调用都返回独立的 flag 状态。
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "binpack",
		Short: "binpack - format-string driven binary pack/unpack",
		Long: `binpack encodes values into bytes and decodes bytes back into named
values according to a compact format string such as "nA5N*" or "nlen/A5name/N*ids".

Use "binpack [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			app := application.New()
			var overrides []binpack.Option
			if cmd.Flags().Changed("strict") {
				overrides = append(overrides, binpack.WithStrict(opts.strict))
			}
			if err := app.Init(opts.configFile, overrides...); err != nil {
				return err
			}
			opts.app = app
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.app != nil {
				opts.app.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: ./binpack.yaml, or $BINPACK_CONFIG_FILE_PATH)")
	rootCmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "treat unknown format codes and every warning as errors")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPackCmd(opts))
	rootCmd.AddCommand(newUnpackCmd(opts))
	rootCmd.AddCommand(newExplainCmd())

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd
}

// Execute runs the root command, canceling the context on SIGINT/SIGTERM.
// This is called by main.main().
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "binpack %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}
