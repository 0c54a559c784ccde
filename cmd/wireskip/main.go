package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wireskip.dev/core/config"
	"wireskip.dev/core/envelope"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks failures caused by bad invocation (exit status 2).
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// usageArgs reports positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// group makes cmd print its help when run bare and reject unknown
// subcommands as usage errors.
func group(cmd *cobra.Command) *cobra.Command {
	cmd.Args = usageArgs(cobra.NoArgs)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error { return cmd.Help() }
	return cmd
}

type rootOptions struct {
	dir      string
	logLevel string
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			return 2
		}
		return 1
	}
	return 0
}

func newRootCmd(out io.Writer, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "wireskip",
		Short:         "wireskip: access keys, proofs of funding and withdrawals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(opts.logLevel)
			if err != nil {
				return usagef("invalid --log-level: %v", err)
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: errOut}).Level(level).With().Timestamp().Logger()
			if opts.dir == "" {
				dir, err := config.DefaultDir()
				if err != nil {
					return err
				}
				opts.dir = dir
			}
			return nil
		},
	}
	group(cmd)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Configuration directory (default: directory of the executable)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newInitCmd(opts),
		newKeyCmd(opts),
		newNonceCmd(),
		newPofCmd(opts),
		newAccesskeyCmd(opts),
		newWithdrawalCmd(),
	)
	return cmd
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write default configuration and generate the process key pair if missing",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Bootstrap(opts.dir, struct{}{}); err != nil {
				return err
			}
			cfg, err := config.Load[struct{}](opts.dir)
			if err != nil {
				return err
			}
			kp, err := cfg.KeyPair()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Public key: %s\n", kp.Public())
			fmt.Fprintf(cmd.OutOrStdout(), "Config dir: %s\n", opts.dir)
			return nil
		},
	}
}

func loadKeyPair(opts *rootOptions) (envelope.KeyPair, error) {
	cfg, err := config.Load[struct{}](opts.dir)
	if err != nil {
		return envelope.KeyPair{}, err
	}
	return cfg.KeyPair()
}

func newKeyCmd(opts *rootOptions) *cobra.Command {
	cmd := group(&cobra.Command{
		Use:   "key",
		Short: "Inspect the process key pair",
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "public",
		Short: "Print the configured public key",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := loadKeyPair(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), kp.Public())
			return nil
		},
	})
	return cmd
}
