package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wireskip.dev/core/envelope"
	"wireskip.dev/core/keys"
	"wireskip.dev/core/model"
	"wireskip.dev/core/nonce"
	"wireskip.dev/core/utime"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func newNonceCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "nonce",
		Short: "Print a random alphanumeric nonce",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if n <= 0 {
				return usagef("--len must be positive")
			}
			s, err := nonce.New(n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "len", 32, "Nonce length")
	return cmd
}

type signOptions struct {
	pofType  string
	ttl      time.Duration
	nonceLen int
	hash     string
}

func (o *signOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.pofType, "type", "", "Proof type (required)")
	cmd.Flags().DurationVar(&o.ttl, "ttl", time.Hour, "Proof validity")
	cmd.Flags().IntVar(&o.nonceLen, "nonce-len", 32, "Nonce length")
	cmd.Flags().StringVar(&o.hash, "hash", keys.HashNone, "Digest signed instead of the raw claim (sha256, sha512, sha3-256)")
}

func (o *signOptions) validate() error {
	if o.pofType == "" {
		return usagef("missing --type")
	}
	if o.ttl <= 0 {
		return usagef("--ttl must be positive")
	}
	if o.nonceLen <= 0 {
		return usagef("--nonce-len must be positive")
	}
	return nil
}

func (o *signOptions) sign(kp envelope.KeyPair, count int) ([]model.Pof, error) {
	exp := utime.After(time.Now(), o.ttl)
	pofs := make([]model.Pof, 0, count)
	for i := 0; i < count; i++ {
		n, err := nonce.New(o.nonceLen)
		if err != nil {
			return nil, err
		}
		p, err := keys.SignPof(kp, o.hash, o.pofType, n, exp)
		if err != nil {
			return nil, usageError{err}
		}
		pofs = append(pofs, p)
	}
	log.Info().Str("type", o.pofType).Int("count", count).Int64("expiration", exp).Msg("Signed proofs")
	return pofs, nil
}

func newPofCmd(opts *rootOptions) *cobra.Command {
	cmd := group(&cobra.Command{
		Use:   "pof",
		Short: "Proof-of-funding helpers",
	})
	so := &signOptions{}
	sign := &cobra.Command{
		Use:   "sign",
		Short: "Sign a proof with the process key pair and print it as JSON",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := so.validate(); err != nil {
				return err
			}
			kp, err := loadKeyPair(opts)
			if err != nil {
				return err
			}
			pofs, err := so.sign(kp, 1)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pofs[0])
		},
	}
	so.register(sign)
	cmd.AddCommand(sign)
	return cmd
}

func newAccesskeyCmd(opts *rootOptions) *cobra.Command {
	cmd := group(&cobra.Command{
		Use:   "accesskey",
		Short: "Issue and inspect access keys",
	})

	so := &signOptions{}
	var endpoint, version string
	var count int
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access key whose contract is the process key pair",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := so.validate(); err != nil {
				return err
			}
			if count < 0 {
				return usagef("--count must not be negative")
			}
			u, err := model.ParseURL(endpoint)
			if err != nil {
				return usagef("invalid --endpoint: %v", err)
			}
			v, err := model.ParseVersion(version)
			if err != nil {
				return usagef("invalid --version: %v", err)
			}
			kp, err := loadKeyPair(opts)
			if err != nil {
				return err
			}
			pofs, err := so.sign(kp, count)
			if err != nil {
				return err
			}
			ak := model.NewAccesskey(v, model.Contract{Endpoint: u, PublicKey: kp.Public()}, pofs...)
			return writeJSON(cmd.OutOrStdout(), ak)
		},
	}
	so.register(issue)
	issue.Flags().StringVar(&endpoint, "endpoint", "", "Contract endpoint URL (required)")
	issue.Flags().StringVar(&version, "version", "1.0.0", "Access key format version")
	issue.Flags().IntVar(&count, "count", 1, "Number of proofs")

	var verify bool
	var hash, expect string
	inspect := &cobra.Command{
		Use:   "inspect <file|->",
		Short: "Decode an access key and summarize it",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var ak model.Accesskey
			if err := json.Unmarshal(b, &ak); err != nil {
				return fmt.Errorf("decode access key: %w", err)
			}
			id, err := ak.Fingerprint()
			if err != nil {
				return err
			}
			if expect != "" {
				ok, err := ak.HasFingerprint(expect)
				if err != nil {
					return usagef("invalid --expect: %v", err)
				}
				if !ok {
					return fmt.Errorf("fingerprint mismatch: got %s, want %s", id, expect)
				}
			}
			w := cmd.OutOrStdout()
			now := time.Now()
			fmt.Fprintf(w, "Fingerprint: %s\n", id)
			fmt.Fprintf(w, "Version:     %s\n", ak.Version)
			fmt.Fprintf(w, "Endpoint:    %s\n", ak.Contract.Endpoint)
			fmt.Fprintf(w, "Public key:  %s\n", ak.Contract.PublicKey)
			fmt.Fprintf(w, "Proofs:      %d\n", len(ak.Pofs))
			for i, p := range ak.Pofs {
				status := "valid"
				if p.Expired(now) {
					status = "expired"
				}
				if verify {
					ok, err := keys.VerifyPof(ak.Contract, hash, p)
					if err != nil {
						return usageError{err}
					}
					if !ok {
						status += ", bad signature"
					}
				}
				fmt.Fprintf(w, "  [%d] %s nonce=%s expires=%s (%s)\n",
					i, p.PofType, p.Nonce, p.ExpiresAt().Format(time.RFC3339), status)
			}
			return nil
		},
	}
	inspect.Flags().BoolVar(&verify, "verify", false, "Verify proof signatures against the contract key")
	inspect.Flags().StringVar(&hash, "hash", keys.HashNone, "Digest the proofs were signed over")
	inspect.Flags().StringVar(&expect, "expect", "", "Fail unless the access key has this fingerprint")

	cmd.AddCommand(issue, inspect)
	return cmd
}

func newWithdrawalCmd() *cobra.Command {
	cmd := group(&cobra.Command{
		Use:   "withdrawal",
		Short: "Create and advance withdrawal records",
	})

	var req model.WithdrawalRequest
	create := &cobra.Command{
		Use:   "new",
		Short: "Print a new pending withdrawal",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Amount <= 0 {
				return usagef("--amount must be positive")
			}
			if req.WType == "" || req.Destination == "" {
				return usagef("--type and --destination are required")
			}
			return writeJSON(cmd.OutOrStdout(), model.NewWithdrawal(req, time.Now()))
		},
	}
	create.Flags().Int64Var(&req.Amount, "amount", 0, "Amount to withdraw")
	create.Flags().StringVar(&req.WType, "type", "", "Withdrawal type")
	create.Flags().StringVar(&req.Destination, "destination", "", "Destination")

	var receipt string
	complete := &cobra.Command{
		Use:   "complete <file|->",
		Short: "Mark a pending withdrawal complete",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var w model.Withdrawal
			if err := json.Unmarshal(b, &w); err != nil {
				return fmt.Errorf("decode withdrawal: %w", err)
			}
			done, err := w.Complete(receipt, time.Now())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), done)
		},
	}
	complete.Flags().StringVar(&receipt, "receipt", "", "Receipt for the completed withdrawal")

	cmd.AddCommand(create, complete)
	return cmd
}
