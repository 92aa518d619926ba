package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/sessid"
	"github.com/MrEthical07/sessid/identifier"
	"github.com/MrEthical07/sessid/signed"
	"github.com/spf13/cobra"
)

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print plain 24-character identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("-n must be > 0")
			}
			engine, err := opts.engine(false, nil)
			if err != nil {
				return err
			}
			defer engine.Close()

			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				id, err := engine.Generate()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of identifiers")
	return cmd
}

func newSignCommand(opts *rootOptions) *cobra.Command {
	var (
		count   int
		expires time.Duration
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print signed 88-character identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("-n must be > 0")
			}
			engine, err := opts.engine(true, func(cfg *sessid.Config) {
				if cmd.Flags().Changed("expires") {
					cfg.Signer.Expires = expires
				}
			})
			if err != nil {
				return err
			}
			defer engine.Close()

			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				sid, err := engine.Issue(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, sid.SignedText())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of identifiers")
	cmd.Flags().DurationVar(&expires, "expires", 0, "Signer expiry window; pass the same value to verify")
	return cmd
}

func newVerifyCommand(opts *rootOptions) *cobra.Command {
	var expires time.Duration
	cmd := &cobra.Command{
		Use:   "verify <signed-identifier>",
		Short: "Check a signed identifier; exits non-zero when invalid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine(true, func(cfg *sessid.Config) {
				if cmd.Flags().Changed("expires") {
					cfg.Signer.Expires = expires
				}
			})
			if err != nil {
				return err
			}
			defer engine.Close()

			sid, err := engine.ParseSigned(args[0])
			if err != nil {
				return fmt.Errorf("invalid: %s", describeRejection(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid %s\n", sid.Identifier())
			return nil
		},
	}
	cmd.Flags().DurationVar(&expires, "expires", 0, "Reject identifiers older than this (0 disables)")
	return cmd
}

func describeRejection(err error) string {
	if reason, ok := signed.ReasonOf(err); ok {
		return string(reason)
	}
	var fe *identifier.FormatError
	if errors.As(err, &fe) {
		return "malformed: " + fe.Reason
	}
	return err.Error()
}

// inspection is the JSON shape printed by inspect.
type inspection struct {
	Identifier string    `json:"identifier"`
	Time       uint32    `json:"time"`
	Timestamp  time.Time `json:"timestamp"`
	Machine    string    `json:"machine"`
	Process    uint16    `json:"process"`
	Counter    uint32    `json:"counter"`
	Signature  string    `json:"signature,omitempty"`
	Valid      *bool     `json:"valid,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

func newInspectCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <identifier>",
		Short: "Decode a 24- or 88-character identifier into its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine(false, nil)
			if err != nil {
				return err
			}
			defer engine.Close()

			report, err := inspect(cmd.Context(), engine, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}

// inspect decodes text. Signed input is validated only when the engine has
// a secret.
func inspect(_ context.Context, engine *sessid.Engine, text string) (inspection, error) {
	var signature string
	switch len(text) {
	case identifier.TextSize:
	case signed.TextSize:
		signature = text[identifier.TextSize:]
		text = text[:identifier.TextSize]
	default:
		return inspection{}, &identifier.FormatError{Length: len(text), Reason: "expected 24 or 88 characters"}
	}

	id, err := engine.Parse(text)
	if err != nil {
		return inspection{}, err
	}

	report := inspection{
		Identifier: id.String(),
		Time:       id.Time,
		Timestamp:  id.Timestamp(),
		Machine:    fmt.Sprintf("%06x", id.Machine),
		Process:    id.Process,
		Counter:    id.Counter,
		Signature:  signature,
	}
	if signature == "" {
		return report, nil
	}

	_, err = engine.ParseSigned(text + signature)
	switch {
	case errors.Is(err, sessid.ErrSignerNotConfigured):
	case err != nil:
		valid := false
		report.Valid = &valid
		report.Reason = describeRejection(err)
	default:
		valid := true
		report.Valid = &valid
	}
	return report, nil
}
