package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/MrEthical07/sessid"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	secret     string
	logLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "sessid",
		Short:         "Generate, sign and verify session identifiers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("SESSID_CONFIG"), "YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&opts.secret, "secret", "", "HMAC secret (default $SESSID_SECRET)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", os.Getenv("SESSID_LOG_LEVEL"), "Log level: debug|info|warn|error")

	rootCmd.AddCommand(
		newGenerateCommand(opts),
		newSignCommand(opts),
		newVerifyCommand(opts),
		newInspectCommand(opts),
		newBenchCommand(opts),
	)
	return rootCmd
}

// config resolves file, environment and flag settings, in that order.
func (o *rootOptions) config() (sessid.Config, error) {
	cfg, err := sessid.LoadConfig(o.configPath)
	if err != nil {
		return sessid.Config{}, err
	}
	if err := sessid.ConfigFromEnv(&cfg); err != nil {
		return sessid.Config{}, err
	}
	if o.secret != "" {
		cfg.Signer.Secret = []byte(o.secret)
	}
	return cfg, nil
}

func (o *rootOptions) logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil || o.logLevel == "" {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

var errNoSecret = errors.New("no secret: pass --secret or set SESSID_SECRET")

// engine builds an Engine from the resolved config. mutate, when set, runs
// after flags are applied.
func (o *rootOptions) engine(requireSecret bool, mutate func(*sessid.Config)) (*sessid.Engine, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(&cfg)
	}
	if requireSecret && len(cfg.Signer.Secret) == 0 {
		return nil, errNoSecret
	}
	engine, err := sessid.New().WithConfig(cfg).WithLogger(o.logger()).Build()
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return engine, nil
}
