package main

import (
	"time"

	"github.com/spf13/cobra"

	client "github.com/convertly/convertly-go"
)

type cliOptions struct {
	apiKey            string
	baseURL           string
	timeout           time.Duration
	processingTimeout time.Duration
	maxRetries        int
	configPath        string
	failLogPath       string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           "convertly",
		Short:         "Convertly file-conversion API CLI helper",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Convertly API key (or set CONVERTLY_API_KEY, or config file)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Base URL for the Convertly API")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "HTTP timeout for API requests")
	cmd.PersistentFlags().DurationVar(&opts.processingTimeout, "processing-timeout", client.DefaultProcessingTimeout, "Timeout for long running operations")
	cmd.PersistentFlags().IntVar(&opts.maxRetries, "max-retries", client.DefaultMaxRetries, "Retries for transient request failures")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to TOML config file (default ~/.config/convertly/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.failLogPath, "fail-log", "fail.log", "Path to write failed task logs")

	cmd.AddCommand(newConvertCmd(opts))
	cmd.AddCommand(newJobCmd(opts))
	cmd.AddCommand(newFormatsCmd(opts))
	cmd.AddCommand(newAccountCmd(opts))

	return cmd
}
