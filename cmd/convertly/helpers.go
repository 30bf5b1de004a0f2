package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	client "github.com/convertly/convertly-go"
)

func buildClient(apiKey string, opts *cliOptions) (client.Client, error) {
	options := []client.Option{
		client.WithTimeout(opts.timeout),
		client.WithProcessingTimeout(opts.processingTimeout),
		client.WithMaxRetries(opts.maxRetries),
	}
	if opts.baseURL != "" {
		options = append(options, client.WithBaseURL(opts.baseURL))
	}
	return client.NewClient(apiKey, options...)
}

// resolveAPIKey layers flag > environment > config file.
func resolveAPIKey(opts *cliOptions) (string, error) {
	if opts.apiKey != "" {
		return opts.apiKey, nil
	}

	if env := os.Getenv("CONVERTLY_API_KEY"); env != "" {
		opts.apiKey = env
		return env, nil
	}

	cfg, err := loadFileConfig(opts.configPath)
	if err != nil {
		return "", err
	}
	if cfg != nil {
		if opts.baseURL == "" && cfg.BaseURL != "" {
			opts.baseURL = cfg.BaseURL
		}
		if cfg.APIKey != "" {
			opts.apiKey = cfg.APIKey
			return cfg.APIKey, nil
		}
	}

	return "", errors.New("api key is required (flag --api-key, CONVERTLY_API_KEY, or config file)")
}

func defaultDownloadName(urlStr, jobID string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return jobID + ".out"
	}

	if base := path.Base(parsed.Path); base != "" && base != "/" && base != "." {
		return base
	}

	return jobID + ".out"
}

func downloadJobResult(ctx context.Context, cli client.Client, jobID, targetPath string) (string, error) {
	info, err := cli.GetDownloadInfo(ctx, jobID)
	if err != nil {
		return "", err
	}

	if targetPath == "" {
		targetPath = info.Filename
		if targetPath == "" {
			targetPath = defaultDownloadName(info.DownloadURL, jobID)
		}
	}

	if err := info.DownloadTo(ctx, targetPath); err != nil {
		return "", err
	}

	return targetPath, nil
}

func printOut(cmd *cobra.Command, format string, args ...any) error {
	return logWith(cmd, slog.LevelInfo, format, args...)
}

func printErr(cmd *cobra.Command, format string, args ...any) error {
	return logWith(cmd, slog.LevelError, format, args...)
}

func logWith(cmd *cobra.Command, level slog.Level, format string, args ...any) error {
	logger := newLogger(cmd.OutOrStdout(), level)
	msg := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	logger.LogAttrs(cmd.Context(), level, msg, slog.Time("ts", time.Now()))
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}
