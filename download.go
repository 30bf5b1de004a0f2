package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DownloadFile fetches a converted artifact from its pre-signed URL. The URL
// is unauthenticated, so the request goes through the transfer client and
// carries no credential.
func (c *client) DownloadFile(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrEmptyDownloadURL
	}

	resp, err := c.transferClient.R().
		SetContext(ctx).
		Get(normalizeDownloadURL(url))

	if err != nil {
		return nil, fmt.Errorf("download file from %s failed: %w", url, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("download file failed with status %d: %s", resp.StatusCode(), resp.Status())
	}

	data := resp.Body()
	if len(data) == 0 {
		return nil, fmt.Errorf("downloaded file is empty")
	}

	return data, nil
}

// DownloadFileTo streams a converted artifact into dst without buffering the
// whole body in memory.
func (c *client) DownloadFileTo(ctx context.Context, url string, dst io.Writer) error {
	if url == "" {
		return ErrEmptyDownloadURL
	}
	if dst == nil {
		return ErrNilWriter
	}

	return streamURL(ctx, c.transferClient, normalizeDownloadURL(url), dst)
}

// DownloadTo fetches the artifact to a local file. The fetch is independent
// of any API client: download URLs are pre-signed and unauthenticated.
func (d *DownloadInfo) DownloadTo(ctx context.Context, path string) error {
	if d.DownloadURL == "" {
		return ErrEmptyDownloadURL
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create download dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	tempClient := resty.New().
		SetTimeout(DefaultProcessingTimeout).
		SetRetryCount(DefaultMaxRetries)

	if err := streamURL(ctx, tempClient, normalizeDownloadURL(d.DownloadURL), f); err != nil {
		return err
	}

	return f.Sync()
}

func streamURL(ctx context.Context, rc *resty.Client, url string, dst io.Writer) error {
	resp, err := rc.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)

	if err != nil {
		return fmt.Errorf("download file from %s failed: %w", url, err)
	}

	body := resp.RawBody()
	if body != nil {
		defer body.Close()
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("download file failed with status %d: %s", resp.StatusCode(), resp.Status())
	}

	if _, err := io.Copy(dst, body); err != nil {
		return fmt.Errorf("write downloaded file: %w", err)
	}

	return nil
}

// Pre-signed URLs occasionally arrive with JSON-escaped ampersands.
func normalizeDownloadURL(url string) string {
	return strings.ReplaceAll(url, "\\u0026", "&")
}
