package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Convert uploads a local file and starts its conversion in one multipart
// request. Suitable for small files; large files should go through
// UploadLargeFile.
func (c *client) Convert(ctx context.Context, sourcePath, targetFormat string, opts *ConversionOptions) (*ConversionJob, error) {
	if sourcePath == "" {
		return nil, ErrEmptySourcePath
	}
	if targetFormat == "" {
		return nil, ErrEmptyTargetFormat
	}

	if err := checkReadableFile(sourcePath); err != nil {
		return nil, err
	}

	fields, err := multipartFields(targetFormat, opts)
	if err != nil {
		return nil, err
	}

	var job ConversionJob
	req := c.newRequest(ctx).
		SetFile("file", sourcePath).
		SetMultipartFormData(fields)

	if err := c.do(req, http.MethodPost, EndpointConvert, "convert", &job); err != nil {
		return nil, fmt.Errorf("convert %s: %w", filepath.Base(sourcePath), err)
	}

	return &job, nil
}

// ConvertURL starts a conversion from a file the service fetches itself.
func (c *client) ConvertURL(ctx context.Context, sourceURL, targetFormat string, opts *ConversionOptions) (*ConversionJob, error) {
	if sourceURL == "" {
		return nil, ErrEmptySourceURL
	}
	if targetFormat == "" {
		return nil, ErrEmptyTargetFormat
	}

	body, err := opts.Build()
	if err != nil {
		return nil, err
	}
	body["url"] = sourceURL
	body["target_format"] = targetFormat

	var job ConversionJob
	req := c.newRequest(ctx).SetBody(body)

	if err := c.do(req, http.MethodPost, EndpointConvertURL, "convert url", &job); err != nil {
		return nil, fmt.Errorf("convert url: %w", err)
	}

	return &job, nil
}

// GetAccount returns the authenticated account's plan and credit balance.
func (c *client) GetAccount(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.do(c.newRequest(ctx), http.MethodGet, EndpointAccount, "get account", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Health checks service liveness.
func (c *client) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.do(c.newRequest(ctx), http.MethodGet, EndpointHealth, "health check", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// checkReadableFile fails fast, before any network call, when the source file
// is missing or cannot be opened for reading.
func checkReadableFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return localValidationError(fmt.Sprintf("source file %s does not exist", path), err)
	}
	if info.IsDir() {
		return localValidationError(fmt.Sprintf("source path %s is a directory", path), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return localValidationError(fmt.Sprintf("source file %s cannot be read", path), err)
	}
	return f.Close()
}

// multipartFields flattens target format and built options into form fields;
// structured values are carried as JSON strings.
func multipartFields(targetFormat string, opts *ConversionOptions) (map[string]string, error) {
	payload, err := opts.Build()
	if err != nil {
		return nil, err
	}

	fields := map[string]string{"target_format": targetFormat}
	for _, key := range []string{"options", "metadata"} {
		value, ok := payload[key]
		if !ok {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		fields[key] = string(encoded)
	}

	return fields, nil
}
