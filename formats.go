package client

import (
	"context"
	"fmt"
	"net/http"
)

// ListFormats returns every format the service can read or write.
func (c *client) ListFormats(ctx context.Context) ([]Format, error) {
	var formats []Format
	if err := c.do(c.newRequest(ctx), http.MethodGet, EndpointFormats, "list formats", &formats); err != nil {
		return nil, err
	}
	return formats, nil
}

// ConversionsFrom returns the target formats reachable from one source format.
func (c *client) ConversionsFrom(ctx context.Context, format string) ([]Format, error) {
	if format == "" {
		return nil, ErrEmptyFormat
	}

	var formats []Format
	req := c.newRequest(ctx).SetPathParam("format", format)

	if err := c.do(req, http.MethodGet, EndpointFormatConversions, "conversions from", &formats); err != nil {
		return nil, fmt.Errorf("conversions from %s: %w", format, err)
	}

	return formats, nil
}

// IsConversionSupported checks one source/target pair.
func (c *client) IsConversionSupported(ctx context.Context, source, target string) (bool, error) {
	if source == "" || target == "" {
		return false, ErrEmptyFormat
	}

	var pair ConversionPair
	req := c.newRequest(ctx).
		SetPathParam("source", source).
		SetPathParam("target", target)

	if err := c.do(req, http.MethodGet, EndpointFormatPair, "check conversion pair", &pair); err != nil {
		return false, fmt.Errorf("check %s to %s: %w", source, target, err)
	}

	return pair.Supported, nil
}

// SupportedConversions returns the full source-to-targets mapping.
func (c *client) SupportedConversions(ctx context.Context) (map[string][]string, error) {
	var mapping map[string][]string
	if err := c.do(c.newRequest(ctx), http.MethodGet, EndpointSupportedConversions, "supported conversions", &mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}
