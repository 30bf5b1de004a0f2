package client

import "fmt"

// ConversionOptions accumulates the optional parameters of a conversion.
// Setters chain; Build validates and freezes the result. A zero value is
// usable and builds an empty payload.
type ConversionOptions struct {
	quality        int
	qualitySet     bool
	resolution     string
	bitrate        string
	sampleRate     int
	outputFilename string
	webhookURL     string
	extra          map[string]any
	metadata       map[string]any
}

func NewConversionOptions() *ConversionOptions {
	return &ConversionOptions{}
}

// Quality sets output quality in percent. Valid range is 1-100; out-of-range
// values are rejected by Build before any network call.
func (o *ConversionOptions) Quality(q int) *ConversionOptions {
	o.quality = q
	o.qualitySet = true
	return o
}

// Resolution sets the output resolution, e.g. "1920x1080".
func (o *ConversionOptions) Resolution(r string) *ConversionOptions {
	o.resolution = r
	return o
}

// Bitrate sets the output bitrate, e.g. "320k".
func (o *ConversionOptions) Bitrate(b string) *ConversionOptions {
	o.bitrate = b
	return o
}

// SampleRate sets the audio sample rate in Hz.
func (o *ConversionOptions) SampleRate(hz int) *ConversionOptions {
	o.sampleRate = hz
	return o
}

// OutputFilename overrides the server-chosen name of the converted file.
func (o *ConversionOptions) OutputFilename(name string) *ConversionOptions {
	o.outputFilename = name
	return o
}

// WebhookURL registers a callback the service notifies on job completion.
func (o *ConversionOptions) WebhookURL(url string) *ConversionOptions {
	o.webhookURL = url
	return o
}

// Set stores an arbitrary vendor option the typed setters do not cover.
func (o *ConversionOptions) Set(key string, value any) *ConversionOptions {
	if o.extra == nil {
		o.extra = make(map[string]any)
	}
	o.extra[key] = value
	return o
}

// Metadata attaches an opaque key/value pair echoed back on the job.
func (o *ConversionOptions) Metadata(key string, value any) *ConversionOptions {
	if o.metadata == nil {
		o.metadata = make(map[string]any)
	}
	o.metadata[key] = value
	return o
}

// Build validates the accumulated options and returns the request payload
// fragment, e.g. {"options": {"quality": 90}, "metadata": {...}}.
func (o *ConversionOptions) Build() (map[string]any, error) {
	if o == nil {
		return map[string]any{}, nil
	}

	if o.qualitySet && (o.quality < 1 || o.quality > 100) {
		return nil, localValidationError(
			fmt.Sprintf("quality must be between 1 and 100, got %d", o.quality), nil)
	}

	options := make(map[string]any)
	if o.qualitySet {
		options["quality"] = o.quality
	}
	if o.resolution != "" {
		options["resolution"] = o.resolution
	}
	if o.bitrate != "" {
		options["bitrate"] = o.bitrate
	}
	if o.sampleRate > 0 {
		options["sample_rate"] = o.sampleRate
	}
	if o.outputFilename != "" {
		options["output_filename"] = o.outputFilename
	}
	if o.webhookURL != "" {
		options["webhook_url"] = o.webhookURL
	}
	for k, v := range o.extra {
		options[k] = v
	}

	payload := map[string]any{"options": options}
	if len(o.metadata) > 0 {
		md := make(map[string]any, len(o.metadata))
		for k, v := range o.metadata {
			md[k] = v
		}
		payload["metadata"] = md
	}

	return payload, nil
}
