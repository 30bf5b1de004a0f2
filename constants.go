package client

import "time"

const (
	ServiceName    = "convertly"
	SDKVersion     = "1.0.0"
	DefaultBaseURL = "https://api.convertly.io"
	APIVersion     = "v2"

	DefaultTimeout           = 30 * time.Second
	DefaultConnectTimeout    = 10 * time.Second
	DefaultPollInterval      = 2 * time.Second
	DefaultProcessingTimeout = 5 * time.Minute
	DefaultMaxRetries        = 3

	RequestIDHeader = "X-Request-ID"
)

// Vendor codes and defaults applied when an error body omits them.
const (
	CodeUnknownError    = "UNKNOWN_ERROR"
	CodeValidationError = "VALIDATION_ERROR"

	defaultErrorMessage   = "Unknown error"
	defaultRetryAfterSecs = 60
	retryBackoffUnit      = time.Second
	defaultUserAgent      = ServiceName + "-go/" + SDKVersion
)

// API endpoints
const (
	EndpointAccount              = "/" + APIVersion + "/account"
	EndpointHealth               = "/" + APIVersion + "/health"
	EndpointConvert              = "/" + APIVersion + "/convert"
	EndpointConvertURL           = "/" + APIVersion + "/convert-url"
	EndpointJob                  = "/" + APIVersion + "/jobs/{id}"
	EndpointJobDownload          = "/" + APIVersion + "/jobs/{id}/download"
	EndpointJobDestroy           = "/" + APIVersion + "/jobs/{id}/destroy"
	EndpointUploadInit           = "/" + APIVersion + "/upload/init"
	EndpointUploadChunk          = "/" + APIVersion + "/upload/{session}/chunks/{index}"
	EndpointUploadComplete       = "/" + APIVersion + "/upload/{session}/complete"
	EndpointFormats              = "/" + APIVersion + "/formats"
	EndpointFormatConversions    = "/" + APIVersion + "/formats/{format}/conversions"
	EndpointFormatPair           = "/" + APIVersion + "/formats/{source}/to/{target}"
	EndpointSupportedConversions = "/" + APIVersion + "/formats/supported-conversions"
)
