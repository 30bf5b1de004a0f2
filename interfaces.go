package client

import (
	"context"
	"io"
	"time"
)

// Info provides metadata about the client
type Info interface {
	Name() string
	Version() string
}

// Converter starts conversion jobs from local files or remote URLs
type Converter interface {
	Convert(ctx context.Context, sourcePath, targetFormat string, opts *ConversionOptions) (*ConversionJob, error)
	ConvertURL(ctx context.Context, sourceURL, targetFormat string, opts *ConversionOptions) (*ConversionJob, error)
}

// Jobs tracks, waits on, and cleans up conversion jobs
type Jobs interface {
	GetJob(ctx context.Context, jobID string) (*ConversionJob, error)
	CancelJob(ctx context.Context, jobID string) error
	GetDownloadInfo(ctx context.Context, jobID string) (*DownloadInfo, error)
	DeleteResult(ctx context.Context, jobID string) error
	WaitForCompletion(ctx context.Context, jobID string, pollInterval time.Duration) (*ConversionJob, error)
}

// Uploader handles the chunked upload flow for large source files
type Uploader interface {
	InitUpload(ctx context.Context, filename string, fileSize int64, targetFormat string, opts *ConversionOptions) (*UploadSession, error)
	UploadChunk(ctx context.Context, sessionID string, index int, chunk []byte) error
	CompleteUpload(ctx context.Context, sessionID string) (*ConversionJob, error)
	UploadLargeFile(ctx context.Context, sourcePath, targetFormat string, params *UploadParams) (*ConversionJob, error)
}

// Formats discovers supported formats and conversion pairs
type Formats interface {
	ListFormats(ctx context.Context) ([]Format, error)
	ConversionsFrom(ctx context.Context, format string) ([]Format, error)
	IsConversionSupported(ctx context.Context, source, target string) (bool, error)
	SupportedConversions(ctx context.Context) (map[string][]string, error)
}

// Downloader fetches converted artifacts from pre-signed URLs
type Downloader interface {
	DownloadFile(ctx context.Context, url string) ([]byte, error)
	DownloadFileTo(ctx context.Context, url string, dst io.Writer) error
}

// AccountService exposes account and service health lookups
type AccountService interface {
	GetAccount(ctx context.Context) (*Account, error)
	Health(ctx context.Context) (*Health, error)
}

// Client combines all Convertly operations
type Client interface {
	Info
	Converter
	Jobs
	Uploader
	Formats
	Downloader
	AccountService
}
