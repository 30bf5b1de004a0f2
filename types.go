package client

import (
	"encoding/json"
	"time"

	"github.com/dustin/go-humanize"
)

// JobStatus enumerates conversion job states.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusUnknown    JobStatus = "unknown"
)

// Terminal reports whether no further status transition will occur.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// UnmarshalJSON normalizes unrecognized status strings to JobStatusUnknown.
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch JobStatus(raw) {
	case JobStatusQueued, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		*s = JobStatus(raw)
	default:
		*s = JobStatusUnknown
	}
	return nil
}

// ConversionJob is an immutable snapshot of a server-side conversion task.
// It does not auto-refresh; fetch the job again for a newer snapshot.
type ConversionJob struct {
	ID             string         `json:"id"`
	Status         JobStatus      `json:"status"`
	SourceFormat   string         `json:"source_format"`
	TargetFormat   string         `json:"target_format"`
	Result         *JobResult     `json:"result,omitempty"`
	Error          *JobError      `json:"error,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ProcessingTime float64        `json:"processing_time,omitempty"` // seconds
}

// JobResult holds the converted artifact's location once a job completes.
type JobResult struct {
	DownloadURL string    `json:"download_url"`
	FileSize    int64     `json:"file_size"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FormattedSize renders the result size human-readably, e.g. "1.5 MB".
func (r *JobResult) FormattedSize() string {
	return humanize.Bytes(uint64(r.FileSize))
}

// JobError carries the vendor failure detail for a failed job.
type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UploadSession identifies one chunked-upload flow. Expiry is advisory: the
// server enforces its own deadline, this value only mirrors it.
type UploadSession struct {
	ID        string            `json:"session_id"`
	ExpiresAt time.Time         `json:"expires_at"`
	Links     map[string]string `json:"links,omitempty"`
}

// IsExpired reports whether the session's advisory deadline has passed.
func (s *UploadSession) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// DownloadInfo describes a converted artifact available for download.
type DownloadInfo struct {
	DownloadURL string    `json:"download_url"`
	Filename    string    `json:"filename"`
	Format      string    `json:"format"`
	FileSize    int64     `json:"file_size"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FormattedSize renders the file size human-readably.
func (d *DownloadInfo) FormattedSize() string {
	return humanize.Bytes(uint64(d.FileSize))
}

// IsExpired reports whether the download URL's advisory deadline has passed.
func (d *DownloadInfo) IsExpired() bool {
	return !d.ExpiresAt.IsZero() && time.Now().After(d.ExpiresAt)
}

// Account describes the authenticated account's plan and credit balance.
type Account struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Plan             string `json:"plan"`
	CreditsRemaining int64  `json:"credits_remaining"`
	CreditsUsed      int64  `json:"credits_used"`
}

// Health is the service liveness report.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Format describes one file format the service can read or write.
type Format struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Category string `json:"category"`
}

// ConversionPair reports whether one source/target pairing is supported.
type ConversionPair struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Supported bool   `json:"supported"`
}
