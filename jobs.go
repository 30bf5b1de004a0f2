package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// GetJob fetches a fresh snapshot of one conversion job.
func (c *client) GetJob(ctx context.Context, jobID string) (*ConversionJob, error) {
	if jobID == "" {
		return nil, ErrEmptyJobID
	}

	var job ConversionJob
	req := c.newRequest(ctx).SetPathParam("id", jobID)

	if err := c.do(req, http.MethodGet, EndpointJob, "get job", &job); err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}

	return &job, nil
}

// CancelJob asks the service to abort a queued or processing job.
func (c *client) CancelJob(ctx context.Context, jobID string) error {
	if jobID == "" {
		return ErrEmptyJobID
	}

	req := c.newRequest(ctx).SetPathParam("id", jobID)

	if err := c.do(req, http.MethodDelete, EndpointJob, "cancel job", nil); err != nil {
		return fmt.Errorf("cancel job %s: %w", jobID, err)
	}

	return nil
}

// GetDownloadInfo fetches the download metadata for a completed job.
func (c *client) GetDownloadInfo(ctx context.Context, jobID string) (*DownloadInfo, error) {
	if jobID == "" {
		return nil, ErrEmptyJobID
	}

	var info DownloadInfo
	req := c.newRequest(ctx).SetPathParam("id", jobID)

	if err := c.do(req, http.MethodGet, EndpointJobDownload, "get download info", &info); err != nil {
		return nil, fmt.Errorf("get download info for job %s: %w", jobID, err)
	}

	return &info, nil
}

// DeleteResult removes the converted artifact from the service's storage.
func (c *client) DeleteResult(ctx context.Context, jobID string) error {
	if jobID == "" {
		return ErrEmptyJobID
	}

	req := c.newRequest(ctx).SetPathParam("id", jobID)

	if err := c.do(req, http.MethodDelete, EndpointJobDestroy, "delete result", nil); err != nil {
		return fmt.Errorf("delete result for job %s: %w", jobID, err)
	}

	return nil
}

// WaitForCompletion polls the job until it reaches a terminal state or the
// processing timeout elapses. A job that ends "failed" is a normal return
// value; only exhausting the wait budget or context cancellation is an error.
// At least one status fetch always happens, even when the budget is smaller
// than one interval.
func (c *client) WaitForCompletion(ctx context.Context, jobID string, pollInterval time.Duration) (*ConversionJob, error) {
	if jobID == "" {
		return nil, ErrEmptyJobID
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	maxWait := c.processingTimeout
	if maxWait <= 0 {
		maxWait = DefaultProcessingTimeout
	}

	start := time.Now()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		if job.Status.Terminal() {
			return job, nil
		}

		if elapsed := time.Since(start); elapsed >= maxWait {
			return nil, &TimeoutError{JobID: jobID, Waited: elapsed}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for job %s cancelled: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}
