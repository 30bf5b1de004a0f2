package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// Chunk size tiers by source file size. Boundaries are inclusive: a file of
// exactly 10MB uses 1MB chunks.
const (
	chunkSizeSmall  = 1 << 20  // <= 10MB files
	chunkSizeMedium = 5 << 20  // <= 100MB files
	chunkSizeLarge  = 10 << 20 // <= 500MB files
	chunkSizeHuge   = 25 << 20

	tierSmallLimit  = 10 << 20
	tierMediumLimit = 100 << 20
	tierLargeLimit  = 500 << 20
)

// rewindReader serves its payload from the start again after every full
// read, so a request body built from it survives retry attempts intact.
type rewindReader struct {
	data []byte
	off  int
}

func newRewindReader(data []byte) *rewindReader {
	return &rewindReader{data: data}
}

func (r *rewindReader) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		r.off = 0
		return 0, io.EOF
	}
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}

// UploadProgressFunc is invoked after each successfully uploaded chunk.
// Percent is completed/total * 100 and reaches exactly 100 on the last chunk.
type UploadProgressFunc func(completed, total int, percent float64)

// UploadParams tunes one UploadLargeFile call. A nil value uses the optimal
// chunk size and no progress reporting.
type UploadParams struct {
	ChunkSize int64
	Options   *ConversionOptions
	Progress  UploadProgressFunc
}

// OptimalChunkSize picks the chunk size for a file of the given size.
func OptimalChunkSize(fileSize int64) int64 {
	switch {
	case fileSize <= tierSmallLimit:
		return chunkSizeSmall
	case fileSize <= tierMediumLimit:
		return chunkSizeMedium
	case fileSize <= tierLargeLimit:
		return chunkSizeLarge
	default:
		return chunkSizeHuge
	}
}

// InitUpload opens a chunked-upload session for one source file.
func (c *client) InitUpload(ctx context.Context, filename string, fileSize int64, targetFormat string, opts *ConversionOptions) (*UploadSession, error) {
	if filename == "" {
		return nil, ErrEmptySourcePath
	}
	if targetFormat == "" {
		return nil, ErrEmptyTargetFormat
	}

	body, err := opts.Build()
	if err != nil {
		return nil, err
	}
	body["filename"] = filename
	body["file_size"] = fileSize
	body["target_format"] = targetFormat

	var session UploadSession
	req := c.newRequest(ctx).SetBody(body)

	if err := c.do(req, http.MethodPost, EndpointUploadInit, "init upload", &session); err != nil {
		return nil, fmt.Errorf("init upload: %w", err)
	}

	return &session, nil
}

// UploadChunk sends one chunk tagged with its index. The server reassembles
// by index, so chunks must arrive in order.
func (c *client) UploadChunk(ctx context.Context, sessionID string, index int, chunk []byte) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	if index < 0 {
		return ErrNegativeChunkIdx
	}
	if len(chunk) == 0 {
		return ErrEmptyChunk
	}

	// The multipart body is rebuilt from this reader on every retry attempt,
	// so it must rewind after each full read or a retried chunk arrives empty.
	req := c.newRequest(ctx).
		SetPathParam("session", sessionID).
		SetPathParam("index", strconv.Itoa(index)).
		SetFileReader("chunk", fmt.Sprintf("chunk_%d", index), newRewindReader(chunk)).
		SetMultipartFormData(map[string]string{"chunk_index": strconv.Itoa(index)})

	if err := c.do(req, http.MethodPost, EndpointUploadChunk, "upload chunk", nil); err != nil {
		return fmt.Errorf("upload chunk %d: %w", index, err)
	}

	return nil
}

// CompleteUpload finalizes the session, triggering server-side reassembly and
// conversion, and returns the resulting job.
func (c *client) CompleteUpload(ctx context.Context, sessionID string) (*ConversionJob, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	var job ConversionJob
	req := c.newRequest(ctx).SetPathParam("session", sessionID)

	if err := c.do(req, http.MethodPost, EndpointUploadComplete, "complete upload", &job); err != nil {
		return nil, fmt.Errorf("complete upload: %w", err)
	}

	return &job, nil
}

// UploadLargeFile splits a local file into chunks, uploads them sequentially
// in index order, then completes the session. Local file problems surface as
// validation errors before any network call; the file handle is released on
// every exit path.
func (c *client) UploadLargeFile(ctx context.Context, sourcePath, targetFormat string, params *UploadParams) (*ConversionJob, error) {
	if sourcePath == "" {
		return nil, ErrEmptySourcePath
	}
	if targetFormat == "" {
		return nil, ErrEmptyTargetFormat
	}
	if params == nil {
		params = &UploadParams{}
	}

	if err := checkReadableFile(sourcePath); err != nil {
		return nil, err
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, localValidationError(fmt.Sprintf("source file %s cannot be read", sourcePath), err)
	}
	fileSize := info.Size()
	if fileSize == 0 {
		return nil, localValidationError(fmt.Sprintf("source file %s is empty", sourcePath), nil)
	}

	chunkSize := params.ChunkSize
	if chunkSize <= 0 {
		chunkSize = OptimalChunkSize(fileSize)
	}
	totalChunks := int((fileSize + chunkSize - 1) / chunkSize)

	f, err := os.Open(sourcePath)
	if err != nil {
		return nil, localValidationError(fmt.Sprintf("source file %s cannot be read", sourcePath), err)
	}
	defer f.Close()

	session, err := c.InitUpload(ctx, filepath.Base(sourcePath), fileSize, targetFormat, params.Options)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, chunkSize)
	for i := 0; i < totalChunks; i++ {
		n, readErr := io.ReadFull(f, buf)
		if readErr != nil && !(errors.Is(readErr, io.ErrUnexpectedEOF) && i == totalChunks-1) {
			return nil, fmt.Errorf("read chunk %d of %s: %w", i, sourcePath, readErr)
		}

		if err := c.UploadChunk(ctx, session.ID, i, buf[:n]); err != nil {
			return nil, err
		}

		if params.Progress != nil {
			done := i + 1
			params.Progress(done, totalChunks, float64(done)/float64(totalChunks)*100)
		}
	}

	return c.CompleteUpload(ctx, session.ID)
}
