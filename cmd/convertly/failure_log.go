package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	client "github.com/convertly/convertly-go"
)

var failureLogMu sync.Mutex

// logFailure appends one line per failed task, carrying the vendor error
// code and HTTP status when the failure came from the API.
func logFailure(path, target string, err error) error {
	if path == "" {
		return nil
	}

	code := "none"
	status := 0
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code != "" {
			code = apiErr.Code
		}
		status = apiErr.Status
	}

	timestamp := time.Now().Format(time.RFC3339)
	line := fmt.Sprintf("%s\tlevel=ERROR\tcode=%s\tstatus=%d\ttarget=%s\tmessage=%v\n",
		timestamp, code, status, target, err)

	failureLogMu.Lock()
	defer failureLogMu.Unlock()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return mkErr
		}
	}

	f, openErr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if openErr != nil {
		return openErr
	}
	defer f.Close()

	_, writeErr := f.WriteString(line)
	return writeErr
}
