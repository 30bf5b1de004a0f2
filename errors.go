package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

var (
	ErrEmptyAPIKey       = errors.New("api key cannot be empty")
	ErrEmptyJobID        = errors.New("job id cannot be empty")
	ErrEmptySessionID    = errors.New("session id cannot be empty")
	ErrEmptySourcePath   = errors.New("source path cannot be empty")
	ErrEmptySourceURL    = errors.New("source url cannot be empty")
	ErrEmptyTargetFormat = errors.New("target format cannot be empty")
	ErrEmptyFormat       = errors.New("format cannot be empty")
	ErrEmptyDownloadURL  = errors.New("download url cannot be empty")
	ErrEmptyChunk        = errors.New("chunk data cannot be empty")
	ErrNegativeChunkIdx  = errors.New("chunk index cannot be negative")
	ErrNilWriter         = errors.New("writer cannot be nil")
)

// APIError is the failure reported for any request that reached the service
// and came back with a status >= 400, or that failed at the transport level
// after retries were exhausted (in which case Status is zero and Cause holds
// the underlying error).
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
	Cause   error
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0 && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", ServiceName, e.Message, e.Cause)
	case e.Code != "":
		return fmt.Sprintf("%s: %s (status %d, code %s)", ServiceName, e.Message, e.Status, e.Code)
	default:
		return fmt.Sprintf("%s: %s (status %d)", ServiceName, e.Message, e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Cause }

// AuthError is the APIError specialization for 401 and 403 responses, so
// callers can trigger re-auth flows with a single errors.As check.
type AuthError struct {
	APIError
}

// ValidationError covers structured 400/422 responses carrying field-level
// detail, and local pre-flight failures (missing file, bad option value)
// raised before any network call.
type ValidationError struct {
	APIError
}

// ValidationErrors returns the per-field messages found under
// details.validation_errors, flattened in field order.
func (e *ValidationError) ValidationErrors() []string {
	fieldErrs, ok := e.Details["validation_errors"].(map[string]any)
	if !ok {
		return nil
	}

	var msgs []string
	for _, field := range sortedKeys(fieldErrs) {
		switch v := fieldErrs[field].(type) {
		case string:
			msgs = append(msgs, v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
		}
	}
	return msgs
}

// FailedFields returns the names of the fields that failed validation.
func (e *ValidationError) FailedFields() []string {
	fieldErrs, ok := e.Details["validation_errors"].(map[string]any)
	if !ok {
		return nil
	}
	return sortedKeys(fieldErrs)
}

// TimeoutError reports that a job did not reach a terminal state within the
// wait budget. The job itself may still complete server-side.
type TimeoutError struct {
	JobID  string
	Waited time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for job %s to complete", e.Waited.Round(time.Millisecond), e.JobID)
}

// errorBody is the error half of the service's response envelope:
// {"success": false, "error": {"code", "message", "details"}}.
type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type errorEnvelope struct {
	Success *bool      `json:"success"`
	Error   *errorBody `json:"error"`
}

// classifyResponse maps a >= 400 response to its typed error. The body is
// expected to carry the error envelope; missing fields fall back to
// "Unknown error" / UNKNOWN_ERROR.
func classifyResponse(status int, body []byte) error {
	code := CodeUnknownError
	message := defaultErrorMessage
	var details map[string]any

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		if env.Error.Code != "" {
			code = env.Error.Code
		}
		if env.Error.Message != "" {
			message = env.Error.Message
		}
		details = env.Error.Details
	}

	base := APIError{Status: status, Code: code, Message: message, Details: details}

	switch {
	case status == 401 || status == 403:
		return &AuthError{APIError: base}
	case (status == 400 || status == 422) && code == CodeValidationError:
		return &ValidationError{APIError: base}
	case status == 429:
		base.Message = fmt.Sprintf("%s (retry after %d seconds)", message, retryAfterSeconds(details))
		return &base
	default:
		return &base
	}
}

// retryAfterSeconds reads details.retry_after as a JSON number or numeric
// string, defaulting to 60.
func retryAfterSeconds(details map[string]any) int {
	switch v := details["retry_after"].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultRetryAfterSecs
}

// transportError wraps a network-level failure that survived the retry policy.
func transportError(operation string, cause error) error {
	return &APIError{Message: operation + " failed", Cause: cause}
}

// invalidJSONError flags a response body that could not be decoded.
func invalidJSONError(status int, cause error) error {
	return &APIError{Status: status, Message: "Invalid JSON response", Cause: cause}
}

// localValidationError reports a pre-flight failure raised before any network
// call, e.g. an unreadable source file or an out-of-range option.
func localValidationError(message string, cause error) error {
	return &ValidationError{APIError: APIError{
		Code:    CodeValidationError,
		Message: message,
		Cause:   cause,
	}}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
