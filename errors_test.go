package client

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestClassifyResponseKinds(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantAuth   bool
		wantValid  bool
		wantCode   string
		wantMsg    string
		wantStatus int
	}{
		{
			name:       "401 is auth error",
			status:     401,
			body:       `{"success":false,"error":{"code":"INVALID_KEY","message":"bad key"}}`,
			wantAuth:   true,
			wantCode:   "INVALID_KEY",
			wantMsg:    "bad key",
			wantStatus: 401,
		},
		{
			name:       "403 is auth error",
			status:     403,
			body:       `{"success":false,"error":{"code":"FORBIDDEN","message":"no access"}}`,
			wantAuth:   true,
			wantCode:   "FORBIDDEN",
			wantMsg:    "no access",
			wantStatus: 403,
		},
		{
			name:       "422 with validation code",
			status:     422,
			body:       `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"bad input"}}`,
			wantValid:  true,
			wantCode:   "VALIDATION_ERROR",
			wantMsg:    "bad input",
			wantStatus: 422,
		},
		{
			name:       "400 with validation code",
			status:     400,
			body:       `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"bad input"}}`,
			wantValid:  true,
			wantCode:   "VALIDATION_ERROR",
			wantMsg:    "bad input",
			wantStatus: 400,
		},
		{
			name:       "400 without validation code is generic",
			status:     400,
			body:       `{"success":false,"error":{"code":"BAD_REQUEST","message":"nope"}}`,
			wantCode:   "BAD_REQUEST",
			wantMsg:    "nope",
			wantStatus: 400,
		},
		{
			name:       "404 passes through",
			status:     404,
			body:       `{"success":false,"error":{"code":"NOT_FOUND","message":"no such job"}}`,
			wantCode:   "NOT_FOUND",
			wantMsg:    "no such job",
			wantStatus: 404,
		},
		{
			name:       "empty body gets defaults",
			status:     500,
			body:       ``,
			wantCode:   CodeUnknownError,
			wantMsg:    defaultErrorMessage,
			wantStatus: 500,
		},
		{
			name:       "malformed body gets defaults",
			status:     502,
			body:       `<html>bad gateway</html>`,
			wantCode:   CodeUnknownError,
			wantMsg:    defaultErrorMessage,
			wantStatus: 502,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyResponse(tt.status, []byte(tt.body))

			var authErr *AuthError
			if got := errors.As(err, &authErr); got != tt.wantAuth {
				t.Errorf("auth error = %t, want %t", got, tt.wantAuth)
			}

			var validErr *ValidationError
			if got := errors.As(err, &validErr); got != tt.wantValid {
				t.Errorf("validation error = %t, want %t", got, tt.wantValid)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.wantStatus)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.wantCode)
			}
			if !strings.Contains(apiErr.Message, tt.wantMsg) {
				t.Errorf("message %q does not contain %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClassifyResponseRateLimit(t *testing.T) {
	t.Run("retry_after from details", func(t *testing.T) {
		body := `{"success":false,"error":{"code":"RATE_LIMIT","message":"slow down","details":{"retry_after":120}}}`
		err := classifyResponse(429, []byte(body))

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if !strings.Contains(apiErr.Message, "retry after 120 seconds") {
			t.Errorf("message %q missing retry-after hint", apiErr.Message)
		}
	})

	t.Run("retry_after defaults to 60", func(t *testing.T) {
		body := `{"success":false,"error":{"code":"RATE_LIMIT","message":"slow down"}}`
		err := classifyResponse(429, []byte(body))

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if !strings.Contains(apiErr.Message, "retry after 60 seconds") {
			t.Errorf("message %q missing default retry-after hint", apiErr.Message)
		}
	})
}

func TestValidationErrorAccessors(t *testing.T) {
	body := `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"bad input","details":{"validation_errors":{"quality":["must be between 1 and 100"],"target_format":"unsupported format"}}}}`
	err := classifyResponse(422, []byte(body))

	var validErr *ValidationError
	if !errors.As(err, &validErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	wantFields := []string{"quality", "target_format"}
	if got := validErr.FailedFields(); !reflect.DeepEqual(got, wantFields) {
		t.Errorf("FailedFields = %v, want %v", got, wantFields)
	}

	wantMsgs := []string{"must be between 1 and 100", "unsupported format"}
	if got := validErr.ValidationErrors(); !reflect.DeepEqual(got, wantMsgs) {
		t.Errorf("ValidationErrors = %v, want %v", got, wantMsgs)
	}
}

func TestValidationErrorAccessorsNoDetails(t *testing.T) {
	err := classifyResponse(422, []byte(`{"success":false,"error":{"code":"VALIDATION_ERROR","message":"bad"}}`))

	var validErr *ValidationError
	if !errors.As(err, &validErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if validErr.FailedFields() != nil {
		t.Errorf("FailedFields = %v, want nil", validErr.FailedFields())
	}
	if validErr.ValidationErrors() != nil {
		t.Errorf("ValidationErrors = %v, want nil", validErr.ValidationErrors())
	}
}
