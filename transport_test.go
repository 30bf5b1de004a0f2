package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const jobBody = `{"success":true,"data":{"id":"job_1","status":"completed","source_format":"docx","target_format":"pdf"}}`

func TestTransportRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":{"code":"INTERNAL","message":"boom"}}`))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL, WithMaxRetries(2))

	_, err := cli.GetJob(context.Background(), "job_1")
	if err == nil {
		t.Fatal("expected error for persistent 500")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.Status)
	}

	// Initial attempt plus two retries.
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestTransportRecoversMidRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(jobBody))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL, WithMaxRetries(3))

	job, err := cli.GetJob(context.Background(), "job_1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job.Status != JobStatusCompleted {
		t.Errorf("status = %q, want completed", job.Status)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
}

func TestTransportRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":{"code":"RATE_LIMIT","message":"slow down"}}`))
			return
		}
		w.Write([]byte(jobBody))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL, WithMaxRetries(1))

	if _, err := cli.GetJob(context.Background(), "job_1"); err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
}

func TestTransportRetryDisabled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL, WithRetryDisabled())

	if _, err := cli.GetJob(context.Background(), "job_1"); err == nil {
		t.Fatal("expected error for 500")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}

func TestTransportNoRetryOnClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"no such job"}}`))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL, WithMaxRetries(3))

	_, err := cli.GetJob(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 *APIError, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}

func TestTransportAuthHeaderInjection(t *testing.T) {
	var gotAuth, gotAccept, gotUA, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		gotReqID = r.Header.Get(RequestIDHeader)
		w.Write([]byte(jobBody))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL)

	if _, err := cli.GetJob(context.Background(), "job_1"); err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want Bearer test-key", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if !strings.HasPrefix(gotUA, ServiceName+"-go/") {
		t.Errorf("User-Agent = %q, want %s-go/ prefix", gotUA, ServiceName)
	}
	if gotReqID == "" {
		t.Error("expected a request id header")
	}
}

func TestTransportInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":`))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL)

	_, err := cli.GetJob(context.Background(), "job_1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if !strings.Contains(apiErr.Message, "Invalid JSON response") {
		t.Errorf("message = %q, want invalid JSON", apiErr.Message)
	}
}

func TestTransportConnectionFailure(t *testing.T) {
	// Reserve then close a port so the dial is refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cli := newTestClient(t, url, WithRetryDisabled())

	_, err := cli.GetJob(context.Background(), "job_1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != 0 {
		t.Errorf("transport failure should carry no HTTP status, got %d", apiErr.Status)
	}
	if apiErr.Unwrap() == nil {
		t.Error("transport failure should wrap the underlying error")
	}
}
