package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestListFormats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/formats" {
			t.Errorf("path = %q, want /v2/formats", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":[{"name":"pdf","mime_type":"application/pdf","category":"document"},{"name":"webp","mime_type":"image/webp","category":"image"}]}`))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL)

	formats, err := cli.ListFormats(context.Background())
	if err != nil {
		t.Fatalf("ListFormats failed: %v", err)
	}
	if len(formats) != 2 {
		t.Fatalf("got %d formats, want 2", len(formats))
	}
	if formats[0].Name != "pdf" || formats[0].Category != "document" {
		t.Errorf("unexpected first format: %+v", formats[0])
	}
}

func TestConversionsFrom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/formats/docx/conversions" {
			t.Errorf("path = %q, want /v2/formats/docx/conversions", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":[{"name":"pdf"}]}`))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL)

	formats, err := cli.ConversionsFrom(context.Background(), "docx")
	if err != nil {
		t.Fatalf("ConversionsFrom failed: %v", err)
	}
	if len(formats) != 1 || formats[0].Name != "pdf" {
		t.Errorf("unexpected formats: %+v", formats)
	}
}

func TestIsConversionSupported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/formats/docx/to/pdf" {
			t.Errorf("path = %q, want /v2/formats/docx/to/pdf", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":{"source":"docx","target":"pdf","supported":true}}`))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL)

	supported, err := cli.IsConversionSupported(context.Background(), "docx", "pdf")
	if err != nil {
		t.Fatalf("IsConversionSupported failed: %v", err)
	}
	if !supported {
		t.Error("expected pair to be supported")
	}
}

func TestFormatsInputValidation(t *testing.T) {
	cli := newTestClient(t, "http://unused.invalid")
	ctx := context.Background()

	if _, err := cli.ConversionsFrom(ctx, ""); !errors.Is(err, ErrEmptyFormat) {
		t.Errorf("expected ErrEmptyFormat, got %v", err)
	}
	if _, err := cli.IsConversionSupported(ctx, "", "pdf"); !errors.Is(err, ErrEmptyFormat) {
		t.Errorf("expected ErrEmptyFormat for empty source, got %v", err)
	}
	if _, err := cli.IsConversionSupported(ctx, "docx", ""); !errors.Is(err, ErrEmptyFormat) {
		t.Errorf("expected ErrEmptyFormat for empty target, got %v", err)
	}
}

func TestSupportedConversions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/formats/supported-conversions" {
			t.Errorf("path = %q, want /v2/formats/supported-conversions", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":{"docx":["pdf","txt"],"png":["webp"]}}`))
	}))
	defer srv.Close()

	cli := newTestClient(t, srv.URL)

	mapping, err := cli.SupportedConversions(context.Background())
	if err != nil {
		t.Fatalf("SupportedConversions failed: %v", err)
	}

	want := map[string][]string{"docx": {"pdf", "txt"}, "png": {"webp"}}
	if !reflect.DeepEqual(mapping, want) {
		t.Errorf("mapping = %#v, want %#v", mapping, want)
	}
}
