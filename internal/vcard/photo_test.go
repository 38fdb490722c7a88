package vcard

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPPhotoFetcher_Fetch(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(jpeg)
		case "/big.jpg":
			w.Write(bytes.Repeat([]byte{0xAB}, 64))
		case "/empty.jpg":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewHTTPPhotoFetcher(server.Client(), 32)

	data, err := fetcher.Fetch(context.Background(), server.URL+"/ok.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, jpeg) {
		t.Fatalf("unexpected body: %v", data)
	}

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/missing.jpg"); err == nil {
		t.Fatalf("expected error for 404")
	}
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/big.jpg"); !errors.Is(err, ErrPhotoTooLarge) {
		t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
	}
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/empty.jpg"); err == nil {
		t.Fatalf("expected error for empty body")
	}
	if _, err := fetcher.Fetch(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for blank url")
	}
}
