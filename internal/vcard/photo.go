package vcard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrPhotoTooLarge is returned when the photo exceeds the configured size limit.
var ErrPhotoTooLarge = errors.New("vcard: photo exceeds size limit")

const defaultPhotoMaxBytes = 5 << 20

// PhotoFetcher downloads the raw bytes of a profile photo.
type PhotoFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPPhotoFetcher fetches photos over HTTP(S) with a size cap.
type HTTPPhotoFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPPhotoFetcher builds a fetcher. A nil client gets a 10s timeout; maxBytes <= 0 uses 5 MiB.
func NewHTTPPhotoFetcher(client *http.Client, maxBytes int64) *HTTPPhotoFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = defaultPhotoMaxBytes
	}
	return &HTTPPhotoFetcher{client: client, maxBytes: maxBytes}
}

// Fetch returns the photo body. Non-2xx responses and empty bodies are errors.
func (f *HTTPPhotoFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("vcard: empty photo url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build photo request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch photo: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrPhotoTooLarge
	}
	if len(data) == 0 {
		return nil, errors.New("vcard: empty photo body")
	}
	return data, nil
}

var _ PhotoFetcher = (*HTTPPhotoFetcher)(nil)
