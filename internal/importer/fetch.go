package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxTemplateBytes caps how much of a template response is read.
const maxTemplateBytes = 1 << 20

// FetchError reports a failed template fetch: network failure, non-2xx
// status, or a malformed JSON body. Fetch errors are retryable.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves template documents over HTTP. Only GET is used.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a fetcher. A nil client gets a 15s-timeout default;
// a nil logger discards.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch GETs url and returns the decoded JSON document. The context governs
// cancellation; an abandoned fetch resolves into a context error and its
// result is discarded by the caller.
func (f *Fetcher) Fetch(ctx context.Context, url string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	f.logger.Debug("fetching template", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateBytes))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("malformed JSON body: %w", err)}
	}
	return raw, nil
}
