package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Source retrieves a remote feed and turns it into items, in document order.
type Source struct {
	httpClient *http.Client
	parser     *Parser
	userAgent  string
	timeout    time.Duration
}

// NewSource creates a Source. A zero timeout leaves the request bounded only by ctx.
func NewSource(httpClient *http.Client, parser *Parser, userAgent string, timeout time.Duration) *Source {
	return &Source{
		httpClient: httpClient,
		parser:     parser,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (s *Source) FetchItems(ctx context.Context, feedURL string) ([]Item, error) {
	data, err := s.fetchFeed(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	metadata, items, err := s.parser.Run(data)
	if err != nil {
		return nil, &ParseError{URL: feedURL, Err: err}
	}

	slog.Debug("Feed parsed", "title", metadata.Title, "items", len(items))

	return items, nil
}

func (s *Source) fetchFeed(ctx context.Context, feedURL string) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: feedURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP error: %s", resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return data, nil
}
