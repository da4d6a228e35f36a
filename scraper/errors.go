package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrNoCategories aborts a run whose root page lists no categories.
var ErrNoCategories = errors.New("no categories found")

// ErrConnection indicates the transport could not reach the host.
type ErrConnection struct {
	URL     string
	Timeout bool
	Err     error
}

func (e ErrConnection) Error() string {
	kind := "connection"
	if e.Timeout {
		kind = "timeout"
	}
	return fmt.Errorf("%s %s: %w", kind, e.URL, e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

// ErrHTTPStatus indicates a non-success HTTP response.
type ErrHTTPStatus struct {
	URL        string
	StatusCode int
}

func (e ErrHTTPStatus) Error() string {
	return fmt.Sprintf("http status %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// ErrItemBuild wraps any failure while fetching or building one item.
type ErrItemBuild struct {
	URL string
	Err error
}

func (e ErrItemBuild) Error() string {
	return fmt.Errorf("build item %s: %w", e.URL, e.Err).Error()
}

func (e ErrItemBuild) Unwrap() error {
	return e.Err
}

// classifyTransportError wraps an error raised before any response arrived.
func classifyTransportError(url string, err error) error {
	if err == nil {
		return nil
	}
	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}
	return ErrConnection{URL: url, Timeout: timeout, Err: err}
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		if conn.Timeout {
			return "timeout"
		}
		return "connection"
	}
	var status ErrHTTPStatus
	if errors.As(err, &status) {
		switch status.StatusCode {
		case http.StatusForbidden:
			return "forbidden"
		case http.StatusNotFound:
			return "not_found"
		case http.StatusTooManyRequests:
			return "rate_limited"
		}
		return "http_status"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "other"
}
