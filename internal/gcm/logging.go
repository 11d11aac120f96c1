package gcm

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// LoggingHTTPClient wraps client with a RoundTripper that logs every
// request/response at slog debug level, or returns client unchanged if
// logger isn't enabled for debug (avoiding the body-buffering cost).
func LoggingHTTPClient(client *http.Client, logger *slog.Logger) *http.Client {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return client
	}
	transport := client.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Transport: &loggingRoundTripper{inner: transport, logger: logger},
		Timeout:   client.Timeout,
	}
}

type loggingRoundTripper struct {
	inner  http.RoundTripper
	logger *slog.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logger.Debug(">>> "+req.Method, "url", req.URL.String())
	for k, v := range req.Header {
		t.logger.Debug("  request header", "key", k, "value", truncate(strings.Join(v, ", "), 120))
	}
	if req.Body != nil && req.Body != http.NoBody {
		bodyBytes, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err == nil {
			t.logger.Debug("  request body", "length", len(bodyBytes), "data", truncate(string(bodyBytes), 2000))
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		t.logger.Debug("<<< error", "error", err)
		return nil, err
	}

	t.logger.Debug("<<< response", "status", resp.StatusCode, "url", req.URL.String())
	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr == nil {
		t.logger.Debug("  response body", "length", len(respBody), "data", truncate(string(respBody), 2000))
		resp.Body = io.NopCloser(bytes.NewReader(respBody))
	}
	return resp, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
