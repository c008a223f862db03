package printcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"printpod/internal/config"
	"printpod/internal/logger"
)

// APIError is returned when the Print.com API answered with a status
// outside the 2xx range. Network-level failures are reported as plain
// wrapped errors so callers can tell "no response" from "structured
// error response".
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Body)
}

// Transport issues authenticated HTTP requests against the Print.com API.
type Transport struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewTransport(cfg *config.Config, logger *logger.Logger) *Transport {
	return &Transport{
		baseURL: cfg.PrintBaseURL(),
		apiKey:  cfg.PrintAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// BaseURL returns the resolved API base URL, exposed for error diagnostics.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Request performs an authenticated request against the API. For GET the
// body is encoded onto the query string; for other methods it is sent as
// JSON. Extra headers may be passed either as "Key: Value" strings or as
// map[string]string.
func (t *Transport) Request(ctx context.Context, method, path string, body interface{}, headers ...interface{}) ([]byte, error) {
	method = strings.ToUpper(method)
	rawURL := t.baseURL + path

	var reqBody io.Reader
	contentType := ""

	if body != nil {
		if method == http.MethodGet {
			query, err := buildQuery(body)
			if err != nil {
				return nil, err
			}
			if query != "" {
				sep := "?"
				if strings.Contains(rawURL, "?") {
					sep = "&"
				}
				rawURL = rawURL + sep + query
			}
		} else {
			jsonData, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			reqBody = bytes.NewBuffer(jsonData)
			contentType = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "PrintApiKey "+t.apiKey)
	}
	mergeHeaders(req, headers)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// buildQuery turns a GET request body into a query string.
func buildQuery(body interface{}) (string, error) {
	switch params := body.(type) {
	case url.Values:
		return params.Encode(), nil
	case map[string]string:
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		return values.Encode(), nil
	default:
		return "", fmt.Errorf("unsupported GET params type %T", body)
	}
}

// mergeHeaders applies caller-supplied headers on top of the defaults.
// Both "Key: Value" strings and map form are accepted.
func mergeHeaders(req *http.Request, headers []interface{}) {
	for _, h := range headers {
		switch header := h.(type) {
		case string:
			parts := strings.SplitN(header, ":", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			if key != "" {
				req.Header.Set(key, strings.TrimSpace(parts[1]))
			}
		case map[string]string:
			for k, v := range header {
				req.Header.Set(k, v)
			}
		}
	}
}
