// Package graph is a minimal Microsoft Graph client: paged collection reads
// and single-object reads with bearer authentication.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"policyscope/internal/logger"
	"policyscope/internal/models"
	"policyscope/pkg/utils"
)

// Client errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrResponseTooLarge     = errors.New("response exceeds buffer size")
	ErrInvalidURL           = errors.New("invalid request URL")
)

const (
	defaultTimeout      = 30 * time.Second
	defaultBufferSizeKb = 8192
	errorSnippetLength  = 200
)

// Pager reads one page of a collection.
type Pager interface {
	FetchPage(ctx context.Context, url string) (*models.Page, error)
}

// Fetcher reads collections and single objects.
type Fetcher interface {
	Pager
	FetchOne(ctx context.Context, url string) (models.RawRecord, error)
}

// Ensure Client implements Fetcher.
var _ Fetcher = (*Client)(nil)

// StatusError is returned for non-2xx responses. It wraps ErrUnexpectedStatusCode.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: %d", ErrUnexpectedStatusCode, e.StatusCode)
	if e.Code != "" {
		msg += " " + e.Code
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	return msg
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatusCode
}

// errorBody is the Graph error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Options configures a Client.
type Options struct {
	BaseURL      string
	Tokens       TokenSource
	Timeout      time.Duration
	BufferSizeKb int
	HTTPClient   *http.Client
	Logger       *logger.Logger
}

// Client handles authenticated Graph reads.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	tokens       TokenSource
	bufferSizeKb int
	headers      *utils.HTTPHelper
	strings      *utils.StringHelper
	logger       *logger.Logger
}

// NewClient creates a new Graph client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}

		httpClient = &http.Client{Timeout: timeout}
	}

	bufferSizeKb := opts.BufferSizeKb
	if bufferSizeKb <= 0 {
		bufferSizeKb = defaultBufferSizeKb
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		tokens:       opts.Tokens,
		bufferSizeKb: bufferSizeKb,
		headers:      utils.NewHTTPHelper(),
		strings:      utils.NewStringHelper(),
		logger:       log,
	}
}

// URL resolves path against the base URL. Absolute URLs, such as
// @odata.nextLink values, are returned unchanged.
func (c *Client) URL(path string) string {
	if c.headers.IsValidURL(path) {
		return path
	}

	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// FetchPage reads one page of a collection.
func (c *Client) FetchPage(ctx context.Context, url string) (*models.Page, error) {
	var page models.Page
	if err := c.getJSON(ctx, url, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// FetchOne reads a single object.
func (c *Client) FetchOne(ctx context.Context, url string) (models.RawRecord, error) {
	var record models.RawRecord
	if err := c.getJSON(ctx, url, &record); err != nil {
		return nil, err
	}

	if record == nil {
		record = models.RawRecord{}
	}

	return record, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) (err error) {
	target := c.URL(url)
	if !c.headers.IsValidURL(target) {
		return fmt.Errorf("%w: %q", ErrInvalidURL, target)
	}

	custom := map[string]string{
		"client-request-id": uuid.NewString(),
	}

	if c.tokens != nil {
		token, tokenErr := c.tokens.Token(ctx)
		if tokenErr != nil {
			return fmt.Errorf("failed to get access token: %w", tokenErr)
		}

		custom["Authorization"] = "Bearer " + token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = c.headers.BuildHeaders(custom)

	startTime := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	c.logger.Debug("graph request",
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(startTime),
		"request_id", custom["client-request-id"],
	)

	// bufferSizeKb is in KB, read one byte past the limit to detect overflow.
	limit := int64(c.bufferSizeKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp, body)
	}

	if int64(len(body)) > limit {
		return fmt.Errorf("%w: %s (limit %d KB)", ErrResponseTooLarge, target, c.bufferSizeKb)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", target, err)
	}

	return nil
}

func (c *Client) statusError(resp *http.Response, body []byte) error {
	statusErr := &StatusError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("request-id"),
	}

	var envelope errorBody
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Code != "" {
		statusErr.Code = envelope.Error.Code
		statusErr.Message = envelope.Error.Message
	} else {
		statusErr.Message = c.strings.TruncateString(strings.TrimSpace(string(body)), errorSnippetLength)
	}

	return statusErr
}
