// Package gateway talks to the PaperNote hosting API: media uploads and
// article publishing.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/papernote/papernote-bot/core/config"
	"github.com/papernote/papernote-bot/core/logger"
)

const (
	mediaFieldName = "media"

	mediaURLKey = "media_url"
	postURLKey  = "post_url"
)

// Client is a thin HTTP client over the PaperNote endpoints.
type Client struct {
	httpClient *http.Client
	mediaURL   string
	contentURL string
	timeout    time.Duration
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New builds a client from the PaperNote section of the config.
func New(cfg config.PaperNoteConfig, opts ...Option) *Client {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		httpClient: &http.Client{},
		mediaURL:   cfg.MediaAPIURL,
		contentURL: cfg.ContentAPIURL,
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadMedia posts the file at path as multipart form data and returns the
// hosted URL. The body is streamed; the caller enforces the size cap before
// the upload is attempted.
func (c *Client) UploadMedia(ctx context.Context, path string) (string, error) {
	const op = "upload_media"

	f, err := os.Open(path)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile(mediaFieldName, filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	start := time.Now()
	body, err := c.do(ctx, op, c.mediaURL, mw.FormDataContentType(), pr)
	if err != nil {
		return "", err
	}

	hosted, err := extractKey(op, body, mediaURLKey)
	if err != nil {
		return "", err
	}

	logger.LogEvent(ctx, logger.GW, slog.LevelInfo, "upload.done",
		slog.String("operation", op),
		slog.String("media_url", hosted),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return hosted, nil
}

// PublishPost submits the collected article fields and returns the post URL.
// Author may be empty; the API treats it as anonymous.
func (c *Client) PublishPost(ctx context.Context, title, author, content string) (string, error) {
	const op = "publish_post"

	form := url.Values{}
	form.Set("title", title)
	form.Set("author", author)
	form.Set("content", content)

	start := time.Now()
	body, err := c.do(ctx, op, c.contentURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	postURL, err := extractKey(op, body, postURLKey)
	if err != nil {
		return "", err
	}

	logger.LogEvent(ctx, logger.GW, slog.LevelInfo, "publish.done",
		slog.String("operation", op),
		slog.String("post_url", postURL),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return postURL, nil
}

func (c *Client) do(ctx context.Context, op, endpoint, contentType string, payload io.Reader) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.LogEvent(ctx, logger.GW, slog.LevelWarn, "request.fail",
			slog.String("operation", op),
			slog.String("err", err.Error()),
		)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.LogEvent(ctx, logger.GW, slog.LevelWarn, "request.rejected",
			slog.String("operation", op),
			slog.Int("http_code", resp.StatusCode),
		)
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	return body, nil
}

func extractKey(op string, body []byte, key string) (string, error) {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &MalformedResponse{Op: op, Err: err}
	}
	val, ok := parsed[key].(string)
	if !ok || val == "" {
		return "", &MalformedResponse{Op: op, MissingKey: key}
	}
	return val, nil
}
