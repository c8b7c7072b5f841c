package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/papernote/papernote-bot/core/config"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func newTestClient(mediaURL, contentURL string) *Client {
	return New(config.PaperNoteConfig{
		MediaAPIURL:           mediaURL,
		ContentAPIURL:         contentURL,
		RequestTimeoutSeconds: 5,
	})
}

func TestUploadMediaSuccess(t *testing.T) {
	payload := []byte("fake image bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("media")
		if err != nil {
			t.Fatalf("missing media field: %v", err)
		}
		defer file.Close()
		if header.Filename != "42_photo.jpg" {
			t.Errorf("filename = %q, want 42_photo.jpg", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"media_url":"https://papernote.example/m/abc.jpg"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	path := writeTempFile(t, "42_photo.jpg", payload)

	got, err := c.UploadMedia(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if got != "https://papernote.example/m/abc.jpg" {
		t.Errorf("media url = %q", got)
	}
}

func TestUploadMediaRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too large", http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	path := writeTempFile(t, "big.bin", []byte("data"))

	_, err := c.UploadMedia(context.Background(), path)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if te.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", te.StatusCode)
	}
	if te.Code() != "TRANSPORT_ERROR" {
		t.Errorf("code = %q", te.Code())
	}
}

func TestUploadMediaUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	path := writeTempFile(t, "a.jpg", []byte("data"))

	_, err := c.UploadMedia(context.Background(), path)
	var mr *MalformedResponse
	if !errors.As(err, &mr) {
		t.Fatalf("err = %v, want MalformedResponse", err)
	}
	if mr.Err == nil {
		t.Error("expected decode cause to be set")
	}
}

func TestUploadMediaMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	path := writeTempFile(t, "a.jpg", []byte("data"))

	_, err := c.UploadMedia(context.Background(), path)
	var mr *MalformedResponse
	if !errors.As(err, &mr) {
		t.Fatalf("err = %v, want MalformedResponse", err)
	}
	if mr.MissingKey != "media_url" {
		t.Errorf("missing key = %q, want media_url", mr.MissingKey)
	}
	if mr.Code() != "MALFORMED_RESPONSE" {
		t.Errorf("code = %q", mr.Code())
	}
}

func TestPublishPostSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostFormValue("title"); got != "My Title" {
			t.Errorf("title = %q", got)
		}
		if got := r.PostFormValue("author"); got != "" {
			t.Errorf("author = %q, want empty", got)
		}
		if got := r.PostFormValue("content"); got != "<b>body</b>" {
			t.Errorf("content = %q", got)
		}
		_, _ = w.Write([]byte(`{"post_url":"https://papernote.example/p/xyz"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	got, err := c.PublishPost(context.Background(), "My Title", "", "<b>body</b>")
	if err != nil {
		t.Fatalf("PublishPost: %v", err)
	}
	if got != "https://papernote.example/p/xyz" {
		t.Errorf("post url = %q", got)
	}
}

func TestPublishPostConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.PublishPost(context.Background(), "t", "a", "c")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("status = %d, want 0 for network failure", te.StatusCode)
	}
}

func TestPublishPostMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"post_url":""}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.PublishPost(context.Background(), "t", "a", "c")
	var mr *MalformedResponse
	if !errors.As(err, &mr) {
		t.Fatalf("err = %v, want MalformedResponse", err)
	}
	if mr.MissingKey != "post_url" {
		t.Errorf("missing key = %q, want post_url", mr.MissingKey)
	}
}
