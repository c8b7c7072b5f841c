package media

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/papernote/papernote-bot/core/config"
)

func testMediaConfig(dir string) config.MediaConfig {
	return config.MediaConfig{
		MaxFileSizeBytes:  1024,
		AllowedImageTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		AllowedVideoTypes: []string{"video/mp4", "video/avi"},
		TempDir:           dir,
	}
}

type fakeUploader struct {
	url      string
	err      error
	calls    int
	lastPath string
	sawFile  bool
}

func (f *fakeUploader) UploadMedia(_ context.Context, path string) (string, error) {
	f.calls++
	f.lastPath = path
	if _, err := os.Stat(path); err == nil {
		f.sawFile = true
	}
	return f.url, f.err
}

func TestPolicyClassify(t *testing.T) {
	p := NewPolicy(testMediaConfig(""))

	cases := []struct {
		name     string
		att      Attachment
		want     Category
		wantCode string
	}{
		{name: "photo", att: Attachment{Kind: KindPhoto, MIME: "image/jpeg"}, want: CategoryImage},
		{name: "document image", att: Attachment{Kind: KindDocument, MIME: "image/png"}, want: CategoryImage},
		{name: "document video", att: Attachment{Kind: KindDocument, MIME: "video/mp4"}, want: CategoryVideo},
		{name: "document mime case folded", att: Attachment{Kind: KindDocument, MIME: "Image/GIF"}, want: CategoryImage},
		{name: "video", att: Attachment{Kind: KindVideo, MIME: "video/avi"}, want: CategoryVideo},
		{name: "document pdf", att: Attachment{Kind: KindDocument, MIME: "application/pdf"}, wantCode: "DISALLOWED_MEDIA_TYPE"},
		{name: "video webm", att: Attachment{Kind: KindVideo, MIME: "video/webm"}, wantCode: "DISALLOWED_MEDIA_TYPE"},
		{name: "unknown kind", att: Attachment{Kind: Kind("sticker"), MIME: "image/webp"}, wantCode: "UNSUPPORTED_MEDIA_KIND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Classify(tc.att)
			if tc.wantCode != "" {
				if err == nil {
					t.Fatalf("expected error, got category %q", got)
				}
				type coder interface{ Code() string }
				c, ok := err.(coder)
				if !ok {
					t.Fatalf("error %T has no Code()", err)
				}
				if c.Code() != tc.wantCode {
					t.Errorf("code = %q, want %q", c.Code(), tc.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if got != tc.want {
				t.Errorf("category = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocalName(t *testing.T) {
	cases := []struct {
		att  Attachment
		want string
	}{
		{Attachment{Kind: KindPhoto, MIME: "image/jpeg", UserID: 42}, "42_photo.jpg"},
		{Attachment{Kind: KindDocument, MIME: "image/png", UserID: 7}, "7_document.png"},
		{Attachment{Kind: KindVideo, MIME: "video/mp4", UserID: 9}, "9_video.mp4"},
		{Attachment{Kind: KindDocument, MIME: "application/pdf", UserID: 1}, "1_document.pdf"},
	}
	for _, tc := range cases {
		if got := LocalName(tc.att); got != tc.want {
			t.Errorf("LocalName(%v %s) = %q, want %q", tc.att.Kind, tc.att.MIME, got, tc.want)
		}
	}
}

func newTestPipeline(t *testing.T, up *fakeUploader) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	fm, err := NewFileManager(dir)
	if err != nil {
		t.Fatalf("NewFileManager: %v", err)
	}
	return NewPipeline(testMediaConfig(dir), fm, up), dir
}

func writingFetch(data []byte) func(context.Context, string) error {
	return func(_ context.Context, path string) error {
		return os.WriteFile(path, data, 0o600)
	}
}

func TestIngestSuccessCleansUp(t *testing.T) {
	up := &fakeUploader{url: "https://papernote.example/m/1.jpg"}
	p, dir := newTestPipeline(t, up)

	att := Attachment{
		Kind:     KindPhoto,
		MIME:     "image/jpeg",
		SizeByte: 16,
		UserID:   42,
		Fetch:    writingFetch([]byte("jpeg bytes")),
	}

	hosted, err := p.Ingest(context.Background(), att)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if hosted != up.url {
		t.Errorf("hosted url = %q", hosted)
	}
	if !up.sawFile {
		t.Error("uploader did not observe the staged file")
	}
	if _, err := os.Stat(up.lastPath); !os.IsNotExist(err) {
		t.Errorf("staged file %s still present after ingest", up.lastPath)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("scratch dir not empty: %d entries", len(entries))
	}
}

func TestIngestTooLargeSkipsDownload(t *testing.T) {
	up := &fakeUploader{url: "unused"}
	p, _ := newTestPipeline(t, up)

	fetched := false
	att := Attachment{
		Kind:     KindVideo,
		MIME:     "video/mp4",
		SizeByte: 4096,
		UserID:   1,
		Fetch: func(context.Context, string) error {
			fetched = true
			return nil
		},
	}

	_, err := p.Ingest(context.Background(), att)
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("err = %v, want FileTooLargeError", err)
	}
	if tooLarge.Limit != 1024 {
		t.Errorf("limit = %d, want 1024", tooLarge.Limit)
	}
	if fetched {
		t.Error("oversized attachment was downloaded")
	}
	if up.calls != 0 {
		t.Error("oversized attachment was uploaded")
	}
}

func TestIngestOversizedDownloadRejected(t *testing.T) {
	// Telegram may declare a size smaller than what actually arrives.
	up := &fakeUploader{url: "unused"}
	p, dir := newTestPipeline(t, up)

	att := Attachment{
		Kind:     KindPhoto,
		MIME:     "image/jpeg",
		SizeByte: 0,
		UserID:   3,
		Fetch:    writingFetch(make([]byte, 4096)),
	}

	_, err := p.Ingest(context.Background(), att)
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("err = %v, want FileTooLargeError", err)
	}
	if tooLarge.SizeByte != 4096 || tooLarge.Limit != 1024 {
		t.Errorf("size/limit = %d/%d, want 4096/1024", tooLarge.SizeByte, tooLarge.Limit)
	}
	if up.calls != 0 {
		t.Error("oversized download was uploaded")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("scratch dir not empty after rejection: %d entries", len(entries))
	}
}

func TestIngestDisallowedType(t *testing.T) {
	up := &fakeUploader{}
	p, _ := newTestPipeline(t, up)

	att := Attachment{Kind: KindDocument, MIME: "application/zip", SizeByte: 8, UserID: 1}
	_, err := p.Ingest(context.Background(), att)
	var disallowed *DisallowedTypeError
	if !errors.As(err, &disallowed) {
		t.Fatalf("err = %v, want DisallowedTypeError", err)
	}
	if up.calls != 0 {
		t.Error("disallowed attachment was uploaded")
	}
}

func TestIngestDownloadFailureReleasesFile(t *testing.T) {
	up := &fakeUploader{}
	p, dir := newTestPipeline(t, up)

	att := Attachment{
		Kind:     KindPhoto,
		MIME:     "image/jpeg",
		SizeByte: 8,
		UserID:   5,
		Fetch: func(context.Context, string) error {
			return errors.New("telegram: file gone")
		},
	}

	_, err := p.Ingest(context.Background(), att)
	var dl *DownloadError
	if !errors.As(err, &dl) {
		t.Fatalf("err = %v, want DownloadError", err)
	}
	if up.calls != 0 {
		t.Error("failed download was uploaded")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("scratch dir not empty after failed download: %d entries", len(entries))
	}
}

func TestIngestUploadFailureReleasesFile(t *testing.T) {
	up := &fakeUploader{err: errors.New("boom")}
	p, dir := newTestPipeline(t, up)

	att := Attachment{
		Kind:     KindDocument,
		MIME:     "image/png",
		SizeByte: 8,
		UserID:   5,
		Fetch:    writingFetch([]byte("png")),
	}

	if _, err := p.Ingest(context.Background(), att); err == nil {
		t.Fatal("expected upload error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("scratch dir not empty after failed upload: %d entries", len(entries))
	}
}

func TestTransientFileReleaseIdempotent(t *testing.T) {
	fm, err := NewFileManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileManager: %v", err)
	}
	f, err := fm.Acquire("1_photo.jpg")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := os.WriteFile(f.Path(), []byte("x"), 0o600); err != nil {
		t.Fatalf("stage file: %v", err)
	}

	ctx := context.Background()
	f.Release(ctx)
	f.Release(ctx)
	if _, err := os.Stat(f.Path()); !os.IsNotExist(err) {
		t.Error("file still present after release")
	}
}

func TestAcquireRejectsPathTraversal(t *testing.T) {
	fm, err := NewFileManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileManager: %v", err)
	}
	if _, err := fm.Acquire("../escape.jpg"); err == nil {
		t.Error("expected error for path traversal name")
	}
	if _, err := fm.Acquire(""); err == nil {
		t.Error("expected error for empty name")
	}
}
