// Package media classifies, bounds and stages inbound attachments before
// they are uploaded to the hosting API.
package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/papernote/papernote-bot/core/config"
)

// Kind is the Telegram-side shape of an attachment.
type Kind string

const (
	KindPhoto    Kind = "photo"
	KindDocument Kind = "document"
	KindVideo    Kind = "video"
)

// Category is the hosting-side media class an attachment maps to.
type Category string

const (
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
)

// Attachment describes one inbound file. Fetch downloads the remote payload
// into the given local path; it is supplied by the transport layer so this
// package stays decoupled from the bot API.
type Attachment struct {
	Kind     Kind
	MIME     string
	SizeByte int64
	UserID   int64

	Fetch func(ctx context.Context, path string) error
}

// UnsupportedKindError marks attachment kinds the bot does not ingest.
type UnsupportedKindError struct {
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("media: unsupported attachment kind %q", e.Kind)
}

// Code identifies the error class in handler summaries.
func (e *UnsupportedKindError) Code() string { return "UNSUPPORTED_MEDIA_KIND" }

// DisallowedTypeError marks MIME types outside the configured allow lists.
type DisallowedTypeError struct {
	MIME string
}

func (e *DisallowedTypeError) Error() string {
	return fmt.Sprintf("media: type %q is not allowed", e.MIME)
}

// Code identifies the error class in handler summaries.
func (e *DisallowedTypeError) Code() string { return "DISALLOWED_MEDIA_TYPE" }

// FileTooLargeError is returned before any download is attempted.
type FileTooLargeError struct {
	SizeByte int64
	Limit    int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("media: file of %d bytes exceeds limit %d", e.SizeByte, e.Limit)
}

// Code identifies the error class in handler summaries.
func (e *FileTooLargeError) Code() string { return "FILE_TOO_LARGE" }

// DownloadError wraps failures while fetching the payload from Telegram.
type DownloadError struct {
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("media: download failed: %v", e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Code identifies the error class in handler summaries.
func (e *DownloadError) Code() string { return "DOWNLOAD_FAILED" }

// Policy holds the configured MIME allow lists and decides which category an
// attachment belongs to.
type Policy struct {
	imageTypes map[string]struct{}
	videoTypes map[string]struct{}
}

// NewPolicy builds a policy from the media section of the config.
func NewPolicy(cfg config.MediaConfig) Policy {
	return Policy{
		imageTypes: toSet(cfg.AllowedImageTypes),
		videoTypes: toSet(cfg.AllowedVideoTypes),
	}
}

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, v := range list {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// Classify maps an attachment to its hosting category. Photos always carry
// image/jpeg since Telegram recompresses them; documents and videos are
// judged by their declared MIME type.
func (p Policy) Classify(att Attachment) (Category, error) {
	mime := strings.ToLower(strings.TrimSpace(att.MIME))
	switch att.Kind {
	case KindPhoto:
		if _, ok := p.imageTypes[mime]; !ok {
			return "", &DisallowedTypeError{MIME: mime}
		}
		return CategoryImage, nil
	case KindDocument:
		if _, ok := p.imageTypes[mime]; ok {
			return CategoryImage, nil
		}
		if _, ok := p.videoTypes[mime]; ok {
			return CategoryVideo, nil
		}
		return "", &DisallowedTypeError{MIME: mime}
	case KindVideo:
		if _, ok := p.videoTypes[mime]; !ok {
			return "", &DisallowedTypeError{MIME: mime}
		}
		return CategoryVideo, nil
	default:
		return "", &UnsupportedKindError{Kind: att.Kind}
	}
}

var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"video/mp4":  ".mp4",
	"video/avi":  ".avi",
}

// LocalName builds the deterministic staging filename for an attachment.
func LocalName(att Attachment) string {
	ext := mimeExtensions[strings.ToLower(strings.TrimSpace(att.MIME))]
	if ext == "" {
		if i := strings.IndexByte(att.MIME, '/'); i >= 0 && i+1 < len(att.MIME) {
			ext = "." + strings.ToLower(att.MIME[i+1:])
		} else {
			ext = ".bin"
		}
	}
	return fmt.Sprintf("%d_%s%s", att.UserID, att.Kind, ext)
}
