package bot

import (
	"errors"
	"testing"

	"github.com/papernote/papernote-bot/internal/gateway"
	"github.com/papernote/papernote-bot/internal/media"
)

func TestMediaFailureReply(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"disallowed type", &media.DisallowedTypeError{MIME: "application/pdf"}, textInvalidFileType},
		{"unsupported kind", &media.UnsupportedKindError{Kind: media.Kind("sticker")}, textUnsupportedMedia},
		{"too large", &media.FileTooLargeError{SizeByte: 1, Limit: 0}, textFileTooLarge},
		{"download failed", &media.DownloadError{Err: errors.New("gone")}, textDownloadFailed},
		{"transport", &gateway.TransportError{Op: "upload_media", StatusCode: 502}, textMediaUploadFailed},
		{"malformed", &gateway.MalformedResponse{Op: "upload_media", MissingKey: "media_url"}, textMediaUploadFailed},
		{"unknown", errors.New("boom"), textMediaUploadFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mediaFailureReply(tc.err); got != tc.want {
				t.Errorf("reply = %q, want %q", got, tc.want)
			}
		})
	}
}
