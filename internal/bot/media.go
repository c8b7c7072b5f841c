package bot

import (
	"context"
	"errors"

	"github.com/papernote/papernote-bot/core/telegram/helpers"
	"github.com/papernote/papernote-bot/internal/gateway"
	"github.com/papernote/papernote-bot/internal/media"

	tele "gopkg.in/telebot.v4"
)

// telegramFetch downloads the given Telegram file into a local path.
func telegramFetch(c tele.Context, file *tele.File) func(context.Context, string) error {
	return func(_ context.Context, path string) error {
		return c.Bot().Download(file, path)
	}
}

func (a *App) handlePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	// Telegram recompresses photos to JPEG.
	att := media.Attachment{
		Kind:     media.KindPhoto,
		MIME:     "image/jpeg",
		SizeByte: msg.Photo.FileSize,
		UserID:   c.Sender().ID,
		Fetch:    telegramFetch(c, &msg.Photo.File),
	}
	return a.ingest(c, att)
}

func (a *App) handleDocument(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Document == nil {
		return nil
	}
	att := media.Attachment{
		Kind:     media.KindDocument,
		MIME:     msg.Document.MIME,
		SizeByte: msg.Document.FileSize,
		UserID:   c.Sender().ID,
		Fetch:    telegramFetch(c, &msg.Document.File),
	}
	return a.ingest(c, att)
}

func (a *App) handleVideo(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Video == nil {
		return nil
	}
	att := media.Attachment{
		Kind:     media.KindVideo,
		MIME:     msg.Video.MIME,
		SizeByte: msg.Video.FileSize,
		UserID:   c.Sender().ID,
		Fetch:    telegramFetch(c, &msg.Video.File),
	}
	return a.ingest(c, att)
}

// ingest runs the pipeline and answers the user with either the hosted URL
// or a human-readable failure reason.
func (a *App) ingest(c tele.Context, att media.Attachment) error {
	ctx := helpers.BuildContext(c)

	hosted, err := a.pipeline.Ingest(ctx, att)
	if err != nil {
		_ = helpers.SendText(c, mediaFailureReply(err))
		return err
	}
	return helpers.SendText(c, hosted)
}

// mediaFailureReply maps ingest errors to the message shown in chat.
func mediaFailureReply(err error) string {
	var (
		disallowed  *media.DisallowedTypeError
		unsupported *media.UnsupportedKindError
		tooLarge    *media.FileTooLargeError
		download    *media.DownloadError
		transport   *gateway.TransportError
		malformed   *gateway.MalformedResponse
	)
	switch {
	case errors.As(err, &disallowed):
		return textInvalidFileType
	case errors.As(err, &unsupported):
		return textUnsupportedMedia
	case errors.As(err, &tooLarge):
		return textFileTooLarge
	case errors.As(err, &download):
		return textDownloadFailed
	case errors.As(err, &transport), errors.As(err, &malformed):
		return textMediaUploadFailed
	default:
		return textMediaUploadFailed
	}
}
