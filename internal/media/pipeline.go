package media

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/papernote/papernote-bot/core/config"
	"github.com/papernote/papernote-bot/core/logger"
)

// Uploader pushes a staged file to the hosting API and returns its URL.
type Uploader interface {
	UploadMedia(ctx context.Context, path string) (string, error)
}

// Pipeline runs the full ingest sequence for one attachment:
// classify, bound, stage, download, upload, clean up.
type Pipeline struct {
	policy   Policy
	files    *FileManager
	uploader Uploader
	maxSize  int64
}

// NewPipeline wires the ingest pipeline from config.
func NewPipeline(cfg config.MediaConfig, files *FileManager, uploader Uploader) *Pipeline {
	maxSize := cfg.MaxFileSizeBytes
	if maxSize <= 0 {
		maxSize = config.DefaultMaxFileSizeBytes
	}
	return &Pipeline{
		policy:   NewPolicy(cfg),
		files:    files,
		uploader: uploader,
		maxSize:  maxSize,
	}
}

// Ingest validates the attachment, downloads it into a transient file and
// uploads it to the hosting API. The transient file is removed on every exit
// path. Returns the hosted URL.
func (p *Pipeline) Ingest(ctx context.Context, att Attachment) (string, error) {
	start := time.Now()

	category, err := p.policy.Classify(att)
	if err != nil {
		logger.LogEvent(ctx, logger.MED, slog.LevelInfo, "ingest.rejected",
			slog.String("mime", att.MIME),
			slog.String("err", err.Error()),
		)
		return "", err
	}

	if att.SizeByte > p.maxSize {
		logger.LogEvent(ctx, logger.MED, slog.LevelInfo, "ingest.too_large",
			slog.Int64("size_bytes", att.SizeByte),
			slog.String("mime", att.MIME),
		)
		return "", &FileTooLargeError{SizeByte: att.SizeByte, Limit: p.maxSize}
	}

	name := LocalName(att)
	file, err := p.files.Acquire(name)
	if err != nil {
		return "", err
	}
	defer file.Release(ctx)

	if att.Fetch == nil {
		return "", &DownloadError{Err: errNilFetch}
	}
	if err := att.Fetch(ctx, file.Path()); err != nil {
		logger.LogEvent(ctx, logger.MED, slog.LevelWarn, "ingest.download.fail",
			slog.String("file", name),
			slog.String("err", err.Error()),
		)
		return "", &DownloadError{Err: err}
	}

	// Telegram-declared sizes can be absent or understated; re-check the
	// materialized file before it reaches the gateway.
	if info, err := os.Stat(file.Path()); err == nil && info.Size() > p.maxSize {
		logger.LogEvent(ctx, logger.MED, slog.LevelInfo, "ingest.too_large",
			slog.Int64("size_bytes", info.Size()),
			slog.String("mime", att.MIME),
			slog.String("file", name),
		)
		return "", &FileTooLargeError{SizeByte: info.Size(), Limit: p.maxSize}
	}

	hosted, err := p.uploader.UploadMedia(ctx, file.Path())
	if err != nil {
		return "", err
	}

	logger.LogEvent(ctx, logger.MED, slog.LevelInfo, "ingest.done",
		slog.String("category", string(category)),
		slog.String("mime", att.MIME),
		slog.Int64("size_bytes", att.SizeByte),
		slog.String("media_url", hosted),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return hosted, nil
}

var errNilFetch = &fetchUnavailableError{}

type fetchUnavailableError struct{}

func (*fetchUnavailableError) Error() string { return "no fetch function attached" }
