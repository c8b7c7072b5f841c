package router

import (
	"time"

	tg "github.com/papernote/papernote-bot/core/telegram"
	"github.com/papernote/papernote-bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Dialogue is the minimal interface the router needs from the dialogue engine.
type Dialogue interface {
	InProgress(userID int64) bool
	HandleText(c tele.Context) error
}

// TextOptions controls fallback behaviour for plain text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for text routing. Text belongs to the
// dialogue engine while a session is active; otherwise it is matched against
// registered commands and finally handed to the registry fallback.
func TextRoutes(dlg Dialogue, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if dlg != nil && dlg.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "dialogue", start, "", "", func() error {
				return dlg.HandleText(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}

// MediaOptions carries the ingest handlers for media updates.
type MediaOptions struct {
	Photo    tele.HandlerFunc
	Document tele.HandlerFunc
	Video    tele.HandlerFunc
}

// MediaRoutes builds handlers for photo, document and video updates.
// Media is ingested regardless of dialogue state, matching the ad-hoc
// upload flow.
func MediaRoutes(opts MediaOptions) []tg.Route {
	wrap := func(name string, h tele.HandlerFunc) tele.HandlerFunc {
		inner := func(c tele.Context) error {
			start := time.Now()
			if h == nil {
				logHandlerSummary(c, name, start, "skip", "ok", nil)
				return nil
			}
			return handleWithSummary(c, name, start, "", "", func() error {
				return h(c)
			})
		}
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(inner))
	}

	return []tg.Route{
		{Endpoint: tele.OnPhoto, Handler: wrap("media_photo", opts.Photo)},
		{Endpoint: tele.OnDocument, Handler: wrap("media_document", opts.Document)},
		{Endpoint: tele.OnVideo, Handler: wrap("media_video", opts.Video)},
	}
}
