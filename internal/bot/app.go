// Package bot wires the PaperNote Telegram bot: commands, the publishing
// dialogue and the media ingest flow.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/papernote/papernote-bot/core/config"
	"github.com/papernote/papernote-bot/core/logger"
	coretelegram "github.com/papernote/papernote-bot/core/telegram"
	"github.com/papernote/papernote-bot/core/telegram/router"
	"github.com/papernote/papernote-bot/core/telegram/sender"
	"github.com/papernote/papernote-bot/internal/dialogue"
	"github.com/papernote/papernote-bot/internal/gateway"
	"github.com/papernote/papernote-bot/internal/media"
)

const janitorInterval = time.Minute

// App holds the assembled bot services.
type App struct {
	cfg      *config.Config
	gateway  *gateway.Client
	pipeline *media.Pipeline
	engine   *dialogue.Engine
	sessions *dialogue.Store

	dispatcher *sender.Dispatcher
	startedAt  time.Time
}

// New assembles the application from configuration.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	gw := gateway.New(cfg.PaperNote)

	files, err := media.NewFileManager(cfg.Media.TempDir)
	if err != nil {
		return nil, err
	}

	sessions := dialogue.NewStore(time.Duration(cfg.Session.IdleTTLMinutes) * time.Minute)

	return &App{
		cfg:      cfg,
		gateway:  gw,
		pipeline: media.NewPipeline(cfg.Media, files, gw),
		engine:   dialogue.NewEngine(sessions, gw),
		sessions: sessions,
	}, nil
}

// CoreConfig exposes the embedded core configuration.
func (a *App) CoreConfig() *config.Config {
	return a.cfg
}

// TelegramRunOptions builds the full bot runtime wiring.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := a.buildRegistry()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{})...)
	routes = append(routes, router.MediaRoutes(router.MediaOptions{
		Photo:    a.handlePhoto,
		Document: a.handleDocument,
		Video:    a.handleVideo,
	})...)

	opts := coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.dispatcher = rt.Dispatcher
			a.startedAt = time.Now()
			a.sessions.StartJanitor(ctx, janitorInterval)
			logger.Info(ctx, "bot", "ready",
				slog.String("mode", a.cfg.Telegram.RunMode),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.Info(ctx, "bot", "stopping",
				slog.Int("sessions", a.engine.ActiveSessions()),
			)
			return nil
		},
	}
	return opts, nil
}
