package bot

import (
	"fmt"
	"time"

	coretelegram "github.com/papernote/papernote-bot/core/telegram"
	"github.com/papernote/papernote-bot/core/telegram/commands"
	"github.com/papernote/papernote-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

func (a *App) buildRegistry() *coretelegram.Registry {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Welcome and quick intro",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "How to use the bot",
	})
	reg.RegisterCommand("/content", commands.Command{
		Handler:     a.startContent,
		Description: "Create and publish an article",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.cancelContent,
		Description: "Cancel the current article",
	})
	reg.RegisterCommand("/htmltags", commands.Command{
		Handler:     a.handleHTMLTags,
		Description: "Supported HTML formatting",
	})
	reg.RegisterCommand("/love", commands.Command{
		Handler:     a.handleLove,
		Description: "Some PaperNote love",
	})
	reg.RegisterCommand("/dev", commands.Command{
		Handler:     a.handleLove,
		Description: "About the project",
		Hidden:      true,
	})
	reg.RegisterCommand("/credit", commands.Command{
		Handler:     a.handleLove,
		Description: "Credits",
		Hidden:      true,
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Runtime stats",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.SetTextFallback(a.handleUnknownText)
	return reg
}

func (a *App) handleStart(c tele.Context) error {
	return helpers.SendHTML(c, textStart)
}

func (a *App) handleHelp(c tele.Context) error {
	return helpers.SendHTML(c, textHelp)
}

func (a *App) handleHTMLTags(c tele.Context) error {
	return helpers.SendHTML(c, textHTMLTags)
}

func (a *App) handleLove(c tele.Context) error {
	return helpers.SendHTML(c, textLove)
}

func (a *App) handleUnknownText(c tele.Context) error {
	return helpers.SendText(c, textUnknownMessage)
}

func (a *App) handleStats(c tele.Context) error {
	uptime := time.Duration(0)
	if !a.startedAt.IsZero() {
		uptime = time.Since(a.startedAt).Round(time.Second)
	}
	var senderErrs uint64
	if a.dispatcher != nil {
		senderErrs = a.dispatcher.ErrorCount()
	}
	text := fmt.Sprintf(
		"<b>Bot stats</b>\nUptime: %s\nActive dialogues: %d\nSender errors: %d",
		uptime, a.engine.ActiveSessions(), senderErrs,
	)
	return helpers.SendHTML(c, text)
}
