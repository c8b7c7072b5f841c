package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papernote/papernote-bot/core/telegram/helpers"
	"github.com/papernote/papernote-bot/core/telegram/keyboard"
	"github.com/papernote/papernote-bot/internal/dialogue"

	tele "gopkg.in/telebot.v4"
)

// InProgress reports whether the sender has an open publishing dialogue.
// Part of the router contract for text dispatch.
func (a *App) InProgress(userID int64) bool {
	return a.engine.InProgress(userID)
}

// startContent opens the publishing dialogue and asks for the title.
func (a *App) startContent(c tele.Context) error {
	ctx := helpers.WithHandler(c, "content")

	if err := a.engine.Begin(ctx, c.Sender().ID, c.Chat().ID); err != nil {
		if errors.Is(err, dialogue.ErrAlreadyInDialogue) {
			_ = helpers.SendText(c, textAlreadyActive)
		}
		return err
	}

	return helpers.SendText(c, textAskTitle, &tele.SendOptions{
		ReplyMarkup: keyboard.ForceReply(),
	})
}

// cancelContent discards the open dialogue, if any.
func (a *App) cancelContent(c tele.Context) error {
	ctx := helpers.WithHandler(c, "cancel")

	if err := a.engine.Cancel(ctx, c.Sender().ID); err != nil {
		if errors.Is(err, dialogue.ErrNoActiveDialogue) {
			_ = helpers.SendText(c, textNothingActive)
		}
		return err
	}
	return helpers.SendText(c, textCancelled, &tele.SendOptions{
		ReplyMarkup: keyboard.RemoveKeyboard(),
	})
}

// HandleText feeds a plain text message into the dialogue state machine.
// Registered commands are dispatched by the bot before OnText fires, so
// /cancel keeps working mid-dialogue. Stray slash-prefixed text is dropped
// rather than captured as a field value.
func (a *App) HandleText(c tele.Context) error {
	text := c.Text()
	if strings.HasPrefix(text, "/") {
		return nil
	}

	ctx := helpers.WithHandler(c, "dialogue")
	res, err := a.engine.Submit(ctx, c.Sender().ID, text)
	if err != nil {
		if errors.Is(err, dialogue.ErrNoActiveDialogue) {
			// Session expired between routing and submit.
			_ = helpers.SendText(c, textNothingActive)
			return err
		}
		_ = helpers.SendText(c, textPublishFailed)
		return err
	}

	switch {
	case res.Published:
		return helpers.SendText(c, fmt.Sprintf(textPublished, res.PostURL))
	case res.Next == dialogue.StateAwaitAuthor:
		return helpers.SendText(c, textAskAuthor)
	case res.Next == dialogue.StateAwaitContent:
		return helpers.SendText(c, textAskContent)
	default:
		return nil
	}
}
