// Package dialogue drives the guided publishing flow: title, author,
// content, publish. One session per user, in memory only.
package dialogue

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/papernote/papernote-bot/core/logger"
)

// AuthorSkipWord is the reply that leaves the article anonymous.
const AuthorSkipWord = "skip"

// Publisher submits a finished article and returns its public URL.
type Publisher interface {
	PublishPost(ctx context.Context, title, author, content string) (string, error)
}

// Result describes what happened after a text submission.
type Result struct {
	// Next is the state the session moved to. Empty when the dialogue ended.
	Next State
	// Published is true once the article was submitted successfully.
	Published bool
	// PostURL is the public article URL, set when Published.
	PostURL string
}

// Engine owns session lifecycle and state transitions.
type Engine struct {
	store     *Store
	publisher Publisher
}

// NewEngine wires the dialogue engine.
func NewEngine(store *Store, publisher Publisher) *Engine {
	return &Engine{store: store, publisher: publisher}
}

// InProgress reports whether the user has an active session.
func (e *Engine) InProgress(userID int64) bool {
	_, ok := e.store.Get(userID)
	return ok
}

// ActiveSessions reports how many dialogues are currently open.
func (e *Engine) ActiveSessions() int {
	return e.store.Len()
}

// Begin opens a new session in the await-title state.
func (e *Engine) Begin(ctx context.Context, userID, chatID int64) error {
	if _, err := e.store.Create(userID, chatID); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.DLG, slog.LevelInfo, "session.begin",
		slog.String("state", string(StateAwaitTitle)),
	)
	return nil
}

// Cancel discards the user's session.
// Returns ErrNoActiveDialogue when there is none.
func (e *Engine) Cancel(ctx context.Context, userID int64) error {
	if !e.store.Delete(userID) {
		return ErrNoActiveDialogue
	}
	logger.LogEvent(ctx, logger.DLG, slog.LevelInfo, "session.cancelled")
	return nil
}

// Submit feeds one text message into the state machine. The session lock is
// held for the whole transition, including the publish call, so a burst of
// messages from one user is applied strictly in order.
func (e *Engine) Submit(ctx context.Context, userID int64, text string) (Result, error) {
	sess, ok := e.store.Get(userID)
	if !ok {
		return Result{}, ErrNoActiveDialogue
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// The janitor may have expired the session while we waited for the lock.
	if current, ok := e.store.Get(userID); !ok || current != sess {
		return Result{}, ErrNoActiveDialogue
	}
	e.store.touch(sess)

	switch sess.State {
	case StateAwaitTitle:
		// Stored verbatim; the hosting API owns title normalization.
		sess.Title = text
		sess.State = StateAwaitAuthor
		logger.LogEvent(ctx, logger.DLG, slog.LevelDebug, "session.title",
			slog.String("state", string(sess.State)),
		)
		return Result{Next: StateAwaitAuthor}, nil

	case StateAwaitAuthor:
		author := strings.TrimSpace(text)
		if strings.EqualFold(author, AuthorSkipWord) {
			author = ""
		}
		sess.Author = author
		sess.State = StateAwaitContent
		logger.LogEvent(ctx, logger.DLG, slog.LevelDebug, "session.author",
			slog.String("state", string(sess.State)),
		)
		return Result{Next: StateAwaitContent}, nil

	case StateAwaitContent:
		return e.publish(ctx, sess, text)

	default:
		return Result{}, &InvalidStateError{State: sess.State}
	}
}

// publish submits the article and destroys the session whatever the outcome.
// A failed publish does not leave the user stuck in a half-open dialogue.
func (e *Engine) publish(ctx context.Context, sess *Session, content string) (Result, error) {
	defer e.store.Delete(sess.UserID)

	start := time.Now()
	postURL, err := e.publisher.PublishPost(ctx, sess.Title, sess.Author, content)
	if err != nil {
		logger.LogEvent(ctx, logger.DLG, slog.LevelWarn, "publish.failed",
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
		return Result{}, err
	}

	logger.LogEvent(ctx, logger.DLG, slog.LevelInfo, "publish.done",
		slog.String("post_url", postURL),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return Result{Published: true, PostURL: postURL}, nil
}
