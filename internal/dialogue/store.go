package dialogue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/papernote/papernote-bot/core/logger"
)

// State names one step of the publishing dialogue.
type State string

const (
	StateAwaitTitle   State = "await_title"
	StateAwaitAuthor  State = "await_author"
	StateAwaitContent State = "await_content"
)

// Session holds the fields collected so far for one user. The mutex
// serializes transitions so concurrent updates from the same user cannot
// interleave; it is held across the publish call as well.
type Session struct {
	UserID int64
	ChatID int64
	State  State
	Title  string
	Author string

	mu         sync.Mutex
	lastActive time.Time
}

// Store keeps at most one session per user, in memory only.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore builds a store with the given idle TTL. A non-positive TTL
// disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a fresh session for the user.
// Returns ErrAlreadyInDialogue if one exists.
func (s *Store) Create(userID, chatID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; ok {
		return nil, ErrAlreadyInDialogue
	}
	sess := &Session{
		UserID:     userID,
		ChatID:     chatID,
		State:      StateAwaitTitle,
		lastActive: s.now(),
	}
	s.sessions[userID] = sess
	return sess, nil
}

// Get returns the user's session if one exists.
func (s *Store) Get(userID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Delete removes the user's session. Reports whether one existed.
func (s *Store) Delete(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; !ok {
		return false
	}
	delete(s.sessions, userID)
	return true
}

// Len reports the number of active sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) touch(sess *Session) {
	s.mu.Lock()
	sess.lastActive = s.now()
	s.mu.Unlock()
}

// purgeIdle drops sessions idle longer than the TTL. Sessions whose lock is
// currently held (a transition or publish in flight) are skipped until the
// next sweep.
func (s *Store) purgeIdle() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	purged := 0
	for userID, sess := range s.sessions {
		if sess.lastActive.After(cutoff) {
			continue
		}
		if !sess.mu.TryLock() {
			continue
		}
		delete(s.sessions, userID)
		sess.mu.Unlock()
		purged++
	}
	return purged
}

// StartJanitor sweeps idle sessions until the context is done.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.purgeIdle(); n > 0 {
					logger.LogEvent(ctx, logger.DLG, slog.LevelInfo, "session.expired",
						slog.Int("purged", n),
					)
				}
			}
		}
	}()
}
