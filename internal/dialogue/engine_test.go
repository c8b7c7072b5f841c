package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePublisher struct {
	url   string
	err   error
	calls int

	gotTitle   string
	gotAuthor  string
	gotContent string
}

func (f *fakePublisher) PublishPost(_ context.Context, title, author, content string) (string, error) {
	f.calls++
	f.gotTitle = title
	f.gotAuthor = author
	f.gotContent = content
	return f.url, f.err
}

func newTestEngine(pub *fakePublisher) *Engine {
	return NewEngine(NewStore(time.Hour), pub)
}

func TestFullFlowPublishes(t *testing.T) {
	pub := &fakePublisher{url: "https://papernote.example/p/1"}
	e := newTestEngine(pub)
	ctx := context.Background()

	if err := e.Begin(ctx, 42, 100); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if !e.InProgress(42) {
		t.Fatal("session not in progress after Begin")
	}

	res, err := e.Submit(ctx, 42, "  My Title  ")
	if err != nil {
		t.Fatalf("submit title: %v", err)
	}
	if res.Next != StateAwaitAuthor {
		t.Errorf("next = %q, want %q", res.Next, StateAwaitAuthor)
	}

	res, err = e.Submit(ctx, 42, "Jane Roe")
	if err != nil {
		t.Fatalf("submit author: %v", err)
	}
	if res.Next != StateAwaitContent {
		t.Errorf("next = %q, want %q", res.Next, StateAwaitContent)
	}

	res, err = e.Submit(ctx, 42, "<b>hello</b>")
	if err != nil {
		t.Fatalf("submit content: %v", err)
	}
	if !res.Published || res.PostURL != pub.url {
		t.Errorf("result = %+v, want published with url", res)
	}
	if pub.gotTitle != "  My Title  " || pub.gotAuthor != "Jane Roe" || pub.gotContent != "<b>hello</b>" {
		t.Errorf("published fields = %q %q %q", pub.gotTitle, pub.gotAuthor, pub.gotContent)
	}
	if e.InProgress(42) {
		t.Error("session survived a successful publish")
	}
}

func TestAuthorSkipIsCaseInsensitive(t *testing.T) {
	for _, word := range []string{"skip", "SKIP", "Skip", "  sKiP  "} {
		pub := &fakePublisher{url: "u"}
		e := newTestEngine(pub)
		ctx := context.Background()

		if err := e.Begin(ctx, 1, 1); err != nil {
			t.Fatalf("Begin: %v", err)
		}
		mustSubmit(t, e, 1, "title")
		mustSubmit(t, e, 1, word)
		mustSubmit(t, e, 1, "content")

		if pub.gotAuthor != "" {
			t.Errorf("author for %q = %q, want empty", word, pub.gotAuthor)
		}
	}
}

func mustSubmit(t *testing.T, e *Engine, userID int64, text string) Result {
	t.Helper()
	res, err := e.Submit(context.Background(), userID, text)
	if err != nil {
		t.Fatalf("Submit(%q): %v", text, err)
	}
	return res
}

func TestBeginTwiceRejected(t *testing.T) {
	e := newTestEngine(&fakePublisher{})
	ctx := context.Background()

	if err := e.Begin(ctx, 1, 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	err := e.Begin(ctx, 1, 1)
	if !errors.Is(err, ErrAlreadyInDialogue) {
		t.Errorf("err = %v, want ErrAlreadyInDialogue", err)
	}
}

func TestNoSessionErrors(t *testing.T) {
	e := newTestEngine(&fakePublisher{})
	ctx := context.Background()

	if err := e.Cancel(ctx, 7); !errors.Is(err, ErrNoActiveDialogue) {
		t.Errorf("Cancel err = %v, want ErrNoActiveDialogue", err)
	}
	if _, err := e.Submit(ctx, 7, "text"); !errors.Is(err, ErrNoActiveDialogue) {
		t.Errorf("Submit err = %v, want ErrNoActiveDialogue", err)
	}
}

func TestCancelDiscardsSession(t *testing.T) {
	e := newTestEngine(&fakePublisher{})
	ctx := context.Background()

	if err := e.Begin(ctx, 3, 3); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	mustSubmit(t, e, 3, "title")
	if err := e.Cancel(ctx, 3); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if e.InProgress(3) {
		t.Error("session still present after cancel")
	}
	if err := e.Begin(ctx, 3, 3); err != nil {
		t.Errorf("Begin after cancel: %v", err)
	}
}

func TestPublishFailureDestroysSession(t *testing.T) {
	pub := &fakePublisher{err: errors.New("api down")}
	e := newTestEngine(pub)
	ctx := context.Background()

	if err := e.Begin(ctx, 9, 9); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	mustSubmit(t, e, 9, "title")
	mustSubmit(t, e, 9, "skip")

	_, err := e.Submit(ctx, 9, "content")
	if err == nil {
		t.Fatal("expected publish error")
	}
	if e.InProgress(9) {
		t.Error("session survived a failed publish")
	}
	if _, err := e.Submit(ctx, 9, "content"); !errors.Is(err, ErrNoActiveDialogue) {
		t.Errorf("resubmit err = %v, want ErrNoActiveDialogue", err)
	}
}

func TestTitleKeptVerbatim(t *testing.T) {
	// Titles pass through untouched; only the author reply is trimmed.
	for _, title := range []string{"   ", "  spaced out  ", "\ttabbed"} {
		pub := &fakePublisher{url: "u"}
		e := newTestEngine(pub)
		ctx := context.Background()

		if err := e.Begin(ctx, 2, 2); err != nil {
			t.Fatalf("Begin: %v", err)
		}
		mustSubmit(t, e, 2, title)
		mustSubmit(t, e, 2, "skip")
		mustSubmit(t, e, 2, "body")

		if pub.gotTitle != title {
			t.Errorf("title = %q, want %q", pub.gotTitle, title)
		}
	}
}

func TestPurgeIdleSessions(t *testing.T) {
	store := NewStore(10 * time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	if _, err := store.Create(1, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(2, 2); err != nil {
		t.Fatalf("Create: %v", err)
	}

	now = now.Add(5 * time.Minute)
	if n := store.purgeIdle(); n != 0 {
		t.Errorf("purged %d sessions before TTL", n)
	}

	now = now.Add(6 * time.Minute)
	if n := store.purgeIdle(); n != 2 {
		t.Errorf("purged = %d, want 2", n)
	}
	if store.Len() != 0 {
		t.Errorf("store len = %d after purge", store.Len())
	}
}

func TestPurgeSkipsBusySession(t *testing.T) {
	store := NewStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	sess, err := store.Create(1, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	now = now.Add(2 * time.Minute)

	sess.mu.Lock()
	if n := store.purgeIdle(); n != 0 {
		t.Errorf("purged busy session: %d", n)
	}
	sess.mu.Unlock()

	if n := store.purgeIdle(); n != 1 {
		t.Errorf("purged = %d after unlock, want 1", n)
	}
}

func TestSubmitAfterExpiry(t *testing.T) {
	store := NewStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	e := NewEngine(store, &fakePublisher{url: "u"})
	ctx := context.Background()

	if err := e.Begin(ctx, 5, 5); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	now = now.Add(2 * time.Minute)
	store.purgeIdle()

	if _, err := e.Submit(ctx, 5, "title"); !errors.Is(err, ErrNoActiveDialogue) {
		t.Errorf("err = %v, want ErrNoActiveDialogue", err)
	}
}
