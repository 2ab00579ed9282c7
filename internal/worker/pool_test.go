package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivia-0916/storybot/internal/domain"
)

type stubGenerator struct {
	data []byte
	err  error
}

func (g stubGenerator) Generate(context.Context, string) ([]byte, error) {
	return g.data, g.err
}

type stubStore struct {
	url string
	err error
}

func (s stubStore) Upload(context.Context, string, []byte) (string, error) {
	return s.url, s.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	texts  []string
	images []string
	done   chan struct{}
}

func newRecordingNotifier(expected int) *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, expected)}
}

func (n *recordingNotifier) NotifyText(_ context.Context, _ domain.SessionKey, text string) error {
	n.mu.Lock()
	n.texts = append(n.texts, text)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *recordingNotifier) NotifyImage(_ context.Context, _ domain.SessionKey, url string) error {
	n.mu.Lock()
	n.images = append(n.images, url)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *recordingNotifier) waitFor(t *testing.T, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		select {
		case <-n.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for notification")
		}
	}
}

func TestPoolDeliversCompletedScene(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := newRecordingNotifier(2)
	pool := NewPool(
		stubGenerator{data: []byte("png-bytes")},
		stubStore{url: "https://images.example/scene.png"},
		notifier,
		1, 4,
	)
	pool.Start(ctx)

	require.NoError(t, pool.Submit(Job{To: "user-1", Prompt: "a fox in the forest", Scene: 2, Name: "scene.png"}))
	notifier.waitFor(t, 2)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{"第 2 段完成了！"}, notifier.texts)
	assert.Equal(t, []string{"https://images.example/scene.png"}, notifier.images)
}

func TestPoolReportsGenerationFailureAsRetryPrompt(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := newRecordingNotifier(1)
	pool := NewPool(
		stubGenerator{err: errors.New("model overloaded")},
		stubStore{url: "unused"},
		notifier,
		1, 4,
	)
	pool.Start(ctx)

	require.NoError(t, pool.Submit(Job{To: "user-1", Prompt: "a fox", Scene: 1}))
	notifier.waitFor(t, 1)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.texts, 1)
	assert.Equal(t, "圖片生成暫時失敗了，稍後再試一次可以嗎？", notifier.texts[0])
	assert.Empty(t, notifier.images)
}

func TestPoolReportsUploadFailureAsRetryPrompt(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := newRecordingNotifier(1)
	pool := NewPool(
		stubGenerator{data: []byte("png-bytes")},
		stubStore{err: errors.New("bucket unavailable")},
		notifier,
		1, 4,
	)
	pool.Start(ctx)

	require.NoError(t, pool.Submit(Job{To: "user-1", Prompt: "a fox", Scene: 1}))
	notifier.waitFor(t, 1)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{"圖片生成暫時失敗了，稍後再試一次可以嗎？"}, notifier.texts)
	assert.Empty(t, notifier.images)
}

func TestSubmitRejectsWhenQueueFull(t *testing.T) {
	t.Parallel()

	// Never started, so nothing drains the queue.
	pool := NewPool(stubGenerator{}, stubStore{}, newRecordingNotifier(0), 1, 1)

	require.NoError(t, pool.Submit(Job{To: "user-1"}))
	assert.ErrorIs(t, pool.Submit(Job{To: "user-1"}), ErrQueueFull)
}

func TestPoolStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(stubGenerator{}, stubStore{}, newRecordingNotifier(0), 2, 4)
	pool.Start(ctx)

	cancel()

	stopped := make(chan struct{})
	go func() {
		pool.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after cancel")
	}
}
