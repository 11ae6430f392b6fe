package publisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"video-chat-agent/internal/domain"
	"video-chat-agent/internal/videoid"
)

type fakePage struct {
	mu       sync.Mutex
	url      string
	controls map[string]string
	onClick  map[string]func()
	inserts  int
	notices  []string
	labels   []string
}

func newFakePage(url string) *fakePage {
	return &fakePage{url: url, controls: map[string]string{}, onClick: map[string]func(){}}
}

func (f *fakePage) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

func (f *fakePage) HasControl(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.controls[id]
	return ok
}

func (f *fakePage) InsertControl(id, label string, onActivate func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controls[id] = label
	f.onClick[id] = onActivate
	f.inserts++
}

func (f *fakePage) SetControlLabel(id, label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controls[id] = label
	f.labels = append(f.labels, label)
}

func (f *fakePage) Notify(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, message)
}

// wipe simulates client-side navigation replacing the document body.
func (f *fakePage) wipe() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controls = map[string]string{}
	f.onClick = map[string]func(){}
}

func (f *fakePage) click(id string) {
	f.mu.Lock()
	fn := f.onClick[id]
	f.mu.Unlock()
	fn()
}

func (f *fakePage) label(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.controls[id]
}

type fakeSlot struct {
	mu     sync.Mutex
	value  domain.VideoID
	writes int
	err    error
}

func (f *fakeSlot) PutVideoID(_ context.Context, id domain.VideoID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.err != nil {
		return f.err
	}
	f.value = id
	return nil
}

// manualTimers collects scheduled reverts so tests fire them explicitly.
type manualTimers struct {
	pending []func()
}

func (m *manualTimers) afterFunc(_ time.Duration, f func()) {
	m.pending = append(m.pending, f)
}

func (m *manualTimers) fireAll() {
	for _, f := range m.pending {
		f()
	}
	m.pending = nil
}

func newTestPublisher(t *testing.T, page Page, slot SlotWriter) (*Publisher, *manualTimers) {
	t.Helper()
	p, err := New(page, slot, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	timers := &manualTimers{}
	p.afterFunc = timers.afterFunc
	return p, timers
}

func TestNew_ValidatesDependencies(t *testing.T) {
	_, err := New(nil, &fakeSlot{})
	require.Error(t, err)

	_, err = New(newFakePage(""), nil)
	require.Error(t, err)
}

func TestEnsureControl_Idempotent(t *testing.T) {
	page := newFakePage("https://www.youtube.com/watch?v=abc123")
	p, _ := newTestPublisher(t, page, &fakeSlot{})

	p.EnsureControl(context.Background())
	p.EnsureControl(context.Background())
	p.EnsureControl(context.Background())

	require.Equal(t, 1, page.inserts)
	require.Equal(t, DefaultLabel, page.label(ControlID))
}

func TestEnsureControl_RecreatesAfterNavigation(t *testing.T) {
	page := newFakePage("https://www.youtube.com/watch?v=abc123")
	p, _ := newTestPublisher(t, page, &fakeSlot{})

	p.EnsureControl(context.Background())
	page.wipe()
	p.EnsureControl(context.Background())

	require.Equal(t, 2, page.inserts)
	require.True(t, page.HasControl(ControlID))
}

func TestActivate_PublishesAndRevertsLabel(t *testing.T) {
	page := newFakePage("https://www.youtube.com/watch?v=abc123")
	slot := &fakeSlot{}
	p, timers := newTestPublisher(t, page, slot)
	p.EnsureControl(context.Background())

	page.click(ControlID)

	require.Equal(t, domain.VideoID("abc123"), slot.value)
	require.Equal(t, SavedLabel, page.label(ControlID))

	timers.fireAll()
	require.Equal(t, DefaultLabel, page.label(ControlID))
	require.Empty(t, page.notices)
}

func TestActivate_TwiceKeepsSingleValueAndRevertsLabel(t *testing.T) {
	page := newFakePage("https://youtu.be/xyz789")
	slot := &fakeSlot{}
	p, timers := newTestPublisher(t, page, slot)
	p.EnsureControl(context.Background())

	page.click(ControlID)
	page.click(ControlID)

	require.Equal(t, domain.VideoID("xyz789"), slot.value)
	require.Equal(t, 2, slot.writes)
	require.Len(t, timers.pending, 2)

	timers.fireAll()
	require.Equal(t, DefaultLabel, page.label(ControlID))
}

func TestActivate_NoVideoNotifiesAndLeavesStorage(t *testing.T) {
	page := newFakePage("https://www.youtube.com/feed/subscriptions")
	slot := &fakeSlot{}
	p, timers := newTestPublisher(t, page, slot)

	err := p.Activate(context.Background())
	require.ErrorIs(t, err, videoid.ErrNoVideoID)

	require.Equal(t, []string{NoVideoNotice}, page.notices)
	require.Zero(t, slot.writes)
	require.Empty(t, page.labels)
	require.Empty(t, timers.pending)
}

func TestActivate_WriteFailureKeepsLabel(t *testing.T) {
	page := newFakePage("https://www.youtube.com/watch?v=abc123")
	p, timers := newTestPublisher(t, page, &fakeSlot{err: errors.New("quota exceeded")})
	p.EnsureControl(context.Background())

	err := p.Activate(context.Background())
	require.ErrorContains(t, err, "quota exceeded")
	require.Equal(t, []string{SaveFailNotice}, page.notices)
	require.Equal(t, DefaultLabel, page.label(ControlID))
	require.Empty(t, timers.pending)
}

func TestActivate_RealTimerReverts(t *testing.T) {
	page := newFakePage("https://www.youtube.com/watch?v=abc123")
	p, err := New(page, &fakeSlot{}, WithRevertDelay(10*time.Millisecond))
	require.NoError(t, err)
	p.EnsureControl(context.Background())

	require.NoError(t, p.Activate(context.Background()))
	require.Eventually(t, func() bool {
		return page.label(ControlID) == DefaultLabel
	}, time.Second, 5*time.Millisecond)
}

func TestPublishURL(t *testing.T) {
	slot := &fakeSlot{}
	p, _ := newTestPublisher(t, newFakePage(""), slot)

	id, err := p.PublishURL(context.Background(), "https://www.youtube.com/watch?v=abc123")
	require.NoError(t, err)
	require.Equal(t, domain.VideoID("abc123"), id)
	require.Equal(t, id, slot.value)

	_, err = p.PublishURL(context.Background(), "https://example.com/")
	require.Error(t, err)
	require.Equal(t, 1, slot.writes)
}

func TestRun_EnsuresOnEveryChange(t *testing.T) {
	page := newFakePage("https://www.youtube.com/watch?v=abc123")
	p, _ := newTestPublisher(t, page, &fakeSlot{})

	changes := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background(), changes) }()

	require.Eventually(t, func() bool { return page.HasControl(ControlID) }, time.Second, time.Millisecond)
	page.wipe()
	changes <- struct{}{}
	require.Eventually(t, func() bool { return page.HasControl(ControlID) }, time.Second, time.Millisecond)

	close(changes)
	require.NoError(t, <-done)
}

func TestRun_StopsOnCancel(t *testing.T) {
	p, _ := newTestPublisher(t, newFakePage(""), &fakeSlot{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx, make(chan struct{}))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewURLPublisher(t *testing.T) {
	_, err := NewURLPublisher(nil, nil)
	require.Error(t, err)

	slot := &fakeSlot{}
	u, err := NewURLPublisher(slot, nil)
	require.NoError(t, err)

	id, err := u.PublishURL(context.Background(), "https://youtu.be/xyz789")
	require.NoError(t, err)
	require.Equal(t, domain.VideoID("xyz789"), id)
	require.Equal(t, id, slot.value)
}
