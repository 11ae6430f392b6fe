// Package publisher keeps a floating "save" control on the video page and
// writes the page's video id to the shared slot when the user clicks it.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"video-chat-agent/internal/domain"
	"video-chat-agent/internal/videoid"
)

const (
	ControlID      = "yt-chatbot-open-btn"
	DefaultLabel   = "YT Chatbot"
	SavedLabel     = "Saved ✓"
	NoVideoNotice  = "No video id found on this page."
	SaveFailNotice = "Could not save the video id. Try again."

	DefaultRevertDelay = 1200 * time.Millisecond
)

// Page is the host document the control lives in.
type Page interface {
	URL() string
	HasControl(id string) bool
	InsertControl(id, label string, onActivate func())
	SetControlLabel(id, label string)
	Notify(message string)
}

type SlotWriter interface {
	PutVideoID(ctx context.Context, id domain.VideoID) error
}

// URLPublisher writes the video id of a URL to the slot. It is the page-free
// half of Publisher.
type URLPublisher struct {
	slot   SlotWriter
	logger *slog.Logger
}

func NewURLPublisher(slot SlotWriter, logger *slog.Logger) (*URLPublisher, error) {
	if slot == nil {
		return nil, errors.New("publisher: slot writer must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &URLPublisher{slot: slot, logger: logger}, nil
}

// Publisher owns the floating control on a Page.
type Publisher struct {
	*URLPublisher
	page        Page
	revertDelay time.Duration
	afterFunc   func(time.Duration, func())
}

type Option func(*Publisher)

func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRevertDelay sets how long the confirmation label stays up.
func WithRevertDelay(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.revertDelay = d
		}
	}
}

func New(page Page, slot SlotWriter, opts ...Option) (*Publisher, error) {
	if page == nil {
		return nil, errors.New("publisher: page must not be nil")
	}
	if slot == nil {
		return nil, errors.New("publisher: slot writer must not be nil")
	}
	p := &Publisher{
		URLPublisher: &URLPublisher{slot: slot, logger: slog.Default()},
		page:         page,
		revertDelay:  DefaultRevertDelay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// EnsureControl inserts the control unless the page already has it. Clicks
// on an inserted control publish under ctx.
func (p *Publisher) EnsureControl(ctx context.Context) {
	if p.page.HasControl(ControlID) {
		return
	}
	p.page.InsertControl(ControlID, DefaultLabel, func() {
		_ = p.Activate(ctx)
	})
	p.logger.Debug("control inserted", "id", ControlID)
}

// Run ensures the control now and again on every page change until ctx is
// done or changes is closed.
func (p *Publisher) Run(ctx context.Context, changes <-chan struct{}) error {
	p.EnsureControl(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			p.EnsureControl(ctx)
		}
	}
}

// Activate handles a click on the control. On success the label flips to
// SavedLabel and reverts after the delay; pending reverts are never cancelled.
func (p *Publisher) Activate(ctx context.Context) error {
	if _, err := p.PublishURL(ctx, p.page.URL()); err != nil {
		if errors.Is(err, videoid.ErrNoVideoID) {
			p.page.Notify(NoVideoNotice)
			return err
		}
		p.logger.Error("publish failed", "err", err)
		p.page.Notify(SaveFailNotice)
		return err
	}

	p.page.SetControlLabel(ControlID, SavedLabel)
	p.afterFunc(p.revertDelay, func() {
		p.page.SetControlLabel(ControlID, DefaultLabel)
	})
	return nil
}

// PublishURL extracts the video id from rawURL and writes it to the slot.
// Without an id the slot is left untouched and videoid.ErrNoVideoID is returned.
func (p *URLPublisher) PublishURL(ctx context.Context, rawURL string) (domain.VideoID, error) {
	id, ok := videoid.Extract(rawURL)
	if !ok {
		return "", fmt.Errorf("publisher: %w", videoid.ErrNoVideoID)
	}
	if err := p.slot.PutVideoID(ctx, id); err != nil {
		return "", fmt.Errorf("publisher: publish %q: %w", id, err)
	}
	p.logger.Info("video id published", "videoId", id)
	return id, nil
}
