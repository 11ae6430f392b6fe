package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"video-chat-agent/internal/domain"
)

const (
	noVideoMessage     = `No video id found. Open a YouTube video and click the floating "YT Chatbot" button, or refresh extension.`
	backendErrorPrefix = "Backend error: "

	// KeyEnter is the key name that submits the input field.
	KeyEnter = "Enter"
)

type SlotReader interface {
	GetVideoID(ctx context.Context) (domain.VideoID, bool, error)
}

type TabQuerier interface {
	ActiveTabURL(ctx context.Context) (string, error)
}

type Backend interface {
	Ask(ctx context.Context, videoID domain.VideoID, question string) (string, error)
	BaseURL() string
}

// rejection is satisfied by backend errors that carry a completed HTTP reply.
type rejection interface {
	HTTPStatusCode() int
	ResponseBody() string
}

// Dispatcher is the panel: it owns the transient view state and turns each
// submission into at most one backend call.
type Dispatcher struct {
	slot    SlotReader
	tabs    TabQuerier
	backend Backend
	logger  *slog.Logger

	mu       sync.Mutex
	input    string
	status   domain.Status
	entries  []domain.Entry
	onChange func(ViewState)
}

type Option func(*Dispatcher)

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithOnChange registers a listener that receives a snapshot after every view
// mutation. It runs with the view locked and must not call back into the
// Dispatcher.
func WithOnChange(fn func(ViewState)) Option {
	return func(d *Dispatcher) {
		d.onChange = fn
	}
}

func NewDispatcher(slot SlotReader, tabs TabQuerier, backend Backend, opts ...Option) (*Dispatcher, error) {
	if slot == nil {
		return nil, errors.New("usecase: slot reader must not be nil")
	}
	if tabs == nil {
		return nil, errors.New("usecase: tab querier must not be nil")
	}
	if backend == nil {
		return nil, errors.New("usecase: backend must not be nil")
	}
	d := &Dispatcher{
		slot:    slot,
		tabs:    tabs,
		backend: backend,
		logger:  slog.Default(),
		status:  domain.StatusReady,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// SetInput replaces the input field's text.
func (d *Dispatcher) SetInput(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.input = text
	d.notifyLocked()
}

// KeyPress submits on Enter and ignores every other key.
func (d *Dispatcher) KeyPress(ctx context.Context, key string) error {
	if key != KeyEnter {
		return nil
	}
	return d.Submit(ctx)
}

// Submit sends the current input as a question. Every outcome is recorded in
// the view; the returned error classifies failures for callers that need it.
// Blank input is a no-op reported as ErrorInvalidInput.
func (d *Dispatcher) Submit(ctx context.Context) error {
	question, err := d.Accept()
	if err != nil {
		return err
	}
	return d.Dispatch(ctx, question)
}

// Accept takes the input field as the next question: the user entry is
// appended and the field cleared in one step, so a later SetInput cannot
// replace a question that is still waiting to be sent. Blank input is left in
// place and reported as ErrorInvalidInput.
func (d *Dispatcher) Accept() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	question := strings.TrimSpace(d.input)
	if question == "" {
		return "", newError(ErrorInvalidInput, "empty_question", nil)
	}
	d.input = ""
	d.entries = append(d.entries, domain.Entry{Role: domain.RoleUser, Text: question})
	d.status = domain.StatusResolve
	d.notifyLocked()
	return question, nil
}

// Dispatch resolves the video id and asks the backend about a question
// returned by Accept. It may run on its own goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, question string) error {
	id, err := d.ResolveVideoID(ctx)
	if err != nil {
		d.finish(noVideoMessage, domain.StatusNoVideo)
		return err
	}

	d.setStatus(domain.StatusAsking)
	d.logger.Info("asking backend", "videoId", id)

	answer, err := d.backend.Ask(ctx, id, question)
	if err == nil {
		d.finish(answer, domain.StatusDone)
		return nil
	}

	var rejected rejection
	if errors.As(err, &rejected) {
		d.logger.Warn("backend rejected question", "status", rejected.HTTPStatusCode(), "videoId", id)
		d.finish(backendErrorPrefix+rejected.ResponseBody(), domain.StatusError)
		return newError(ErrorBackendRejected, "backend_status", err)
	}

	d.logger.Error("backend unreachable", "err", err, "videoId", id)
	d.finish(offlineMessage(d.backend.BaseURL()), domain.StatusOffline)
	return newError(ErrorTransport, "backend_unreachable", err)
}

// Snapshot returns a copy of the current view state.
func (d *Dispatcher) Snapshot() ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dispatcher) setStatus(s domain.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = s
	d.notifyLocked()
}

// finish appends the bot reply and the terminal status in one step.
func (d *Dispatcher) finish(text string, s domain.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, domain.Entry{Role: domain.RoleBot, Text: text})
	d.status = s
	d.notifyLocked()
}

func (d *Dispatcher) snapshotLocked() ViewState {
	entries := make([]domain.Entry, len(d.entries))
	copy(entries, d.entries)
	return ViewState{Input: d.input, Status: d.status, Entries: entries}
}

func (d *Dispatcher) notifyLocked() {
	if d.onChange != nil {
		d.onChange(d.snapshotLocked())
	}
}

func offlineMessage(baseURL string) string {
	return "Could not contact backend. Is it running on " + baseURL + " ?"
}
