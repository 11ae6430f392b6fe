package usecase

import (
	"context"
	"errors"
	"log/slog"
)

// staticTab answers the active-tab query with a URL supplied by the caller.
type staticTab string

func (s staticTab) ActiveTabURL(context.Context) (string, error) {
	return string(s), nil
}

// OneShot runs a single submission on a fresh, throwaway view. It serves
// callers that have no long-lived panel, such as an HTTP request.
type OneShot struct {
	slot    SlotReader
	backend Backend
	logger  *slog.Logger
}

func NewOneShot(slot SlotReader, backend Backend, logger *slog.Logger) (*OneShot, error) {
	if slot == nil {
		return nil, errors.New("usecase: slot reader must not be nil")
	}
	if backend == nil {
		return nil, errors.New("usecase: backend must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OneShot{slot: slot, backend: backend, logger: logger}, nil
}

// Ask submits question with tabURL as the active-tab fallback and returns the
// final view. Only ErrorInvalidInput is returned as an error; every other
// outcome is part of the view.
func (o *OneShot) Ask(ctx context.Context, question, tabURL string) (ViewState, error) {
	d, err := NewDispatcher(o.slot, staticTab(tabURL), o.backend, WithLogger(o.logger))
	if err != nil {
		return ViewState{}, err
	}
	d.SetInput(question)
	if err := d.Submit(ctx); err != nil {
		var usecaseErr *Error
		if errors.As(err, &usecaseErr) && usecaseErr.Code == ErrorInvalidInput {
			return ViewState{}, err
		}
	}
	return d.Snapshot(), nil
}
