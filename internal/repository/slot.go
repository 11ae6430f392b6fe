package repository

import (
	"context"
	"errors"
	"fmt"

	"video-chat-agent/internal/domain"
)

// KeyValue is the storage contract shared by DynamoStore and SQLiteStore.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Slot is the single last-write-wins record that hands the published video
// id from the page to the panel.
type Slot struct {
	kv  KeyValue
	key string
}

// NewSlot binds a Slot to domain.SlotKey in kv.
func NewSlot(kv KeyValue) (*Slot, error) {
	if kv == nil {
		return nil, errors.New("repository: key-value store must not be nil")
	}
	return &Slot{kv: kv, key: domain.SlotKey}, nil
}

// GetVideoID returns the published id. An empty stored value reads as absent.
func (s *Slot) GetVideoID(ctx context.Context) (domain.VideoID, bool, error) {
	v, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return "", false, fmt.Errorf("repository: GetVideoID: %w", err)
	}
	if !ok || v == "" {
		return "", false, nil
	}
	return domain.VideoID(v), true, nil
}

// PutVideoID overwrites the published id.
func (s *Slot) PutVideoID(ctx context.Context, id domain.VideoID) error {
	if id == "" {
		return errors.New("repository: PutVideoID: video id must not be empty")
	}
	if err := s.kv.Put(ctx, s.key, string(id)); err != nil {
		return fmt.Errorf("repository: PutVideoID: %w", err)
	}
	return nil
}
