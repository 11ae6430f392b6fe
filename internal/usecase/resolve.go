package usecase

import (
	"context"

	"video-chat-agent/internal/domain"
	"video-chat-agent/internal/videoid"
)

// ResolveVideoID picks the video to ask about: the published slot value
// first, then the active tab's URL. Lookup errors are logged and treated as
// absence so the next source still gets a chance.
func (d *Dispatcher) ResolveVideoID(ctx context.Context) (domain.VideoID, error) {
	id, ok, err := d.slot.GetVideoID(ctx)
	if err != nil {
		d.logger.Warn("slot read failed, falling back to active tab", "err", err)
	} else if ok && id != "" {
		return id, nil
	}

	url, err := d.tabs.ActiveTabURL(ctx)
	if err != nil {
		d.logger.Warn("active tab query failed", "err", err)
		return "", newError(ErrorResolution, "no_video_id", err)
	}
	if id, ok := videoid.Extract(url); ok {
		return id, nil
	}
	d.logger.Debug("active tab carries no video id", "url", url)
	return "", newError(ErrorResolution, "no_video_id", nil)
}
