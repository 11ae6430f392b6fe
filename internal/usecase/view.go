package usecase

import (
	"strings"

	"video-chat-agent/internal/domain"
)

// ViewState is everything the panel shows.
type ViewState struct {
	Input   string
	Status  domain.Status
	Entries []domain.Entry
}

// Render projects v onto text: a status line followed by the transcript.
// With height > 0 only the last height entries are kept, so the newest entry
// is always on screen.
func Render(v ViewState, height int) string {
	entries := v.Entries
	if height > 0 && len(entries) > height {
		entries = entries[len(entries)-height:]
	}

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(v.Status))
	b.WriteString("]\n")
	for _, e := range entries {
		b.WriteString(speaker(e.Role))
		b.WriteString(": ")
		b.WriteString(e.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func speaker(r domain.Role) string {
	if r == domain.RoleUser {
		return "You"
	}
	return "Bot"
}
