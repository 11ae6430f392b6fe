package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"video-chat-agent/internal/domain"
)

func TestRender_StatusAndTranscript(t *testing.T) {
	out := Render(ViewState{
		Status: domain.StatusDone,
		Entries: []domain.Entry{
			{Role: domain.RoleUser, Text: "What is it about?"},
			{Role: domain.RoleBot, Text: "It's about cats."},
		},
	}, 0)
	require.Equal(t, "[Done]\nYou: What is it about?\nBot: It's about cats.\n", out)
}

func TestRender_KeepsNewestEntryVisible(t *testing.T) {
	v := ViewState{Status: domain.StatusDone}
	for i := 0; i < 5; i++ {
		v.Entries = append(v.Entries, domain.Entry{Role: domain.RoleBot, Text: string(rune('a' + i))})
	}

	out := Render(v, 2)
	require.Equal(t, "[Done]\nBot: d\nBot: e\n", out)
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	v := ViewState{Status: domain.StatusReady, Entries: []domain.Entry{{Role: domain.RoleUser, Text: "q"}}}
	_ = Render(v, 1)
	require.Len(t, v.Entries, 1)
}
