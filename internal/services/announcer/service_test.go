package announcer

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrawlgame/scrawl/internal/services/room"
	"github.com/scrawlgame/scrawl/internal/shuffle"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := New(&Config{Picker: shuffle.New(&shuffle.Config{Seed: 7})})
	require.NoError(t, err)
	return svc
}

func TestGetJoinMessage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	out, err := svc.GetJoinMessage(ctx, &GetJoinMessageInput{PlayerName: "alice"})
	require.NoError(t, err)
	assert.Contains(t, out.Message, "alice")

	out, err = svc.GetJoinMessage(ctx, &GetJoinMessageInput{PlayerName: "alice", Reconnected: true})
	require.NoError(t, err)
	assert.Contains(t, out.Message, "alice")
	assert.NotContains(t, out.Message, "joined the room")
}

func TestGetLeaveMessageVariants(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input *GetLeaveMessageInput
	}{
		{name: "plain leave", input: &GetLeaveMessageInput{PlayerName: "bob"}},
		{name: "seat held", input: &GetLeaveMessageInput{PlayerName: "bob", SeatHeld: true}},
		{name: "drawer left", input: &GetLeaveMessageInput{PlayerName: "bob", WasDrawer: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.GetLeaveMessage(ctx, tt.input)
			require.NoError(t, err)
			assert.Contains(t, out.Message, "bob")
		})
	}
}

func TestGetCorrectGuessMessageCarriesPoints(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.GetCorrectGuessMessage(context.Background(), &GetCorrectGuessMessageInput{
		PlayerName: "carol",
		Points:     420,
	})
	require.NoError(t, err)
	assert.Contains(t, out.Message, "carol")
	assert.Contains(t, out.Message, strconv.Itoa(420))
}

func TestGetCloseGuessMessageNeverEchoesGuess(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 20; i++ {
		out, err := svc.GetCloseGuessMessage(context.Background(), &GetCloseGuessMessageInput{PlayerName: "dave"})
		require.NoError(t, err)
		assert.NotEmpty(t, out.Message)
		assert.NotContains(t, out.Message, "dave")
	}
}

func TestGetTurnRevealMessage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		reason room.TurnEndReason
	}{
		{name: "all guessed", reason: room.TurnEndAllGuessed},
		{name: "timeout", reason: room.TurnEndTimeout},
		{name: "drawer left", reason: room.TurnEndDrawerLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.GetTurnRevealMessage(ctx, &GetTurnRevealMessageInput{
				Word:   "apple",
				Reason: tt.reason,
			})
			require.NoError(t, err)
			assert.Contains(t, out.Message, `"apple"`)
		})
	}
}

func TestGetGameOverMessage(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.GetGameOverMessage(context.Background(), &GetGameOverMessageInput{
		WinnerName:  "erin",
		WinnerScore: 1234,
	})
	require.NoError(t, err)
	assert.Contains(t, out.Message, "erin")
	assert.Contains(t, out.Message, "1234")
}

func TestNewDefaultsPicker(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)

	out, err := svc.GetJoinMessage(context.Background(), &GetJoinMessageInput{PlayerName: "frank"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(out.Message, "frank"))
}
