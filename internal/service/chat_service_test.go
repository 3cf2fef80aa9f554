package service

import (
	"context"
	"testing"
	"time"

	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/repository/memory"
	"ai-trendboard-be/pkg/llm"
	"ai-trendboard-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func newChatFixture(provider llm.Provider) (IChatService, *store.Session) {
	repo := memory.NewSessionRepository()
	session := &store.Session{
		ID:            "sess-chat",
		Authenticated: true,
		APIKey:        "sk-test",
		Table:         productTable(2),
		Transcript:    make([]store.ChatMessage, 0),
		CreatedAt:     time.Now(),
	}
	repo.Save(session)
	return NewChatService(repo, provider, nopLogger{}), session
}

func TestChatSendAppendsTranscript(t *testing.T) {
	svc, session := newChatFixture(&fakeProvider{chatReply: "hello back"})

	res, err := svc.Send(context.Background(), session.ID, &dto.SendChatRequest{Message: "hello"})
	assert.NoError(t, err)
	assert.Equal(t, "hello", res.Sent.Content)
	assert.Equal(t, "hello back", res.Reply.Content)

	assert.Len(t, session.Transcript, 2)
	assert.Equal(t, store.RoleUser, session.Transcript[0].Role)
	assert.Equal(t, store.RoleAssistant, session.Transcript[1].Role)
}

func TestChatSendAttachesRowImage(t *testing.T) {
	svc, session := newChatFixture(&fakeProvider{chatReply: "it is a planter"})

	row := 1
	res, err := svc.Send(context.Background(), session.ID, &dto.SendChatRequest{
		Message:  "what is in this picture?",
		RowIndex: &row,
	})
	assert.NoError(t, err)
	assert.Equal(t, "https://img/1", res.Sent.ImageURL)
	assert.Equal(t, "https://img/1", session.Transcript[0].ImageURL)
}

func TestChatSendRowIndexOutOfRange(t *testing.T) {
	svc, session := newChatFixture(&fakeProvider{})

	row := 99
	_, err := svc.Send(context.Background(), session.ID, &dto.SendChatRequest{Message: "?", RowIndex: &row})
	assert.ErrorIs(t, err, dto.ErrRowOutOfRange)
	assert.Empty(t, session.Transcript, "a rejected message must not enter the transcript")
}

func TestChatSendRequiresAPIKey(t *testing.T) {
	svc, session := newChatFixture(&fakeProvider{})
	session.APIKey = ""

	_, err := svc.Send(context.Background(), session.ID, &dto.SendChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, dto.ErrNoAPIKey)
}

func TestChatHistoryGrowsAcrossTurns(t *testing.T) {
	svc, session := newChatFixture(&fakeProvider{chatReply: "ok"})

	for _, msg := range []string{"first", "second"} {
		_, err := svc.Send(context.Background(), session.ID, &dto.SendChatRequest{Message: msg})
		assert.NoError(t, err)
	}

	res, err := svc.GetHistory(context.Background(), session.ID)
	assert.NoError(t, err)
	assert.Len(t, res.Messages, 4)
	assert.Equal(t, "first", res.Messages[0].Content)
	assert.Equal(t, "second", res.Messages[2].Content)
}

func TestGenerateImageRecordsTranscript(t *testing.T) {
	svc, session := newChatFixture(&fakeProvider{})

	res, err := svc.GenerateImage(context.Background(), session.ID, &dto.GenerateImageRequest{Prompt: "a red chair"})
	assert.NoError(t, err)
	assert.Equal(t, "https://img.example/a red chair", res.ImageURL)

	assert.Len(t, session.Transcript, 2)
	assert.Equal(t, "a red chair", session.Transcript[0].Content)
	assert.Equal(t, res.ImageURL, session.Transcript[1].ImageURL)
}
