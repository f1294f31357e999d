package service

import (
	"context"
	"strings"
	"testing"

	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photosynthesisDoc = "Photosynthesis happens in the chloroplast. Plants use sunlight to make glucose. " +
	"Oxygen is released as a by-product. Roots absorb water from the soil."

func newTestDocChat(t *testing.T, assistant Assistant) (*DocChatService, *fakeHistory, uint) {
	t.Helper()
	kbs := NewKnowledgeBaseService(newFakeKnowledgeBaseStore(), newFakeStorage())
	sess := newTestSession("kb-owner")
	kb, err := kbs.Create(context.Background(), sess, CreateKnowledgeBaseRequest{Name: "Biology"})
	require.NoError(t, err)
	_, err = kbs.AddDocument(context.Background(), sess, kb.ID, "plants.txt", strings.NewReader(photosynthesisDoc))
	require.NoError(t, err)

	history := &fakeHistory{}
	return NewDocChatService(kbs, history, assistant, newTestSimulator()), history, kb.ID
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"Hello there", "greeting"},
		{"thanks a lot!", "thanks"},
		{"I need help", "help"},
		{"Give me an overview", "summary"},
		{"make a quiz", "quiz"},
		{"where is the chloroplast", ""},
		{"this", ""},
	}
	for _, tt := range tests {
		name, reply := DetectIntent(tt.msg)
		assert.Equal(t, tt.want, name, tt.msg)
		if tt.want != "" {
			assert.NotEmpty(t, reply)
		}
	}
}

func TestDocChatAnswersFromKnowledgeBase(t *testing.T) {
	svc, history, kbID := newTestDocChat(t, nil)
	sess := newTestSession("chat-1")

	reply, err := svc.Chat(context.Background(), sess, kbID, model.ChatRequest{Message: "Where does photosynthesis happen?"})
	require.NoError(t, err)
	assert.Equal(t, ReplySourceKnowledgeBase, reply.Source)
	assert.Contains(t, reply.Answer, "chloroplast")
	assert.Contains(t, reply.Answer, "plants.txt")

	reply, err = svc.Chat(context.Background(), sess, kbID, model.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, ReplySourceIntent, reply.Source)
	assert.Equal(t, "greeting", reply.Intent)

	reply, err = svc.Chat(context.Background(), sess, kbID, model.ChatRequest{Message: "tectonic plates"})
	require.NoError(t, err)
	assert.Equal(t, ReplySourceFallback, reply.Source)

	msgs, err := svc.History(context.Background(), sess, kbID)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)

	require.NoError(t, svc.ClearHistory(context.Background(), sess, kbID))
	assert.Empty(t, history.msgs)
}

func TestDocChatUsesAssistantWithContext(t *testing.T) {
	ai := &fakeAssistant{enabled: true, answer: "In the chloroplast."}
	svc, _, kbID := newTestDocChat(t, ai)

	reply, err := svc.Chat(context.Background(), newTestSession("chat-2"), kbID, model.ChatRequest{Message: "photosynthesis location"})
	require.NoError(t, err)
	assert.Equal(t, ReplySourceLLM, reply.Source)
	assert.Equal(t, "In the chloroplast.", reply.Answer)
	require.Len(t, ai.context, 1)
	assert.Contains(t, ai.context[0], "[plants.txt]")
}

func TestDocChatFallsBackWhenAssistantFails(t *testing.T) {
	ai := &fakeAssistant{enabled: true, err: errBoom}
	svc, _, kbID := newTestDocChat(t, ai)

	reply, err := svc.Chat(context.Background(), newTestSession("chat-3"), kbID, model.ChatRequest{Message: "sunlight glucose"})
	require.NoError(t, err)
	assert.Equal(t, ReplySourceKnowledgeBase, reply.Source)
}

func TestDocChatUnknownKnowledgeBase(t *testing.T) {
	svc, _, _ := newTestDocChat(t, nil)
	_, err := svc.Chat(context.Background(), newTestSession("chat-4"), 999, model.ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, util.ErrKnowledgeBaseNotFound)

	_, err = svc.Chat(context.Background(), newTestSession("chat-4"), 1, model.ChatRequest{})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestBestSnippet(t *testing.T) {
	snip, score := BestSnippet(photosynthesisDoc, []string{"oxygen"})
	assert.Equal(t, 1, score)
	assert.Equal(t, "Oxygen is released as a by-product. Roots absorb water from the soil.", snip)

	snip, score = BestSnippet(photosynthesisDoc, nil)
	assert.Empty(t, snip)
	assert.Zero(t, score)
}

func TestKnowledgeBaseAddDocumentRejectsUnsupported(t *testing.T) {
	kbs := NewKnowledgeBaseService(newFakeKnowledgeBaseStore(), newFakeStorage())
	sess := newTestSession("kb")
	kb, err := kbs.Create(context.Background(), sess, CreateKnowledgeBaseRequest{Name: "KB"})
	require.NoError(t, err)

	_, err = kbs.AddDocument(context.Background(), sess, kb.ID, "slides.pptx", strings.NewReader("x"))
	assert.ErrorIs(t, err, util.ErrUnsupportedFile)

	_, err = kbs.AddDocument(context.Background(), sess, kb.ID, "empty.md", strings.NewReader("   \n "))
	assert.ErrorIs(t, err, util.ErrEmptyDocument)

	_, err = kbs.Get(context.Background(), sess, 0)
	assert.ErrorIs(t, err, util.ErrKnowledgeBaseNotFound)
}
