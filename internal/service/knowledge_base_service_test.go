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

func TestKnowledgeBaseScopedToUser(t *testing.T) {
	ctx := context.Background()
	kbs := NewKnowledgeBaseService(newFakeKnowledgeBaseStore(), newFakeStorage())

	alice := newTestSession("alice")
	require.NoError(t, alice.Set(ctx, "usercode", "UsrA"))
	bob := newTestSession("bob")

	_, err := kbs.Create(ctx, alice, CreateKnowledgeBaseRequest{Name: "  Algebra  "})
	require.NoError(t, err)

	mine, err := kbs.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Algebra", mine[0].Name)
	assert.Equal(t, "UsrA", mine[0].CreatedBy)

	theirs, err := kbs.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = kbs.Create(ctx, alice, CreateKnowledgeBaseRequest{})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestKnowledgeBaseHiddenFromOtherUsers(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	kbs := NewKnowledgeBaseService(newFakeKnowledgeBaseStore(), storage)

	alice := newTestSession("alice")
	require.NoError(t, alice.Set(ctx, "usercode", "UsrA"))
	bob := newTestSession("bob")
	require.NoError(t, bob.Set(ctx, "usercode", "UsrB"))

	kb, err := kbs.Create(ctx, alice, CreateKnowledgeBaseRequest{Name: "Alice private"})
	require.NoError(t, err)
	_, err = kbs.AddDocument(ctx, alice, kb.ID, "notes.txt", strings.NewReader("Mitochondria make energy."))
	require.NoError(t, err)

	_, err = kbs.Get(ctx, bob, kb.ID)
	assert.ErrorIs(t, err, util.ErrKnowledgeBaseNotFound)
	_, err = kbs.AddDocument(ctx, bob, kb.ID, "evil.txt", strings.NewReader("overwrite"))
	assert.ErrorIs(t, err, util.ErrKnowledgeBaseNotFound)
	assert.ErrorIs(t, kbs.Delete(ctx, bob, kb.ID), util.ErrKnowledgeBaseNotFound)

	chat := NewDocChatService(kbs, &fakeHistory{}, nil, newTestSimulator())
	_, err = chat.Chat(ctx, bob, kb.ID, model.ChatRequest{Message: "mitochondria"})
	assert.ErrorIs(t, err, util.ErrKnowledgeBaseNotFound)
	_, err = chat.History(ctx, bob, kb.ID)
	assert.ErrorIs(t, err, util.ErrKnowledgeBaseNotFound)
	assert.ErrorIs(t, chat.ClearHistory(ctx, bob, kb.ID), util.ErrKnowledgeBaseNotFound)

	mine, err := kbs.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, storage.Len())

	got, err := kbs.Get(ctx, alice, kb.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice private", got.Name)
}

func TestKnowledgeBaseDeleteRemovesStoredDocuments(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	kbs := NewKnowledgeBaseService(newFakeKnowledgeBaseStore(), storage)

	sess := newTestSession("kb")
	kb, err := kbs.Create(ctx, sess, CreateKnowledgeBaseRequest{Name: "Cells"})
	require.NoError(t, err)

	doc, err := kbs.AddDocument(ctx, sess, kb.ID, "cells.md", strings.NewReader("The nucleus  holds DNA.\n\nThe membrane protects the cell."))
	require.NoError(t, err)
	assert.Equal(t, "The nucleus holds DNA.\nThe membrane protects the cell.", doc.Content)
	assert.Equal(t, util.MimeText, doc.ContentType)
	assert.True(t, strings.HasPrefix(doc.StorageKey, "knowledge-bases/"))
	assert.Equal(t, 1, storage.Len())

	require.NoError(t, kbs.Delete(ctx, sess, kb.ID))
	assert.Zero(t, storage.Len())

	_, err = kbs.Get(ctx, sess, kb.ID)
	assert.ErrorIs(t, err, util.ErrKnowledgeBaseNotFound)
	assert.ErrorIs(t, kbs.Delete(ctx, sess, kb.ID), util.ErrKnowledgeBaseNotFound)
}
