package service

import (
	"context"
	"testing"

	"ai_authoring_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEssayService() (*EssayService, *fakeEvaluationStore) {
	store := &fakeEvaluationStore{}
	return NewEssayService(NewStaticEssaySource(), store, newTestSimulator()), store
}

func TestEssayOpenLoadsBlankSheet(t *testing.T) {
	svc, _ := newTestEssayService()
	sess := newTestSession("essay-1")

	_, err := svc.Sheet(sess)
	assert.ErrorIs(t, err, util.ErrPageNotOpened)

	sheet, err := svc.Open(context.Background(), sess, "C100")
	require.NoError(t, err)
	assert.Equal(t, "C100", sheet.CandidateID)
	assert.False(t, sheet.Evaluated)
	require.Len(t, sheet.Questions, 3)
	for _, q := range sheet.Questions {
		assert.Empty(t, q.Answer)
		assert.Nil(t, q.AIScore)
	}

	_, err = svc.Open(context.Background(), sess, " ")
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestEssayEvaluateRequiresAnAnswer(t *testing.T) {
	svc, _ := newTestEssayService()
	sess := newTestSession("essay-2")

	_, err := svc.Evaluate(context.Background(), sess)
	assert.ErrorIs(t, err, util.ErrPageNotOpened)

	_, err = svc.Open(context.Background(), sess, "C1")
	require.NoError(t, err)
	_, err = svc.SetAnswer(sess, "C1-q1", "   ")
	require.NoError(t, err)

	_, err = svc.Evaluate(context.Background(), sess)
	assert.ErrorIs(t, err, util.ErrNothingToEvaluate)
}

func TestEssayEvaluateScoresWithinRange(t *testing.T) {
	svc, _ := newTestEssayService()
	sess := newTestSession("essay-3")

	_, err := svc.Open(context.Background(), sess, "C1")
	require.NoError(t, err)
	_, err = svc.SetAnswer(sess, "C1-q2", "Factories and farms release waste into rivers.")
	require.NoError(t, err)

	sheet, err := svc.Evaluate(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, sheet.Evaluated)
	for _, q := range sheet.Questions {
		require.NotNil(t, q.AIScore, q.ID)
		assert.GreaterOrEqual(t, *q.AIScore, 0.6*q.MaxScore)
		assert.LessOrEqual(t, *q.AIScore, q.MaxScore)
		assert.NotEmpty(t, q.Feedback)
	}

	_, err = svc.SetAnswer(sess, "missing", "x")
	assert.ErrorIs(t, err, util.ErrItemNotFound)
}

func TestEssaySaveRefusedBeforeEvaluation(t *testing.T) {
	svc, store := newTestEssayService()
	sess := newTestSession("essay-4")

	_, err := svc.Open(context.Background(), sess, "C1")
	require.NoError(t, err)
	_, err = svc.SetAnswer(sess, "C1-q1", "An answer")
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), sess, "teacher@example.com")
	assert.ErrorIs(t, err, util.ErrNotEvaluated)
	assert.Empty(t, store.evals)

	_, err = svc.Evaluate(context.Background(), sess)
	require.NoError(t, err)

	first, err := svc.Save(context.Background(), sess, "teacher@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "C1", first.CandidateID)

	second, err := svc.Save(context.Background(), sess, "")
	require.NoError(t, err)
	assert.Equal(t, "Adm488", second.Evaluator)
	assert.NotEqual(t, first.ID, second.ID)

	saved, err := svc.Saved(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Len(t, saved[0].Questions, 3, "questions decoded from stored JSON")
}

func TestEssayClearAll(t *testing.T) {
	svc, _ := newTestEssayService()
	sess := newTestSession("essay-5")

	_, err := svc.ClearAll(sess)
	assert.ErrorIs(t, err, util.ErrPageNotOpened)

	opened, err := svc.Open(context.Background(), sess, "C1")
	require.NoError(t, err)

	// 空白页面清空后不变
	cleared, err := svc.ClearAll(sess)
	require.NoError(t, err)
	assert.Equal(t, opened, cleared)

	_, err = svc.SetAnswer(sess, "C1-q3", "Yes, homework builds habits.")
	require.NoError(t, err)
	_, err = svc.Evaluate(context.Background(), sess)
	require.NoError(t, err)

	cleared, err = svc.ClearAll(sess)
	require.NoError(t, err)
	assert.False(t, cleared.Evaluated)
	for _, q := range cleared.Questions {
		assert.Empty(t, q.Answer)
		assert.Nil(t, q.AIScore)
		assert.Empty(t, q.Feedback)
	}

	_, err = svc.Save(context.Background(), sess, "x")
	assert.ErrorIs(t, err, util.ErrNotEvaluated)
}
