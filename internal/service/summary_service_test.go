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

const chapterText = "Ecosystems are communities of living things. Producers make their own food. " +
	"Consumers eat producers or other consumers. Decomposers break down dead matter. " +
	"Energy flows from producers to consumers. Decomposers return nutrients to the soil."

func TestExtractiveSummary(t *testing.T) {
	sum := ExtractiveSummary(model.SummaryRequest{ChapterName: "Ecosystems", Text: chapterText})
	assert.Equal(t, SummarySourceSimulation, sum.Source)
	assert.Equal(t, "Ecosystems are communities of living things. Producers make their own food. Consumers eat producers or other consumers.", sum.Summary)
	assert.NotEmpty(t, sum.KeyPoints)
	for _, p := range sum.KeyPoints {
		assert.NotContains(t, sum.Summary, p)
	}
}

func TestSummarizeWithoutAssistant(t *testing.T) {
	svc := NewSummaryService(nil, newTestSimulator())
	sess := newTestSession("sum-1")

	_, err := svc.Summarize(context.Background(), sess, model.SummaryRequest{ChapterName: "Ecosystems"})
	assert.ErrorIs(t, err, util.ErrValidation)

	sum, err := svc.Summarize(context.Background(), sess, model.SummaryRequest{ChapterName: "Ecosystems", Text: chapterText})
	require.NoError(t, err)
	assert.Equal(t, SummarySourceSimulation, sum.Source)
	assert.Equal(t, FlowSuccess, svc.Current(sess).State)
}

func TestSummarizeWithAssistant(t *testing.T) {
	ai := &fakeAssistant{enabled: true, answer: "Ecosystems link producers and consumers.\n- Producers make food\n* Decomposers recycle nutrients\n"}
	svc := NewSummaryService(ai, newTestSimulator())

	sum, err := svc.Summarize(context.Background(), newTestSession("sum-2"), model.SummaryRequest{ChapterName: "Ecosystems", Text: chapterText})
	require.NoError(t, err)
	assert.Equal(t, SummarySourceLLM, sum.Source)
	assert.Equal(t, "Ecosystems link producers and consumers.", sum.Summary)
	assert.Equal(t, []string{"Producers make food", "Decomposers recycle nutrients"}, sum.KeyPoints)
	assert.Equal(t, chapterText, ai.context[0])
}

func TestSummarizeUpload(t *testing.T) {
	svc := NewSummaryService(&fakeAssistant{enabled: true, err: errBoom}, newTestSimulator())
	sess := newTestSession("sum-3")

	sum, err := svc.SummarizeUpload(context.Background(), sess, "Ecosystems", "chapter.md", strings.NewReader(chapterText))
	require.NoError(t, err)
	assert.Equal(t, SummarySourceSimulation, sum.Source)

	_, err = svc.SummarizeUpload(context.Background(), sess, "Ecosystems", "chapter.docx", strings.NewReader(chapterText))
	assert.ErrorIs(t, err, util.ErrUnsupportedFile)
}
