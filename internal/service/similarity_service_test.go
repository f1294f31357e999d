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

func newTestSimilarityService() (*SimilarityService, *countingAnalyzer, *fakeStorage) {
	storage := newFakeStorage()
	analyzer := &countingAnalyzer{inner: NewSimulatedSimilarityAnalyzer(newTestSimulator())}
	return NewSimilarityService(storage, analyzer), analyzer, storage
}

func TestSimilarityProcessWithoutFile(t *testing.T) {
	svc, analyzer, _ := newTestSimilarityService()
	sess := newTestSession("sim-1")

	_, err := svc.Process(context.Background(), sess)
	assert.ErrorIs(t, err, util.ErrNoFileSelected)
	assert.Zero(t, analyzer.calls)
	assert.Equal(t, FlowIdle, svc.List(sess, model.SimilarityFilter{}).State)
}

func TestSimilarityUploadRejectsNonWorkbook(t *testing.T) {
	svc, _, storage := newTestSimilarityService()
	_, err := svc.Upload(context.Background(), newTestSession("sim-2"), "items.csv", strings.NewReader("a,b"), 3)
	assert.ErrorIs(t, err, util.ErrUnsupportedFile)
	assert.Empty(t, storage.objects)
}

func TestSimilarityProcessAndToggle(t *testing.T) {
	svc, analyzer, storage := newTestSimilarityService()
	sess := newTestSession("sim-3")

	file, err := svc.Upload(context.Background(), sess, "Items.XLSX", strings.NewReader("workbook"), 8)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Key, "similarity/sim-3/"))
	assert.Contains(t, storage.objects, file.Key)

	res, err := svc.Process(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 1, analyzer.calls)
	assert.Len(t, res.QuestionItems, 4)
	assert.Len(t, res.SimilarItems, 7)
	assert.ElementsMatch(t, []string{"S101", "S103", "S106"}, itemIDs(res.EnemyItems))

	toggled, err := svc.ToggleStatus(sess, "S102")
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnemy, toggled.Status)

	toggled, err = svc.ToggleStatus(sess, "S101")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSimilar, toggled.Status)

	view := svc.List(sess, model.SimilarityFilter{})
	require.NotNil(t, view.Result)
	assert.ElementsMatch(t, []string{"S102", "S103", "S106"}, itemIDs(view.Result.EnemyItems))

	_, err = svc.ToggleStatus(sess, "nope")
	assert.ErrorIs(t, err, util.ErrItemNotFound)
}

func TestSimilarityToggleBeforeProcess(t *testing.T) {
	svc, _, _ := newTestSimilarityService()
	_, err := svc.ToggleStatus(newTestSession("sim-4"), "S101")
	assert.ErrorIs(t, err, util.ErrItemNotFound)
}

func TestFilterSimilarItems(t *testing.T) {
	items := []model.SimilarItem{
		{ID: "1", Question: "Solve x", Similarity: 50, Status: model.StatusSimilar},
		{ID: "2", Question: "Area of triangle", Similarity: 90, Status: model.StatusEnemy},
		{ID: "3", Question: "Solve y", Similarity: 70, Status: model.StatusSimilar},
	}

	tests := []struct {
		name   string
		filter model.SimilarityFilter
		want   []string
	}{
		{"default sorts by score desc", model.SimilarityFilter{}, []string{"2", "3", "1"}},
		{"ascending", model.SimilarityFilter{Sort: "score_asc"}, []string{"1", "3", "2"}},
		{"status", model.SimilarityFilter{Status: model.StatusSimilar}, []string{"3", "1"}},
		{"min score", model.SimilarityFilter{MinScore: 60}, []string{"2", "3"}},
		{"search", model.SimilarityFilter{Search: "SOLVE"}, []string{"3", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, itemIDs(FilterSimilarItems(items, tt.filter)))
		})
	}
}

func itemIDs(items []model.SimilarItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
