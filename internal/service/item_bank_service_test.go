package service

import (
	"context"
	"encoding/json"
	"testing"

	"ai_authoring_backend/internal/gateway"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemInput(count int) model.ItemGenInput {
	return model.ItemGenInput{
		URL:            "https://books.example/ch102.pdf",
		Question:       "Explain osmosis",
		BookID:         1,
		QuestionTypeID: 1,
		TaxonomyID:     2,
		DifficultyID:   1,
		ChapterCode:    "CH102",
		Count:          count,
	}
}

func TestItemGenerateCountBounds(t *testing.T) {
	svc := NewItemBankService(gateway.NewSimulation(0))
	sess := newTestSession("items")

	raw, err := svc.Generate(context.Background(), sess, itemInput(100))
	require.NoError(t, err)
	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Len(t, resp.Data, 100)

	_, err = svc.Generate(context.Background(), sess, itemInput(101))
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = svc.Generate(context.Background(), sess, itemInput(0))
	assert.ErrorIs(t, err, util.ErrValidation)
}
