package repository

import (
	"ai_authoring_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

func (r *EvaluationRepository) Create(ctx context.Context, e *model.Evaluation) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

// ListBySession 按保存顺序返回
func (r *EvaluationRepository) ListBySession(ctx context.Context, sessionID string) ([]model.Evaluation, error) {
	var evals []model.Evaluation
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("evaluated_at ASC").
		Find(&evals).Error
	return evals, err
}
