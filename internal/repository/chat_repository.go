package repository

import (
	"ai_authoring_backend/internal/model"
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// ChatRepository 文档对话历史
type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) SaveMessage(ctx context.Context, msg *model.ChatMessage) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

// History 最近 limit 条，按时间正序返回
func (r *ChatRepository) History(ctx context.Context, kbID uint, sessionID string, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.DB.WithContext(ctx).
		Where("knowledge_base_id = ? AND session_id = ?", kbID, sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return lo.Reverse(msgs), nil
}

func (r *ChatRepository) ClearHistory(ctx context.Context, kbID uint, sessionID string) error {
	return r.DB.WithContext(ctx).
		Where("knowledge_base_id = ? AND session_id = ?", kbID, sessionID).
		Delete(&model.ChatMessage{}).Error
}
