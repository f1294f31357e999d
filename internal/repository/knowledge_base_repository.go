package repository

import (
	"ai_authoring_backend/internal/model"
	"context"
	"strings"

	"gorm.io/gorm"
)

type KnowledgeBaseRepository struct {
	DB *gorm.DB
}

func NewKnowledgeBaseRepository(db *gorm.DB) *KnowledgeBaseRepository {
	return &KnowledgeBaseRepository{DB: db}
}

func (r *KnowledgeBaseRepository) Create(ctx context.Context, kb *model.KnowledgeBase) error {
	return r.DB.WithContext(ctx).Create(kb).Error
}

// ListByOwner 不加载文档正文
func (r *KnowledgeBaseRepository) ListByOwner(ctx context.Context, owner string) ([]model.KnowledgeBase, error) {
	var kbs []model.KnowledgeBase
	err := r.DB.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Omit("content")
		}).
		Where("created_by = ?", owner).
		Order("created_at DESC").
		Find(&kbs).Error
	return kbs, err
}

func (r *KnowledgeBaseRepository) FindByID(ctx context.Context, id uint) (*model.KnowledgeBase, error) {
	var kb model.KnowledgeBase
	err := r.DB.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Omit("content")
		}).
		First(&kb, id).Error
	if err != nil {
		return nil, err
	}
	return &kb, nil
}

// Delete 同时删除文档和对话历史
func (r *KnowledgeBaseRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("knowledge_base_id = ?", id).Delete(&model.KnowledgeDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("knowledge_base_id = ?", id).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.KnowledgeBase{}, id).Error
	})
}

func (r *KnowledgeBaseRepository) AddDocument(ctx context.Context, doc *model.KnowledgeDocument) error {
	return r.DB.WithContext(ctx).Create(doc).Error
}

// LIKE 通配符转义，mysql 与 sqlite 都支持 '!' 作为转义符
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchDocuments 任一关键词 LIKE 命中即返回，最多 limit 条
func (r *KnowledgeBaseRepository) SearchDocuments(ctx context.Context, kbID uint, terms []string, limit int) ([]model.KnowledgeDocument, error) {
	query := r.DB.WithContext(ctx).Where("knowledge_base_id = ?", kbID)
	if len(terms) > 0 {
		clauses := make([]string, 0, len(terms))
		args := make([]interface{}, 0, len(terms))
		for _, t := range terms {
			clauses = append(clauses, "LOWER(content) LIKE ? ESCAPE '!'")
			args = append(args, "%"+likeEscaper.Replace(strings.ToLower(t))+"%")
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}
	var docs []model.KnowledgeDocument
	err := query.Order("created_at DESC").Limit(limit).Find(&docs).Error
	return docs, err
}
