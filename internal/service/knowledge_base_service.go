package service

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/logger"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// KnowledgeBaseStore 知识库持久化
type KnowledgeBaseStore interface {
	Create(ctx context.Context, kb *model.KnowledgeBase) error
	ListByOwner(ctx context.Context, owner string) ([]model.KnowledgeBase, error)
	FindByID(ctx context.Context, id uint) (*model.KnowledgeBase, error)
	Delete(ctx context.Context, id uint) error
	AddDocument(ctx context.Context, doc *model.KnowledgeDocument) error
	SearchDocuments(ctx context.Context, kbID uint, terms []string, limit int) ([]model.KnowledgeDocument, error)
}

// DocumentStorage 知识库原文件存储，删除知识库时一并清理
type DocumentStorage interface {
	ObjectStorage
	Delete(ctx context.Context, filename string) error
}

type CreateKnowledgeBaseRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type KnowledgeBaseService struct {
	store   KnowledgeBaseStore
	storage DocumentStorage
}

func NewKnowledgeBaseService(store KnowledgeBaseStore, storage DocumentStorage) *KnowledgeBaseService {
	return &KnowledgeBaseService{store: store, storage: storage}
}

func (s *KnowledgeBaseService) Create(ctx context.Context, sess *session.Context, req CreateKnowledgeBaseRequest) (*model.KnowledgeBase, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}
	kb := &model.KnowledgeBase{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedBy:   sess.UserCode(ctx),
	}
	if err := s.store.Create(ctx, kb); err != nil {
		return nil, err
	}
	return kb, nil
}

func (s *KnowledgeBaseService) List(ctx context.Context, sess *session.Context) ([]model.KnowledgeBase, error) {
	return s.store.ListByOwner(ctx, sess.UserCode(ctx))
}

// Get 只返回当前用户创建的知识库，他人的按不存在处理
func (s *KnowledgeBaseService) Get(ctx context.Context, sess *session.Context, id uint) (*model.KnowledgeBase, error) {
	if id == 0 {
		return nil, util.ErrKnowledgeBaseNotFound
	}
	kb, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrKnowledgeBaseNotFound
		}
		return nil, err
	}
	if kb.CreatedBy != sess.UserCode(ctx) {
		return nil, util.ErrKnowledgeBaseNotFound
	}
	return kb, nil
}

// Delete 删除知识库及其文档，原文件删除失败只记录日志
func (s *KnowledgeBaseService) Delete(ctx context.Context, sess *session.Context, id uint) error {
	kb, err := s.Get(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	for _, doc := range kb.Documents {
		if doc.StorageKey == "" {
			continue
		}
		if err := s.storage.Delete(ctx, doc.StorageKey); err != nil {
			logger.Log.Warn("Failed to delete document object",
				zap.Uint("knowledgeBase", id), zap.String("key", doc.StorageKey), zap.Error(err))
		}
	}
	return nil
}

// AddDocument 抽取文本后保存原文件和文本
func (s *KnowledgeBaseService) AddDocument(ctx context.Context, sess *session.Context, kbID uint, filename string, r io.Reader) (*model.KnowledgeDocument, error) {
	if _, err := s.Get(ctx, sess, kbID); err != nil {
		return nil, err
	}
	if !util.HasExtension(filename, util.AllowedDocumentExtensions) {
		return nil, fmt.Errorf("%w: %s (expected .pdf, .txt or .md)", util.ErrUnsupportedFile, path.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(r, util.MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > util.MaxUploadSize {
		return nil, util.NewValidationError("file", "file exceeds the 20MB upload limit")
	}

	text, contentType, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}

	key := path.Join("knowledge-bases", fmt.Sprint(kbID), uuid.NewString()+strings.ToLower(path.Ext(filename)))
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	doc := &model.KnowledgeDocument{
		KnowledgeBaseID: kbID,
		FileName:        filename,
		FileURL:         url,
		StorageKey:      key,
		ContentType:     contentType,
		Content:         text,
		CharCount:       utf8.RuneCountInString(text),
	}
	if err := s.store.AddDocument(ctx, doc); err != nil {
		return nil, err
	}
	logger.Log.Info("Knowledge document added",
		zap.Uint("knowledgeBase", kbID), zap.String("file", filename), zap.Int("chars", doc.CharCount))
	return doc, nil
}
