package service

import (
	"ai_authoring_backend/internal/gateway"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"context"
)

// CatalogService 书目、章节和学习目标下拉数据
type CatalogService struct {
	Backend gateway.Backend
}

func NewCatalogService(backend gateway.Backend) *CatalogService {
	return &CatalogService{Backend: backend}
}

func (s *CatalogService) Books(ctx context.Context, sess *session.Context) ([]model.DropdownOption, error) {
	id := sess.Identity(ctx)
	return s.Backend.GetDropdownOptions(ctx, model.DropdownRequest{
		CustCode: id.CustCode,
		OrgCode:  id.OrgCode,
		AppCode:  id.AppCode,
	})
}

func (s *CatalogService) Chapters(ctx context.Context, bookCode string) ([]model.Chapter, error) {
	if bookCode == "" {
		return nil, util.NewValidationError("bookcode", "bookcode is required")
	}
	return s.Backend.GetChapters(ctx, bookCode)
}

func (s *CatalogService) LearningObjectives(ctx context.Context, chapterCode string) ([]model.LearningObjective, error) {
	if chapterCode == "" {
		return nil, util.NewValidationError("chaptercode", "chaptercode is required")
	}
	return s.Backend.GetLearningObjectives(ctx, chapterCode)
}
