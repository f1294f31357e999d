package service

import (
	"ai_authoring_backend/internal/gateway"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"context"
)

// UsageSummary 管理报表顶部的汇总数字，按上游数组下标取值
type UsageSummary struct {
	TotalQuestions  float64   `json:"totalQuestions"`
	TokensUsed      float64   `json:"tokensUsed"`
	BooksCovered    float64   `json:"booksCovered"`
	ChaptersCovered float64   `json:"chaptersCovered"`
	Raw             []float64 `json:"raw"`
}

type UsageService struct {
	Backend gateway.Backend
}

func NewUsageService(backend gateway.Backend) *UsageService {
	return &UsageService{Backend: backend}
}

func (s *UsageService) request(ctx context.Context, sess *session.Context) model.UsageRequest {
	id := sess.Identity(ctx)
	return model.UsageRequest{
		CustCode: id.CustCode,
		OrgCode:  id.OrgCode,
		UserCode: id.UserCode,
		AppCode:  id.AppCode,
	}
}

func (s *UsageService) Totals(ctx context.Context, sess *session.Context) (*UsageSummary, error) {
	totals, err := s.Backend.GetUsageTotals(ctx, s.request(ctx, sess))
	if err != nil {
		return nil, err
	}
	at := func(i int) float64 {
		if i < len(totals) {
			return totals[i]
		}
		return 0
	}
	return &UsageSummary{
		TotalQuestions:  at(0),
		TokensUsed:      at(1),
		BooksCovered:    at(2),
		ChaptersCovered: at(3),
		Raw:             totals,
	}, nil
}

func (s *UsageService) BookWise(ctx context.Context, sess *session.Context) ([]model.BookUsage, error) {
	return s.Backend.GetBookWiseUsage(ctx, s.request(ctx, sess))
}
