package service

import (
	"ai_authoring_backend/internal/gateway"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"context"
)

// AppService AI 应用列表与订阅
type AppService struct {
	Backend gateway.Backend
}

func NewAppService(backend gateway.Backend) *AppService {
	return &AppService{Backend: backend}
}

// List subscription 为空时返回全部，"1" 已订阅，"0" 未订阅
func (s *AppService) List(ctx context.Context, sess *session.Context, subscription string) ([]model.AppDetail, error) {
	switch subscription {
	case "", "0", "1":
	default:
		return nil, util.NewValidationError("subscription", "subscription must be 0 or 1")
	}
	return s.Backend.GetAppDetails(ctx, model.AppDetailsQuery{
		UserCode:     sess.UserCode(ctx),
		OrgCode:      sess.OrgCode(ctx),
		Subscription: subscription,
	})
}

func (s *AppService) Subscribe(ctx context.Context, sess *session.Context, appCode string) (*model.SubscribeResult, error) {
	if appCode == "" {
		return nil, util.NewValidationError("appcode", "appcode is required")
	}
	return s.Backend.SubscribeApp(ctx, model.SubscribeRequest{
		UserCode: sess.UserCode(ctx),
		OrgCode:  sess.OrgCode(ctx),
		AppCode:  appCode,
	})
}
