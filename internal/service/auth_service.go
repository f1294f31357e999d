package service

import (
	"ai_authoring_backend/internal/gateway"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/logger"
	"context"
	"fmt"

	"go.uber.org/zap"
)

type AuthService struct {
	Backend gateway.Backend
	// 退出登录时一并清理的页面实例
	pages []Sweeper
}

func NewAuthService(backend gateway.Backend, pages ...Sweeper) *AuthService {
	return &AuthService{Backend: backend, pages: pages}
}

// Login 登录成功后把用户记录和会话编码写入会话，失败时不写任何内容
func (s *AuthService) Login(ctx context.Context, sess *session.Context, creds model.LoginCredentials) (*model.LoginUser, error) {
	if err := util.Validate(creds); err != nil {
		return nil, err
	}
	if creds.AppCode == "" {
		creds.AppCode = sess.AppCode(ctx)
	}

	user, err := s.Backend.Login(ctx, creds)
	if err != nil {
		logger.Log.Warn("Login failed", zap.String("session", sess.ID()), zap.Error(err))
		return nil, err
	}

	if err := sess.SetUser(ctx, user); err != nil {
		return nil, fmt.Errorf("store session user: %w", err)
	}
	codes := []struct{ key, value string }{
		{session.KeyCustCode, user.CustCode},
		{session.KeyOrgCode, user.OrgCode},
		{session.KeyUserCode, user.UserCode},
		{session.KeyAppCode, creds.AppCode},
	}
	for _, c := range codes {
		if c.value == "" {
			continue
		}
		if err := sess.Set(ctx, c.key, c.value); err != nil {
			return nil, fmt.Errorf("store session %s: %w", c.key, err)
		}
	}

	logger.Log.Info("User logged in", zap.String("session", sess.ID()), zap.String("usercode", user.UserCode))
	return user, nil
}

// Register createdBy / userID 取会话中的用户编码
func (s *AuthService) Register(ctx context.Context, sess *session.Context, payload model.RegisterPayload) (*model.RegisterResult, error) {
	if err := util.Validate(payload); err != nil {
		return nil, err
	}
	userCode := sess.UserCode(ctx)
	payload.CreatedBy = userCode
	payload.UserID = userCode
	return s.Backend.Register(ctx, payload)
}

func (s *AuthService) Logout(ctx context.Context, sess *session.Context) error {
	for _, p := range s.pages {
		p.Drop(sess.ID())
	}
	return sess.Clear(ctx)
}

// CurrentUser 未登录时返回 nil，此时会话身份为默认编码
func (s *AuthService) CurrentUser(ctx context.Context, sess *session.Context) (*model.LoginUser, session.Identity) {
	user, ok := sess.User(ctx)
	if !ok {
		return nil, sess.Identity(ctx)
	}
	return user, sess.Identity(ctx)
}
