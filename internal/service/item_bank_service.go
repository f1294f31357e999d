package service

import (
	"ai_authoring_backend/internal/gateway"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"context"
	"encoding/json"
)

const defaultItemPageSize = 10

// ItemBankService 题目生成与题库维护，上游响应原样透传
type ItemBankService struct {
	Backend gateway.Backend
}

func NewItemBankService(backend gateway.Backend) *ItemBankService {
	return &ItemBankService{Backend: backend}
}

// Generate 表单字段校验通过后才调用上游
func (s *ItemBankService) Generate(ctx context.Context, sess *session.Context, in model.ItemGenInput) (json.RawMessage, error) {
	if err := util.Validate(in); err != nil {
		return nil, err
	}
	id := sess.Identity(ctx)
	in.CustCode, in.OrgCode, in.UserCode, in.AppCode = id.CustCode, id.OrgCode, id.UserCode, id.AppCode
	return s.Backend.GenerateItems(ctx, in)
}

func (s *ItemBankService) Search(ctx context.Context, sess *session.Context, q model.ItemQuery) (json.RawMessage, error) {
	id := sess.Identity(ctx)
	q.CustCode, q.OrgCode, q.UserCode, q.AppCode = id.CustCode, id.OrgCode, id.UserCode, id.AppCode
	if q.PageSize <= 0 {
		q.PageSize = defaultItemPageSize
	}
	if q.PageNo <= 0 {
		q.PageNo = 1
	}
	return s.Backend.GetFromDB(ctx, q)
}

func (s *ItemBankService) Update(ctx context.Context, sess *session.Context, u model.QuestionUpdate) (json.RawMessage, error) {
	if u.QuestionID == "" {
		return nil, util.NewValidationError("questionid", "questionid is required")
	}
	if err := util.Validate(u); err != nil {
		return nil, err
	}
	u.UserCode = sess.UserCode(ctx)
	return s.Backend.UpdateQuestion(ctx, u)
}

// Delete 上游未确认删除时返回 false
func (s *ItemBankService) Delete(ctx context.Context, sess *session.Context, questionID, requestID string) bool {
	if questionID == "" {
		return false
	}
	return s.Backend.DeleteQuestion(ctx, model.DeleteQuestionRequest{
		QuestionID:        questionID,
		QuestionRequestID: requestID,
		UserCode:          sess.UserCode(ctx),
	})
}
