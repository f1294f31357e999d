// Package gateway 封装对上游内容后端的全部 HTTP 调用。
//
// 每个方法只发起一次请求，不重试；上游返回的多种响应形态在这里统一规整，
// 调用方拿到的总是强类型结果或错误。
package gateway

import (
	"ai_authoring_backend/internal/model"
	"context"
	"encoding/json"
)

// Backend 上游内容后端，HTTP 实现为 Client，演示/测试实现为 Simulation
type Backend interface {
	GetLearningObjectives(ctx context.Context, chapterCode string) ([]model.LearningObjective, error)
	GetChapters(ctx context.Context, bookCode string) ([]model.Chapter, error)
	GetDropdownOptions(ctx context.Context, req model.DropdownRequest) ([]model.DropdownOption, error)

	Login(ctx context.Context, creds model.LoginCredentials) (*model.LoginUser, error)
	Register(ctx context.Context, payload model.RegisterPayload) (*model.RegisterResult, error)

	GetAppDetails(ctx context.Context, q model.AppDetailsQuery) ([]model.AppDetail, error)
	SubscribeApp(ctx context.Context, req model.SubscribeRequest) (*model.SubscribeResult, error)

	GetUsageTotals(ctx context.Context, req model.UsageRequest) ([]float64, error)
	GetBookWiseUsage(ctx context.Context, req model.UsageRequest) ([]model.BookUsage, error)

	GenerateItems(ctx context.Context, in model.ItemGenInput) (json.RawMessage, error)
	GetFromDB(ctx context.Context, q model.ItemQuery) (json.RawMessage, error)
	UpdateQuestion(ctx context.Context, u model.QuestionUpdate) (json.RawMessage, error)
	// DeleteQuestion 仅在上游返回 status[0][0] == "S001" 时为 true，从不返回错误
	DeleteQuestion(ctx context.Context, req model.DeleteQuestionRequest) bool
}

var (
	_ Backend = (*Client)(nil)
	_ Backend = (*Simulation)(nil)
)
