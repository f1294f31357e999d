package gateway

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	endpointLearningObjectives = "/lo"
	endpointLogin              = "/Login/LoginAIProduct"
	endpointSignup             = "/aiapps/AIProductApi/signup"
	endpointAppDetails         = "/get_app_details"
	endpointUsage              = "/get_usage"
	endpointChapters           = "/chapter"
	endpointDropdown           = "/dropdownloader"
	endpointItemGen            = "/item_gen"
	endpointGetFromDB          = "/get_from_db"
	endpointDeleteQuestion     = "/delete-question"
	endpointUpdateQuestion     = "/update-question"
	endpointSubscribeApp       = "/subscribe_app"
)

func (c *Client) GetLearningObjectives(ctx context.Context, chapterCode string) ([]model.LearningObjective, error) {
	body, err := c.do(ctx, http.MethodGet, endpointLearningObjectives, url.Values{"chaptercode": {chapterCode}}, nil)
	if err != nil {
		return nil, err
	}
	raw, err := NormalizeListResponse[rawLearningObjective](body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUpstream, err)
	}
	return filterCodeNames(raw, func(code, name string) model.LearningObjective {
		return model.LearningObjective{Code: code, Name: name}
	}), nil
}

func (c *Client) GetChapters(ctx context.Context, bookCode string) ([]model.Chapter, error) {
	body, err := c.do(ctx, http.MethodGet, endpointChapters, url.Values{"bookcode": {bookCode}}, nil)
	if err != nil {
		return nil, err
	}
	raw, err := NormalizeListResponse[rawChapter](body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUpstream, err)
	}
	return filterCodeNames(raw, func(code, name string) model.Chapter {
		return model.Chapter{Code: code, Name: name}
	}), nil
}

func (c *Client) GetDropdownOptions(ctx context.Context, req model.DropdownRequest) ([]model.DropdownOption, error) {
	var out []model.DropdownOption
	if err := c.postJSON(ctx, endpointDropdown, req, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

type loginResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    []model.LoginUser `json:"data"`
}

// Login 仅当 status 为 S001 且 data 非空时成功，返回 data 的第一个元素
func (c *Client) Login(ctx context.Context, creds model.LoginCredentials) (*model.LoginUser, error) {
	var resp loginResponse
	if err := c.postJSON(ctx, endpointLogin, creds, &resp); err != nil {
		return nil, err
	}
	return loginResult(resp)
}

func loginResult(resp loginResponse) (*model.LoginUser, error) {
	if resp.Status != util.StatusSuccess {
		msg := resp.Message
		if msg == "" {
			msg = "invalid credentials"
		}
		return nil, fmt.Errorf("%w: %s (status %q)", util.ErrLoginFailed, msg, resp.Status)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty user record", util.ErrLoginFailed)
	}
	user := resp.Data[0]
	return &user, nil
}

func (c *Client) Register(ctx context.Context, payload model.RegisterPayload) (*model.RegisterResult, error) {
	var out model.RegisterResult
	if err := c.postJSON(ctx, endpointSignup, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAppDetails(ctx context.Context, q model.AppDetailsQuery) ([]model.AppDetail, error) {
	query := url.Values{
		"usercode":     {q.UserCode},
		"orgcode":      {q.OrgCode},
		"subscription": {q.Subscription},
	}
	var out struct {
		AppDetails []model.AppDetail `json:"app_details"`
	}
	if err := c.getJSON(ctx, endpointAppDetails, query, &out); err != nil {
		return nil, err
	}
	return nonNil(out.AppDetails), nil
}

func (c *Client) SubscribeApp(ctx context.Context, req model.SubscribeRequest) (*model.SubscribeResult, error) {
	var out model.SubscribeResult
	if err := c.postJSON(ctx, endpointSubscribeApp, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUsageTotals(ctx context.Context, req model.UsageRequest) ([]float64, error) {
	req.Type = model.UsageTypeTotals
	var out []float64
	if err := c.postJSON(ctx, endpointUsage, req, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) GetBookWiseUsage(ctx context.Context, req model.UsageRequest) ([]model.BookUsage, error) {
	req.Type = model.UsageTypeBookWise
	body, err := c.do(ctx, http.MethodPost, endpointUsage, nil, req)
	if err != nil {
		return nil, err
	}
	usage, err := DecodeBookUsage(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUpstream, err)
	}
	return usage, nil
}

func (c *Client) GenerateItems(ctx context.Context, in model.ItemGenInput) (json.RawMessage, error) {
	return c.postOpaque(ctx, endpointItemGen, in)
}

func (c *Client) GetFromDB(ctx context.Context, q model.ItemQuery) (json.RawMessage, error) {
	return c.postOpaque(ctx, endpointGetFromDB, q)
}

func (c *Client) UpdateQuestion(ctx context.Context, u model.QuestionUpdate) (json.RawMessage, error) {
	return c.postOpaque(ctx, endpointUpdateQuestion, u)
}

func (c *Client) DeleteQuestion(ctx context.Context, req model.DeleteQuestionRequest) bool {
	body, err := c.do(ctx, http.MethodPost, endpointDeleteQuestion, nil, req)
	if err != nil {
		logger.Log.Warn("Delete question failed", zap.String("questionId", req.QuestionID), zap.Error(err))
		return false
	}
	return deleteSucceeded(body)
}

// deleteSucceeded 成功标志嵌套在 status[0][0]，其他任何形态都视为失败
func deleteSucceeded(body []byte) bool {
	var resp struct {
		Status [][]interface{} `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	if len(resp.Status) == 0 || len(resp.Status[0]) == 0 {
		return false
	}
	code, ok := resp.Status[0][0].(string)
	return ok && code == util.StatusSuccess
}
