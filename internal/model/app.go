package model

import "encoding/json"

// AppDetail 订阅查询返回的 AI 应用
// swagger:model AppDetail
type AppDetail struct {
	ID           int    `json:"id"`
	AppCode      string `json:"appcode"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Subscription int    `json:"subscription"` // 0 未订阅 1 已订阅
	Tagged       bool   `json:"tagged"`
}

func (a AppDetail) Subscribed() bool {
	return a.Subscription == 1
}

type AppDetailsQuery struct {
	UserCode     string
	OrgCode      string
	Subscription string
}

type SubscribeRequest struct {
	UserCode string `json:"usercode"`
	OrgCode  string `json:"orgcode"`
	AppCode  string `json:"appcode"`
}

type SubscribeResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
