package session

import (
	"ai_authoring_backend/internal/model"
	"context"
	"encoding/json"
)

// 会话键
const (
	KeyUser     = "user"
	KeyCustCode = "custcode"
	KeyOrgCode  = "orgcode"
	KeyUserCode = "usercode"
	KeyAppCode  = "appcode"
)

// 未登录时使用的默认会话身份
const (
	DefaultCustCode = "ES"
	DefaultOrgCode  = "Exc195"
	DefaultUserCode = "Adm488"
	DefaultAppCode  = "IG"
)

// Identity 调用上游时携带的会话编码
type Identity struct {
	CustCode string `json:"custcode"`
	OrgCode  string `json:"orgcode"`
	UserCode string `json:"usercode"`
	AppCode  string `json:"appcode"`
}

// Context 绑定到某个会话 ID 的存储视图
type Context struct {
	id    string
	store Store
}

func NewContext(id string, store Store) *Context {
	return &Context{id: id, store: store}
}

func (c *Context) ID() string {
	return c.id
}

func (c *Context) get(ctx context.Context, key, def string) string {
	v, ok, err := c.store.Get(ctx, c.id, key)
	if err != nil || !ok || v == "" {
		return def
	}
	return v
}

func (c *Context) CustCode(ctx context.Context) string {
	return c.get(ctx, KeyCustCode, DefaultCustCode)
}

func (c *Context) OrgCode(ctx context.Context) string {
	return c.get(ctx, KeyOrgCode, DefaultOrgCode)
}

func (c *Context) UserCode(ctx context.Context) string {
	return c.get(ctx, KeyUserCode, DefaultUserCode)
}

func (c *Context) AppCode(ctx context.Context) string {
	return c.get(ctx, KeyAppCode, DefaultAppCode)
}

func (c *Context) Identity(ctx context.Context) Identity {
	return Identity{
		CustCode: c.CustCode(ctx),
		OrgCode:  c.OrgCode(ctx),
		UserCode: c.UserCode(ctx),
		AppCode:  c.AppCode(ctx),
	}
}

func (c *Context) Set(ctx context.Context, key, value string) error {
	return c.store.Set(ctx, c.id, key, value)
}

// User 返回登录用户，未登录时 ok 为 false
func (c *Context) User(ctx context.Context) (*model.LoginUser, bool) {
	raw, ok, err := c.store.Get(ctx, c.id, KeyUser)
	if err != nil || !ok || raw == "" {
		return nil, false
	}
	var u model.LoginUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, false
	}
	return &u, true
}

func (c *Context) SetUser(ctx context.Context, u *model.LoginUser) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.id, KeyUser, string(data))
}

// Clear 退出登录时清空会话
func (c *Context) Clear(ctx context.Context) error {
	return c.store.Clear(ctx, c.id)
}
