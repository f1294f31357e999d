package model

import "encoding/json"

// LoginCredentials 登录凭据，AppCode 标识当前 AI 产品
type LoginCredentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	AppCode  string `json:"appcode"`
}

// LoginUser 上游登录返回的用户记录，Raw 为原始 JSON，原样写入会话的 user 键
// swagger:model LoginUser
type LoginUser struct {
	UserCode string          `json:"usercode,omitempty"`
	OrgCode  string          `json:"orgcode,omitempty"`
	CustCode string          `json:"custcode,omitempty"`
	Name     string          `json:"name,omitempty"`
	Email    string          `json:"email,omitempty"`
	Raw      json.RawMessage `json:"-"`
}

// MarshalJSON 返回上游原始记录，保证会话中存储的内容与上游一致
func (u LoginUser) MarshalJSON() ([]byte, error) {
	if len(u.Raw) > 0 {
		return u.Raw, nil
	}
	type plain LoginUser
	return json.Marshal(plain(u))
}

// UnmarshalJSON 解析已知字段，同时保留原始记录
func (u *LoginUser) UnmarshalJSON(data []byte) error {
	type plain LoginUser
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = LoginUser(p)
	u.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// RegisterPayload 注册信息，CreatedBy / UserID 由会话中的用户编码填充
type RegisterPayload struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Mobile       string `json:"mobile" validate:"required"`
	Organization string `json:"organization" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
	CreatedBy    string `json:"createdBy"`
	UserID       string `json:"userID"`
}

type RegisterResult struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
