package session

import (
	"ai_authoring_backend/internal/util"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager 签发和解析携带会话 ID 的令牌
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue 生成新的会话 ID 及其令牌
func (m *TokenManager) Issue() (sid string, token string, err error) {
	sid = uuid.New().String()
	token, err = m.Sign(sid)
	return sid, token, err
}

func (m *TokenManager) Sign(sid string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  sid,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(m.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse 校验令牌并返回会话 ID
func (m *TokenManager) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrSessionInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", util.ErrSessionInvalid
	}
	return claims.Subject, nil
}
