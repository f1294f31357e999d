package middleware

import (
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionMiddleware 解析 X-Session-Token，没有或无效时签发新的空会话
func SessionMiddleware(tokens *session.TokenManager, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(util.SessionHeader)
		sid := ""
		if token != "" {
			id, err := tokens.Parse(token)
			if err != nil {
				logger.Log.Debug("Discarding session token", zap.Error(err))
			} else {
				sid = id
			}
		}

		if sid == "" {
			id, fresh, err := tokens.Issue()
			if err != nil {
				util.LogInternalError(c, err)
				c.Abort()
				return
			}
			sid, token = id, fresh
		}

		c.Header(util.SessionHeader, token)
		c.Set(util.SessionContextKey, session.NewContext(sid, store))
		c.Next()
	}
}

// CurrentSession 取出当前请求的会话，中间件未挂载时返回 nil
func CurrentSession(c *gin.Context) *session.Context {
	v, ok := c.Get(util.SessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Context)
	return sess
}

// RequireLogin 会话中没有登录用户时返回 401
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if _, ok := sess.User(c.Request.Context()); !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
