package util

import (
	"ai_authoring_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// RespondError 将服务层错误映射为 HTTP 状态码
func RespondError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: verr.Error(),
			Data:    gin.H{"fields": verr.Fields},
		})
	case errors.Is(err, ErrLoginFailed), errors.Is(err, ErrSessionInvalid):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrSubmissionInProgress), errors.Is(err, ErrNotEvaluated):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNoFileSelected), errors.Is(err, ErrUnsupportedFile),
		errors.Is(err, ErrNothingToEvaluate), errors.Is(err, ErrEmptyDocument), errors.Is(err, ErrPageNotOpened):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrKnowledgeBaseNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUpstream):
		logger.Log.Warn("Upstream error", zap.Error(err))
		Error(c, http.StatusBadGateway, err.Error())
	default:
		LogInternalError(c, err)
	}
}
