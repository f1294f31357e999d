package util

import (
	"errors"
	"strings"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrLoginFailed           = errors.New("login failed")
	ErrSessionInvalid        = errors.New("invalid session token")
	ErrUpstream              = errors.New("upstream request failed")
	ErrSubmissionInProgress  = errors.New("a submission is already in progress")
	ErrNotEvaluated          = errors.New("evaluate the responses before saving")
	ErrNothingToEvaluate     = errors.New("no answers to evaluate")
	ErrNoFileSelected        = errors.New("please select a file to process")
	ErrUnsupportedFile       = errors.New("unsupported file type")
	ErrItemNotFound          = errors.New("item not found")
	ErrPageNotOpened         = errors.New("page has not been opened")
	ErrKnowledgeBaseNotFound = errors.New("knowledge base not found")
	ErrEmptyDocument         = errors.New("document contains no extractable text")
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 表单校验失败，发生在任何网络调用之前
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
