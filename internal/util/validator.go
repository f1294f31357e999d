package util

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator
	initOnce   sync.Once
)

const (
	questionCountTag  = "question_count"
	questionCountText = "{0} must be \"per-elo\" or a number between 1 and 100"
	requiredText      = "{0} is required"
)

func initValidator() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// 使用 JSON 标签名作为错误字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(questionCountTag, questionCountValidation)
	registerTranslation(questionCountTag, questionCountText, false)
	registerTranslation("required", requiredText, true)
}

func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// questionCountValidation 题目数量为 "per-elo" 或 1..MaxQuestionCount 的整数字面量
func questionCountValidation(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	if v == "per-elo" {
		return true
	}
	n, err := strconv.Atoi(v)
	return err == nil && n > 0 && n <= MaxQuestionCount
}

// Validate 校验结构体，失败时返回 *ValidationError
func Validate(s interface{}) error {
	initOnce.Do(initValidator)

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(translator),
		})
	}
	return out
}
