package app

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Validator validates configuration with translated messages
// Validator 配置校验器，错误信息支持多语言
type Validator struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
}

// NewValidator 初始化验证器与翻译器
func NewValidator() (*Validator, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	uni := ut.New(en.New(), en.New(), zh.New())

	zhTran, _ := uni.GetTranslator("zh")
	enTran, _ := uni.GetTranslator("en")

	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, uni: uni}, nil
}

// Struct validates s and returns a ConfigurationError listing every problem
// in the requested language
// Struct 校验结构体，返回包含全部问题的 ConfigurationError
func (v *Validator) Struct(s any, lang string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.NewConfigurationError("invalid configuration", err)
	}

	trans, found := v.uni.GetTranslator(strings.ToLower(strings.ReplaceAll(lang, "-", "_")))
	if !found {
		trans, _ = v.uni.GetTranslator("en")
	}

	var msgs []string
	for field, msg := range errs.Translate(trans) {
		msgs = append(msgs, field+": "+msg)
	}
	sort.Strings(msgs)
	return pkgerrors.NewConfigurationError(strings.Join(msgs, "; "), nil)
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	v, err := NewValidator()
	if err != nil {
		return err
	}
	return v.Struct(c, c.Lang)
}
