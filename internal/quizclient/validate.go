package quizclient

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/vytor/quizflash/internal/models"
)

// shapeValidator checks decoded service payloads against the struct tags in
// internal/models and renders failures in English using json field names.
type shapeValidator struct {
	v     *govalidator.Validate
	trans ut.Translator
}

func newShapeValidator() *shapeValidator {
	v := govalidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if id, ok := field.Interface().(models.QuestionID); ok {
			return id.String()
		}
		return nil
	}, models.QuestionID{})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &shapeValidator{v: v, trans: trans}
}

func (s *shapeValidator) check(payload any) error {
	err := s.v.Struct(payload)
	if err == nil {
		return nil
	}

	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fe.Translate(s.trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}
