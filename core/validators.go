package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	a1RangeRegex = regexp.MustCompile(`^[^!]+![A-Za-z]+[0-9]+(:[A-Za-z]+[0-9]+)?$`)

	// custom tags with their english texts
	customTags = []struct {
		tag  string
		fn   validator.Func
		text string
	}{
		{tag: "notblank", fn: notBlankValidation, text: "this field cannot be blank"},
		{tag: "a1range", fn: a1RangeValidation, text: "must be an A1 range, e.g. Sheet1!A4:R195"},
	}
	// built-in tags whose english text reads badly for config fields
	overriddenTexts = map[string]string{
		"required":         "this field is required",
		"required_without": "this field is required",
	}

	ErrInvalidConfig = errors.New("invalid configuration")
)

func init() {
	Validate = validator.New()

	_en := en.New()
	Translator, _ = ut.New(_en, _en).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// report config keys, not Go field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, ct := range customTags {
		_ = Validate.RegisterValidation(ct.tag, ct.fn)
		RegisterCustomTranslation(ct.tag, ct.text)
	}
	for tag, text := range overriddenTexts {
		RegisterCustomTranslation(tag, text, true)
	}
}

// RegisterCustomTranslation sets the english text of `tag`, replacing an existing one only with override.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	ovrd := len(override) > 0 && override[0]
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateStruct validates `s` and converts validation failures into a *ValidationError.
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fe.Translate(Translator)})
	}
	return NewValidationError(ErrInvalidConfig, fields...)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func a1RangeValidation(fl validator.FieldLevel) bool {
	return a1RangeRegex.MatchString(fl.Field().String())
}
