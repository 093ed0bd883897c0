package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("notdir", isNotDirectory); err != nil {
		return nil, nil, fmt.Errorf("failed to register notdir validation: %w", err)
	}
	if err := validate.RegisterTranslation("notdir", trans, func(ut ut.Translator) error {
		return ut.Add("notdir", "{0} must be a file path, not a directory", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("notdir", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register notdir translation: %w", err)
	}

	return validate, trans, nil
}

// isNotDirectory accepts paths that do not exist yet, since the files are created on first use.
func isNotDirectory(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return true
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true
	}
	if err != nil {
		return false
	}
	return !info.IsDir()
}
