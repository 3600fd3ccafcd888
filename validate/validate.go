// Package validate wraps go-playground/validator with english
// translations and provides the ID helpers used across the core
// packages.
package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()
	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, translator)
}

// Check runs the struct tags of val and returns a single error whose
// message lists every failed field in readable form.
func Check(val any) error {
	err := validate.Struct(val)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		msgs = append(msgs, ve.Translate(translator))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// GenerateID produces a new id for a database entity.
func GenerateID() string {
	return uuid.NewString()
}

// CheckID rejects ids that are not valid UUIDs before they reach a
// query.
func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("ID is not in its proper form")
	}
	return nil
}
