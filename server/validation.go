package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/etnz/analyzer"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerValidations adds the "ticker" tag to the validator of gin bindings.
func registerValidations() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected binding validator engine")
			return
		}
		registerErr = v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
			_, err := analyzer.SanitizeTicker(fl.Field().String())
			return err == nil
		})
	})
	return registerErr
}

// bindError turns a binding failure into an ErrValidation with a readable message.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", analyzer.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", analyzer.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s needs at least %s items", field, fe.Param())
	case "ticker":
		return fmt.Sprintf("invalid ticker format %q", fe.Value())
	default:
		return fmt.Sprintf("%s fails %s", field, fe.Tag())
	}
}
