package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"leveler/internal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("trade", func(fl validator.FieldLevel) bool {
		_, ok := internal.ParseTrade(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		_, ok := internal.ParseUnit(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		return IsFinite(fl.Field().Float())
	})
	return v
}

// ValidateStruct runs struct-tag validation and folds failures into one ValidationError.
func ValidateStruct(op string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &internal.ValidationError{Op: op, Message: err.Error()}
	}
	fields := make([]string, 0, len(fieldErrs))
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details = append(details, fmt.Sprintf("%s fails %s", fe.Field(), rule))
	}
	return &internal.ValidationError{Op: op, Fields: fields, Message: strings.Join(details, "; ")}
}
