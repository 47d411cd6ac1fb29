package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenerateRequest is the body accepted by the generate endpoints.
type GenerateRequest struct {
	PRD string `json:"prd" validate:"required,notblank"`
}

// GenerateResponse is the success body of the generate endpoints.
type GenerateResponse struct {
	FinalResult
	BlogPostHTML string `json:"blogPostHtml,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	return validate.Struct(r)
}
