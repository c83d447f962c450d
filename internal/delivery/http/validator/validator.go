// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	playground "github.com/go-playground/validator/v10"
)

// CustomValidator wraps a shared validate instance.
type CustomValidator struct {
	validate *playground.Validate
}

// New creates the validator used by the echo server.
func New() *CustomValidator {
	return &CustomValidator{validate: playground.New()}
}

// Validate implements echo.Validator. The raw field errors are returned so
// handlers can surface them in the response envelope.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validate.Struct(i)
}
