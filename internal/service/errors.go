package service

import "fmt"

// коды бизнес-ошибок, handlers отображает их в HTTP-статусы
const CodeNotFound = "NOT_FOUND"
const CodeValidation = "VALIDATION_ERROR"
const CodeUnauthorized = "UNAUTHORIZED"

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(resource string, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewUnauthorized(reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeUnauthorized,
		Message: "Требуется аутентификация",
		Details: map[string]any{
			"reason": reason,
		},
	}
}
