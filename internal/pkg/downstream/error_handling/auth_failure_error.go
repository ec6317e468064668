package error_handling

import (
	"fmt"
)

// AuthFailureError is returned when the partner API answers with a non-200
// status. The exception fields come from the SOAP fault detail and are empty
// when the body carried none.
type AuthFailureError struct {
	ExceptionCode    string `json:"exceptionCode,omitempty"`
	ExceptionMessage string `json:"exceptionMessage,omitempty"`
	StatusCode       int    `json:"-"` // HTTP status code (e.g., 401, 500)
	Body             []byte `json:"-"`
	Err              error  `json:"-"`
}

func NewAuthFailureError(exceptionCode, exceptionMessage string, statusCode int, body []byte) *AuthFailureError {
	return &AuthFailureError{
		ExceptionCode:    exceptionCode,
		ExceptionMessage: exceptionMessage,
		StatusCode:       statusCode,
		Body:             body,
	}
}

func (e *AuthFailureError) Error() string {
	return fmt.Sprintf("salesforce authentication failed: statusCode=%d, exceptionCode=%s, exceptionMessage=%s, err:%v",
		e.StatusCode,
		e.ExceptionCode,
		e.ExceptionMessage,
		e.Err,
	)
}

func (e *AuthFailureError) Unwrap() error {
	return e.Err
}
