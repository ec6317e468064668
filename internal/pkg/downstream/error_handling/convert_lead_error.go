package error_handling

import (
	"fmt"
)

// ConvertLeadError wraps failures that happen before a response is read,
// such as request serialisation or transport errors. Transport errors carry
// StatusCode -1.
type ConvertLeadError struct {
	StatusCode int
	Err        error
}

func NewConvertLeadError(err error, statusCode ...int) *ConvertLeadError {
	errObj := &ConvertLeadError{Err: err}

	if len(statusCode) > 0 {
		errObj.StatusCode = statusCode[0]
	}

	return errObj
}

func (e *ConvertLeadError) Error() string {
	return fmt.Sprintf("convertLead error: statusCode=%d, err:%v", e.StatusCode, e.Err)
}

func (e *ConvertLeadError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether the request never got an HTTP response.
func (e *ConvertLeadError) IsTransportError() bool {
	return e.StatusCode == -1
}
