package error_handling

import (
	"fmt"
)

// MalformedResponseError is returned when a 200 response body is not
// well-formed XML.
type MalformedResponseError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func NewMalformedResponseError(err error, body []byte, statusCode ...int) *MalformedResponseError {
	errObj := &MalformedResponseError{Err: err, Body: body}

	if len(statusCode) > 0 {
		errObj.StatusCode = statusCode[0]
	}

	return errObj
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed convertLead response: statusCode=%d, err:%v", e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
