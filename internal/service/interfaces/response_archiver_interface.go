package interfaces

import (
	"context"
)

// ResponseArchiverInterface keeps raw downstream bodies for later inspection.
type ResponseArchiverInterface interface {
	// Archive stores body under a name derived from objectName and returns the full object name.
	Archive(ctx context.Context, objectName string, body []byte) (string, error)
}
