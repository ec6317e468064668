package interfaces

import (
	"context"
	"time"
)

// ConversionInProgressRepoInterface guards a lead against concurrent conversions.
type ConversionInProgressRepoInterface interface {
	// CreateEntry returns false when the lead is already being converted.
	CreateEntry(ctx context.Context, leadID string) (bool, error)
	DeleteEntry(ctx context.Context, leadID string) error
	CheckEntryExists(ctx context.Context, leadID string) (bool, error)
	// RemainingTTL is zero when no entry exists.
	RemainingTTL(ctx context.Context, leadID string) (time.Duration, error)
}
