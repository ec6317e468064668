package conversion_in_progress

import (
	"context"
	"time"

	"go.uber.org/zap"

	"leadconversion/internal/pkg/consts"
	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/service/interfaces"
)

// ConversionInProgressRepository implements ConversionInProgressRepoInterface on Redis
type ConversionInProgressRepository struct {
	store interfaces.RedisStoreOperations
	ttl   time.Duration
}

var _ interfaces.ConversionInProgressRepoInterface = (*ConversionInProgressRepository)(nil)

// NewConversionInProgressRepository keys entries by lead id. Entries expire
// after ttl so a crashed conversion does not block the lead forever.
func NewConversionInProgressRepository(
	store interfaces.RedisStoreOperations,
	ttl time.Duration,
) *ConversionInProgressRepository {
	return &ConversionInProgressRepository{store: store, ttl: ttl}
}

func (r *ConversionInProgressRepository) CreateEntry(ctx context.Context, leadID string) (bool, error) {
	created, err := r.store.SetNX(ctx, consts.ConversionInProgressKey(leadID), time.Now().UTC().Format(time.RFC3339), r.ttl)
	if err != nil {
		logger.CtxError(ctx, "Failed to create conversion in progress entry", err, zap.String("leadId", leadID))
		return false, err
	}
	if created {
		logger.CtxDebug(ctx, "Created conversion in progress entry", zap.String("leadId", leadID))
	}
	return created, nil
}

func (r *ConversionInProgressRepository) DeleteEntry(ctx context.Context, leadID string) error {
	if err := r.store.Delete(ctx, consts.ConversionInProgressKey(leadID)); err != nil {
		logger.CtxError(ctx, "Failed to delete conversion in progress entry", err, zap.String("leadId", leadID))
		return err
	}
	logger.CtxDebug(ctx, "Deleted conversion in progress entry", zap.String("leadId", leadID))
	return nil
}

func (r *ConversionInProgressRepository) CheckEntryExists(ctx context.Context, leadID string) (bool, error) {
	exists, err := r.store.Exists(ctx, consts.ConversionInProgressKey(leadID))
	if err != nil {
		logger.CtxError(ctx, "Error checking conversion in progress", err, zap.String("leadId", leadID))
		return false, err
	}
	return exists, nil
}

// RemainingTTL is zero when no conversion holds the lead.
func (r *ConversionInProgressRepository) RemainingTTL(ctx context.Context, leadID string) (time.Duration, error) {
	return r.store.TTL(ctx, consts.ConversionInProgressKey(leadID))
}
