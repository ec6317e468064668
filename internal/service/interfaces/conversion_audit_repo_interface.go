package interfaces

import (
	"context"

	"leadconversion/internal/pkg/models"
)

// ConversionAuditRepoInterface stores one record per conversion attempt.
type ConversionAuditRepoInterface interface {
	CreateEntry(ctx context.Context, entry *models.ConversionAudit) error
	FindLatestByLeadID(ctx context.Context, leadID string) (*models.ConversionAudit, error)
	CountByLeadID(ctx context.Context, leadID string) (int64, error)
}
