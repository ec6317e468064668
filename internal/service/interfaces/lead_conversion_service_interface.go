package interfaces

import (
	"context"

	"leadconversion/internal/pkg/models"
)

// LeadConversionServiceInterface is what the HTTP and Pub/Sub entry points call.
type LeadConversionServiceInterface interface {
	ConvertLead(ctx context.Context, req *models.ConvertLeadRequest, correlationID string) (*models.ConvertLeadResult, error)
	ConversionSummary(ctx context.Context, leadID string) (*models.ConversionSummary, error)
}
