package interfaces

import (
	"context"

	"leadconversion/internal/pkg/models"
)

// KafkaPublisherInterface publishes conversion outcomes.
type KafkaPublisherInterface interface {
	PublishConversionStatus(ctx context.Context, msg models.KafkaConversionStatusMessage) error
}
