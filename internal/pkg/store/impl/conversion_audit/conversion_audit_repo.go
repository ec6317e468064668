package conversion_audit

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/pkg/models"
	"leadconversion/internal/pkg/store/repository"
	"leadconversion/internal/service/interfaces"
)

// ConversionAuditRepository implements the ConversionAuditRepoInterface
type ConversionAuditRepository struct {
	findOne func(ctx context.Context,
		filter interface{}, opts *options.FindOneOptions) (models.ConversionAudit, error)
	create func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	count  func(ctx context.Context, filter interface{}) (int64, error)
	now    func() time.Time
}

var _ interfaces.ConversionAuditRepoInterface = (*ConversionAuditRepository)(nil)

func NewConversionAuditRepository(collection interfaces.MongoRepositoryInterface) *ConversionAuditRepository {
	repo := repository.NewMongoRepository[models.ConversionAudit](collection)
	return &ConversionAuditRepository{
		findOne: repo.FindOne,
		create:  repo.Create,
		count:   repo.CountDocuments,
		now:     time.Now,
	}
}

func (r *ConversionAuditRepository) CreateEntry(ctx context.Context, entry *models.ConversionAudit) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}
	if _, err := r.create(ctx, entry); err != nil {
		logger.CtxError(ctx, "Failed to create conversion audit entry", err, zap.String("leadId", entry.LeadID))
		return err
	}
	logger.CtxDebug(ctx, "Created conversion audit entry",
		zap.String("leadId", entry.LeadID),
		zap.String("outcome", entry.Outcome),
	)
	return nil
}

// FindLatestByLeadID returns nil, nil when the lead has no audit entry.
func (r *ConversionAuditRepository) FindLatestByLeadID(ctx context.Context, leadID string) (*models.ConversionAudit, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	entry, err := r.findOne(ctx, bson.M{"leadId": leadID}, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.CtxError(ctx, "Error reading conversion audit", err, zap.String("leadId", leadID))
		return nil, err
	}
	return &entry, nil
}

func (r *ConversionAuditRepository) CountByLeadID(ctx context.Context, leadID string) (int64, error) {
	return r.count(ctx, bson.M{"leadId": leadID})
}
