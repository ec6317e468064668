package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"leadconversion/internal/pkg/config"
	"leadconversion/internal/pkg/downstream"
	errs "leadconversion/internal/pkg/downstream/error_handling"
	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/pkg/models"
	"leadconversion/internal/service/interfaces"
)

var (
	ErrInvalidRequest       = errors.New("invalid convertLead request")
	ErrConversionInProgress = errors.New(log_messages.ErrorConversionInProgress)
	ErrAuditDisabled        = errors.New("conversion audit is not configured")
)

// InProgressError is returned when another conversion holds the lead.
// RetryAfter is zero when the remaining lock time is unknown.
type InProgressError struct {
	LeadID     string
	RetryAfter time.Duration
}

func (e *InProgressError) Error() string {
	return fmt.Sprintf("%s: leadId=%s", log_messages.ErrorConversionInProgress, e.LeadID)
}

func (e *InProgressError) Unwrap() error {
	return ErrConversionInProgress
}

// Dependencies bundles the optional backends. Nil members are skipped.
type Dependencies struct {
	InProgress interfaces.ConversionInProgressRepoInterface
	Audit      interfaces.ConversionAuditRepoInterface
	Publisher  interfaces.KafkaPublisherInterface
	Archiver   interfaces.ResponseArchiverInterface
}

type LeadConversionService struct {
	cfg      config.SalesforceConfig
	api      downstream.ConvertLeadAPI
	deps     Dependencies
	validate *validator.Validate
	now      func() time.Time
}

var _ interfaces.LeadConversionServiceInterface = (*LeadConversionService)(nil)

func NewLeadConversionService(
	cfg config.SalesforceConfig,
	api downstream.ConvertLeadAPI,
	deps Dependencies,
) *LeadConversionService {
	return &LeadConversionService{
		cfg:      cfg,
		api:      api,
		deps:     deps,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// ConvertLead validates req, converts the lead and records the outcome.
// The returned error is the downstream error unchanged, or one of
// ErrInvalidRequest and *InProgressError.
func (s *LeadConversionService) ConvertLead(
	ctx context.Context,
	req *models.ConvertLeadRequest,
	correlationID string,
) (*models.ConvertLeadResult, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	r := s.applyDefaults(*req)
	if err := s.validate.Struct(r); err != nil {
		logger.CtxWarn(ctx, fmt.Sprintf(log_messages.ErrorInvalidConvertLeadRequest, err),
			zap.String("leadId", r.LeadID))
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	locked, err := s.acquire(ctx, r.LeadID)
	if err != nil {
		return nil, err
	}

	result, callErr := s.api.ConvertLead(ctx, &r)

	if locked {
		if err := s.deps.InProgress.DeleteEntry(ctx, r.LeadID); err != nil {
			logger.CtxError(ctx, log_messages.ErrorFailedToReleaseConversionLock, err, zap.String("leadId", r.LeadID))
		}
	}

	audit := s.newAudit(r, correlationID, result, callErr)
	audit.ArchiveObject = s.archive(ctx, audit, callErr)
	s.writeAudit(ctx, audit)
	s.publish(ctx, audit, result)

	return result, callErr
}

func (s *LeadConversionService) applyDefaults(r models.ConvertLeadRequest) models.ConvertLeadRequest {
	if r.APIVersion == "" {
		r.APIVersion = s.cfg.APIVersion
	}
	if r.ConvertedStatus == "" {
		r.ConvertedStatus = s.cfg.ConvertedStatus
	}
	if len(r.Proxies) == 0 && len(s.cfg.Proxies) > 0 {
		r.Proxies = s.cfg.Proxies
	}
	return r.WithDefaults()
}

// acquire reports whether a lock was taken. A failing lock backend does
// not block the conversion.
func (s *LeadConversionService) acquire(ctx context.Context, leadID string) (bool, error) {
	if s.deps.InProgress == nil {
		return false, nil
	}
	created, err := s.deps.InProgress.CreateEntry(ctx, leadID)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFailedToAcquireConversionLock, err, zap.String("leadId", leadID))
		return false, nil
	}
	if created {
		return true, nil
	}

	inProgress := &InProgressError{LeadID: leadID}
	if ttl, err := s.deps.InProgress.RemainingTTL(ctx, leadID); err == nil {
		inProgress.RetryAfter = ttl
	}
	logger.CtxWarn(ctx, log_messages.ErrorConversionInProgress,
		zap.String("leadId", leadID),
		zap.Duration("retryAfter", inProgress.RetryAfter),
	)
	return false, inProgress
}

func (s *LeadConversionService) newAudit(
	r models.ConvertLeadRequest,
	correlationID string,
	result *models.ConvertLeadResult,
	callErr error,
) *models.ConversionAudit {
	audit := &models.ConversionAudit{
		CorrelationID: correlationID,
		LeadID:        r.LeadID,
		AccountID:     r.AccountID,
		InstanceHost:  r.InstanceHost,
		Sandbox:       r.Sandbox,
		APIVersion:    r.APIVersion,
		CreatedAt:     s.now().UTC(),
	}

	var authErr *errs.AuthFailureError
	var malformedErr *errs.MalformedResponseError
	switch {
	case callErr == nil && result.Success:
		audit.Outcome = models.ConversionOutcomeConverted
		audit.ContactID = result.ContactID
		audit.HTTPStatusCode = 200
		if result.AccountID != "" {
			audit.AccountID = result.AccountID
		}
	case callErr == nil:
		audit.Outcome = models.ConversionOutcomeRejected
		audit.StatusCode = result.StatusCode
		audit.ErrorText = result.ErrorMessage
		audit.HTTPStatusCode = 200
	case errors.As(callErr, &authErr):
		audit.Outcome = models.ConversionOutcomeAuthFailure
		audit.StatusCode = authErr.ExceptionCode
		audit.ErrorText = authErr.ExceptionMessage
		audit.HTTPStatusCode = authErr.StatusCode
	case errors.As(callErr, &malformedErr):
		audit.Outcome = models.ConversionOutcomeError
		audit.ErrorText = malformedErr.Error()
		audit.HTTPStatusCode = malformedErr.StatusCode
	default:
		audit.Outcome = models.ConversionOutcomeError
		audit.ErrorText = callErr.Error()
	}
	return audit
}

// archive keeps the raw body of failures that carry one.
func (s *LeadConversionService) archive(ctx context.Context, audit *models.ConversionAudit, callErr error) string {
	if s.deps.Archiver == nil || callErr == nil {
		return ""
	}

	var body []byte
	var authErr *errs.AuthFailureError
	var malformedErr *errs.MalformedResponseError
	switch {
	case errors.As(callErr, &authErr):
		body = authErr.Body
	case errors.As(callErr, &malformedErr):
		body = malformedErr.Body
	}
	if len(body) == 0 {
		return ""
	}

	reference := audit.CorrelationID
	if reference == "" {
		reference = uuid.NewString()
	}
	objectName := fmt.Sprintf("%s/%s_%s.xml", audit.LeadID, audit.CreatedAt.Format("20060102T150405Z"), reference)
	name, err := s.deps.Archiver.Archive(ctx, objectName, body)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorFailedToArchiveResponseBody, err, zap.String("leadId", audit.LeadID))
		return ""
	}
	return name
}

func (s *LeadConversionService) writeAudit(ctx context.Context, audit *models.ConversionAudit) {
	if s.deps.Audit == nil {
		return
	}
	if err := s.deps.Audit.CreateEntry(ctx, audit); err != nil {
		logger.CtxError(ctx, log_messages.ErrorFailedToWriteConversionAudit, err, zap.String("leadId", audit.LeadID))
	}
}

func (s *LeadConversionService) publish(ctx context.Context, audit *models.ConversionAudit, result *models.ConvertLeadResult) {
	if s.deps.Publisher == nil {
		return
	}
	msg := models.KafkaConversionStatusMessage{
		CorrelationID:  audit.CorrelationID,
		LeadID:         audit.LeadID,
		InstanceHost:   audit.InstanceHost,
		Outcome:        audit.Outcome,
		ContactID:      audit.ContactID,
		AccountID:      audit.AccountID,
		StatusCode:     audit.StatusCode,
		ErrorText:      audit.ErrorText,
		ConversionTime: audit.CreatedAt,
	}
	if result != nil {
		msg.OpportunityID = result.OpportunityID
	}
	if err := s.deps.Publisher.PublishConversionStatus(ctx, msg); err != nil {
		logger.CtxError(ctx, log_messages.ErrorFailedToPublishStatusEvent, err, zap.String("leadId", audit.LeadID))
		return
	}
	logger.CtxDebug(ctx, log_messages.ConversionStatusEventPublished,
		zap.String("leadId", audit.LeadID),
		zap.String("outcome", audit.Outcome),
	)
}

// HandleMessage processes one Pub/Sub conversion request. Returning an
// error asks for redelivery, which only happens when retrying can help.
func (s *LeadConversionService) HandleMessage(ctx context.Context, msg []byte) error {
	var message models.PubSubConvertLeadMessage
	if err := json.Unmarshal(msg, &message); err != nil {
		logger.CtxError(ctx, log_messages.ErrorUnmarshalingPubsubMessage, err)
		return nil
	}

	correlationID := message.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	ctx = logger.WithRequestID(ctx, correlationID)

	_, err := s.ConvertLead(ctx, &message.ConvertLeadRequest, correlationID)
	if err == nil {
		return nil
	}

	var convertErr *errs.ConvertLeadError
	switch {
	case errors.Is(err, ErrConversionInProgress):
		return err
	case errors.As(err, &convertErr) && convertErr.IsTransportError():
		return err
	default:
		logger.CtxWarn(ctx, "Dropping conversion request", zap.String("leadId", message.LeadID), zap.Error(err))
		return nil
	}
}

// ConversionSummary reports the latest audited attempt for leadID and
// whether a conversion is running right now.
func (s *LeadConversionService) ConversionSummary(ctx context.Context, leadID string) (*models.ConversionSummary, error) {
	if s.deps.Audit == nil {
		return nil, ErrAuditDisabled
	}

	latest, err := s.deps.Audit.FindLatestByLeadID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.deps.Audit.CountByLeadID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	summary := &models.ConversionSummary{LeadID: leadID, Attempts: attempts, Latest: latest}
	if s.deps.InProgress != nil {
		if summary.InProgress, err = s.deps.InProgress.CheckEntryExists(ctx, leadID); err != nil {
			logger.CtxWarn(ctx, "Could not read conversion lock", zap.String("leadId", leadID), zap.Error(err))
		}
	}
	return summary, nil
}
