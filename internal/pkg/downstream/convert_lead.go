package downstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	errs "leadconversion/internal/pkg/downstream/error_handling"
	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/pkg/models"
	"leadconversion/internal/pkg/otel"
	"leadconversion/internal/pkg/xmlpath"
)

const (
	faultExceptionCodeTag    = "sf:exceptionCode"
	faultExceptionMessageTag = "sf:exceptionMessage"
)

var convertLeadResultPath = xmlpath.Path{"soapenv:Envelope", "soapenv:Body", "convertLeadResponse", "result"}

func resultPath(steps ...string) xmlpath.Path {
	path := make(xmlpath.Path, 0, len(convertLeadResultPath)+len(steps))
	path = append(path, convertLeadResultPath...)
	return append(path, steps...)
}

type ConvertLeadAPI interface {
	ConvertLead(ctx context.Context, req *models.ConvertLeadRequest) (*models.ConvertLeadResult, error)
}

type ConvertLeadClient struct {
	session Session
}

func NewConvertLeadClient(session Session) *ConvertLeadClient {
	return &ConvertLeadClient{session: session}
}

// ConvertLead performs one convertLead call. A non-200 response yields
// *AuthFailureError, an unparsable 200 body *MalformedResponseError, and a
// build or transport failure *ConvertLeadError.
func (c *ConvertLeadClient) ConvertLead(
	ctx context.Context,
	req *models.ConvertLeadRequest,
) (*models.ConvertLeadResult, error) {
	if req == nil {
		return nil, errs.NewConvertLeadError(errors.New(log_messages.ErrorNilConvertLeadRequest))
	}

	ctx, span := otel.GetTracer().Start(ctx, "salesforce.convertLead")
	defer span.End()

	r := req.WithDefaults()
	soapURL := EndpointURL(r.InstanceHost, r.APIVersion)
	span.SetAttributes(
		attribute.String("salesforce.lead_id", r.LeadID),
		attribute.String("salesforce.api_version", r.APIVersion),
		attribute.Bool("salesforce.sandbox", r.Sandbox),
	)

	logger.CtxInfo(ctx, log_messages.PreparingConvertLeadRequest,
		zap.String("url", soapURL),
		zap.String("loginDomain", LoginDomain(r.Sandbox)),
		zap.String("leadId", r.LeadID),
		zap.Bool("withAccountId", r.AccountID != ""),
		zap.String("convertedStatus", r.ConvertedStatus),
	)

	body, err := CreateConvertLeadRequest(r)
	if err != nil {
		logger.CtxError(ctx, log_messages.ConvertLeadBuildFailed, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errs.NewConvertLeadError(fmt.Errorf(log_messages.ErrorFailedToBuildConvertLead, err))
	}

	resp, err := c.session.Post(ctx, soapURL, body, ConvertLeadHeaders(), r.Proxies)
	if err != nil {
		logger.CtxError(ctx, log_messages.ConvertLeadSendFailed, err, zap.String("url", soapURL))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		wrapped := fmt.Errorf(log_messages.ErrorFailedToSendConvertLead, err)
		if errors.Is(err, ErrInvalidProxy) {
			return nil, errs.NewConvertLeadError(wrapped)
		}
		return nil, errs.NewConvertLeadError(wrapped, -1)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	result, err := c.processResponseBody(ctx, resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

// processResponseBody turns the raw response into a result or a typed error
func (c *ConvertLeadClient) processResponseBody(
	ctx context.Context,
	resp *SessionResponse,
) (*models.ConvertLeadResult, error) {
	logger.CtxInfo(ctx, log_messages.ReceivedConvertLeadResponse, zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, newAuthFailure(ctx, resp)
	}

	doc, err := xmlpath.ParseDocument(resp.Body)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorConvertLeadMalformedResponse, err)
		return nil, errs.NewMalformedResponseError(
			fmt.Errorf(log_messages.ErrorFailedToParseConvertLeadBody, err), resp.Body, resp.StatusCode)
	}

	result := ExtractConvertLeadResult(doc)
	if result.Success {
		logger.CtxInfo(ctx, log_messages.ConvertLeadSucceeded,
			zap.String("contactId", result.ContactID),
			zap.String("accountId", result.AccountID),
		)
	} else {
		logger.CtxWarn(ctx, log_messages.ConvertLeadRejected,
			zap.String("statusCode", result.StatusCode),
			zap.String("errorMessage", result.ErrorMessage),
		)
	}
	return result, nil
}

// ExtractConvertLeadResult reads the first result of a convertLeadResponse.
// Only the literal text "true" counts as success.
func ExtractConvertLeadResult(doc *xmlpath.Document) *models.ConvertLeadResult {
	success, _ := doc.ValueAt(resultPath("success"))
	result := &models.ConvertLeadResult{Success: success == "true"}

	result.LeadID, _ = doc.ValueAt(resultPath("leadId"))
	result.AccountID, _ = doc.ValueAt(resultPath("accountId"))
	result.OpportunityID, _ = doc.ValueAt(resultPath("opportunityId"))

	if result.Success {
		result.ContactID, _ = doc.ValueAt(resultPath("contactId"))
		return result
	}

	result.StatusCode, _ = doc.ValueAt(resultPath("errors", "statusCode"))
	result.ErrorMessage, _ = doc.ValueAt(resultPath("errors", "message"))
	return result
}

// newAuthFailure pulls the first sf:exceptionCode and sf:exceptionMessage
// found anywhere in the body.
func newAuthFailure(ctx context.Context, resp *SessionResponse) *errs.AuthFailureError {
	authErr := errs.NewAuthFailureError("", "", resp.StatusCode, resp.Body)

	doc, err := xmlpath.ParseDocument(resp.Body)
	if err != nil {
		authErr.Err = fmt.Errorf(log_messages.ErrorFailedToParseFaultBody, err)
	} else {
		authErr.ExceptionCode, _ = doc.FirstValue(faultExceptionCodeTag)
		authErr.ExceptionMessage, _ = doc.FirstValue(faultExceptionMessageTag)
	}

	logger.CtxError(ctx, log_messages.ErrorConvertLeadAuthFailure, authErr,
		zap.Int("status", resp.StatusCode),
		zap.String("exceptionCode", authErr.ExceptionCode),
	)
	return authErr
}
