package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	errs "leadconversion/internal/pkg/downstream/error_handling"
	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/pkg/models"
	"leadconversion/internal/service"
	"leadconversion/internal/service/interfaces"
)

type LeadConversionHandler struct {
	service interfaces.LeadConversionServiceInterface
}

func NewLeadConversionHandler(service interfaces.LeadConversionServiceInterface) *LeadConversionHandler {
	return &LeadConversionHandler{service: service}
}

func (h *LeadConversionHandler) ConvertLead(c *gin.Context) {
	var body models.ConvertLeadRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": log_messages.ErrorInvalidRequestBody, "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	result, err := h.service.ConvertLead(ctx, &body, logger.RequestID(ctx))
	if err != nil {
		writeConvertLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func writeConvertLeadError(c *gin.Context, err error) {
	var (
		inProgress   *service.InProgressError
		authErr      *errs.AuthFailureError
		malformedErr *errs.MalformedResponseError
		convertErr   *errs.ConvertLeadError
	)

	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &inProgress):
		if inProgress.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(inProgress.RetryAfter.Seconds()))))
		}
		c.JSON(http.StatusConflict, gin.H{"error": log_messages.ErrorConversionInProgress, "leadId": inProgress.LeadID})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":            "salesforce authentication failed",
			"exceptionCode":    authErr.ExceptionCode,
			"exceptionMessage": authErr.ExceptionMessage,
			"statusCode":       authErr.StatusCode,
		})
	case errors.As(err, &malformedErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": log_messages.ErrorConvertLeadMalformedResponse})
	case errors.As(err, &convertErr) && convertErr.IsTransportError():
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.CtxError(c.Request.Context(), "Unhandled convertLead error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *LeadConversionHandler) ConversionSummary(c *gin.Context) {
	leadID := c.Param("leadId")
	ctx := c.Request.Context()

	summary, err := h.service.ConversionSummary(ctx, leadID)
	switch {
	case errors.Is(err, service.ErrAuditDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.CtxError(ctx, "Failed to read conversion summary", err, zap.String("leadId", leadID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if summary.Latest == nil && !summary.InProgress {
		c.JSON(http.StatusNotFound, summary)
		return
	}
	c.JSON(http.StatusOK, summary)
}
