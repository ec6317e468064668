package models

import "time"

const (
	ConversionOutcomeConverted   = "CONVERTED"
	ConversionOutcomeRejected    = "REJECTED"
	ConversionOutcomeAuthFailure = "AUTH_FAILURE"
	ConversionOutcomeError       = "ERROR"
)

type KafkaConversionStatusMessage struct {
	CorrelationID  string    `json:"correlationId"`
	LeadID         string    `json:"leadId"`
	InstanceHost   string    `json:"instanceHost"`
	Outcome        string    `json:"outcome"`
	ContactID      string    `json:"contactId,omitempty"`
	AccountID      string    `json:"accountId,omitempty"`
	OpportunityID  string    `json:"opportunityId,omitempty"`
	StatusCode     string    `json:"statusCode,omitempty"`
	ErrorText      string    `json:"errorText,omitempty"`
	ConversionTime time.Time `json:"conversionDateTime"`
}
