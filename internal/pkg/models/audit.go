package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConversionAudit records one convertLead attempt.
type ConversionAudit struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CorrelationID  string             `json:"correlationId" bson:"correlationId"`
	LeadID         string             `json:"leadId" bson:"leadId"`
	AccountID      string             `json:"accountId,omitempty" bson:"accountId,omitempty"`
	InstanceHost   string             `json:"instanceHost" bson:"instanceHost"`
	Sandbox        bool               `json:"sandbox" bson:"sandbox"`
	APIVersion     string             `json:"apiVersion" bson:"apiVersion"`
	Outcome        string             `json:"outcome" bson:"outcome"`
	ContactID      string             `json:"contactId,omitempty" bson:"contactId,omitempty"`
	StatusCode     string             `json:"statusCode,omitempty" bson:"statusCode,omitempty"`
	HTTPStatusCode int                `json:"httpStatusCode,omitempty" bson:"httpStatusCode,omitempty"`
	ErrorText      string             `json:"errorText,omitempty" bson:"errorText,omitempty"`
	ArchiveObject  string             `json:"archiveObject,omitempty" bson:"archiveObject,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}

// ConversionSummary is what the service reports about one lead.
type ConversionSummary struct {
	LeadID     string           `json:"leadId"`
	InProgress bool             `json:"inProgress"`
	Attempts   int64            `json:"attempts"`
	Latest     *ConversionAudit `json:"latest,omitempty"`
}
