package models

// PubSubConvertLeadMessage is the payload of an inbound conversion request.
type PubSubConvertLeadMessage struct {
	CorrelationID string `json:"correlation_id"`
	ConvertLeadRequest
}
