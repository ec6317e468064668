package models

const (
	DefaultConvertedStatus = "Closed Won"
	DefaultAPIVersion      = "38.0"
)

// ConvertLeadRequest carries everything needed for one convertLead call.
type ConvertLeadRequest struct {
	SessionID       string `json:"sessionId" validate:"required"`
	LeadID          string `json:"leadId" validate:"required,alphanum,len=15|len=18"`
	AccountID       string `json:"accountId,omitempty" validate:"omitempty,alphanum,len=15|len=18"`
	ConvertedStatus string `json:"convertedStatus,omitempty"`
	InstanceHost    string `json:"instanceHost" validate:"required,hostname_port|hostname"`
	Sandbox         bool   `json:"sandbox"`
	APIVersion      string `json:"apiVersion,omitempty" validate:"omitempty,numeric"`
	// Proxies maps a URL scheme ("http", "https") to a proxy URL.
	Proxies                map[string]string `json:"proxies,omitempty" validate:"omitempty,dive,keys,oneof=http https,endkeys,url"`
	SendNotificationEmail  *bool             `json:"sendNotificationEmail,omitempty"`
	DoNotCreateOpportunity *bool             `json:"doNotCreateOpportunity,omitempty"`
}

// WithDefaults returns a copy with unset optional fields filled in.
func (r ConvertLeadRequest) WithDefaults() ConvertLeadRequest {
	if r.ConvertedStatus == "" {
		r.ConvertedStatus = DefaultConvertedStatus
	}
	if r.APIVersion == "" {
		r.APIVersion = DefaultAPIVersion
	}
	if r.SendNotificationEmail == nil {
		r.SendNotificationEmail = BoolPtr(true)
	}
	if r.DoNotCreateOpportunity == nil {
		r.DoNotCreateOpportunity = BoolPtr(true)
	}
	return r
}

func BoolPtr(b bool) *bool {
	return &b
}

// ConvertLeadResult is the outcome of a convertLead call that reached the
// partner API. Empty strings mean the element was absent or empty.
type ConvertLeadResult struct {
	Success       bool   `json:"success"`
	ContactID     string `json:"contactId,omitempty"`
	StatusCode    string `json:"statusCode,omitempty"`
	AccountID     string `json:"accountId,omitempty"`
	OpportunityID string `json:"opportunityId,omitempty"`
	LeadID        string `json:"leadId,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// Value returns the contact id for a successful conversion or the error
// status code otherwise. ok is false when that value was not present.
func (r ConvertLeadResult) Value() (value string, ok bool) {
	if r.Success {
		return r.ContactID, r.ContactID != ""
	}
	return r.StatusCode, r.StatusCode != ""
}
