package downstream

import (
	"encoding/xml"
	"fmt"

	"leadconversion/internal/pkg/models"
	"leadconversion/internal/pkg/xmlpath"
)

const (
	loginDomainProduction = "login"
	loginDomainSandbox    = "test"

	soapActionConvertLead = "convertLead"
)

type convertLeadEnvelope struct {
	XMLName      xml.Name                 `xml:"soapenv:Envelope"`
	XmlnsSoapenv string                   `xml:"xmlns:soapenv,attr"`
	XmlnsUrn     string                   `xml:"xmlns:urn,attr"`
	Header       models.SoapRequestHeader `xml:"soapenv:Header"`
	Body         convertLeadBody          `xml:"soapenv:Body"`
}

type convertLeadBody struct {
	ConvertLead models.SoapRequestConvertLead `xml:"urn:convertLead"`
}

// LoginDomain returns the Salesforce login domain token for the org type.
func LoginDomain(sandbox bool) string {
	if sandbox {
		return loginDomainSandbox
	}
	return loginDomainProduction
}

// EndpointURL returns the partner SOAP endpoint on the given instance host.
// The instance host is used verbatim; the login domain does not take part.
func EndpointURL(instanceHost, apiVersion string) string {
	return fmt.Sprintf("https://%s/services/Soap/u/%s", instanceHost, apiVersion)
}

// ConvertLeadHeaders returns the fixed HTTP headers of a convertLead call.
func ConvertLeadHeaders() map[string]string {
	return map[string]string{
		"content-type": "text/xml",
		"charset":      "UTF-8",
		"SOAPAction":   soapActionConvertLead,
	}
}

// CreateConvertLeadRequest serialises the SOAP envelope for req. Optional
// fields must already be defaulted; the account id element is left out when
// AccountID is empty.
func CreateConvertLeadRequest(req models.ConvertLeadRequest) ([]byte, error) {
	leadConvert := models.SoapRequestLeadConvert{
		ConvertedStatus: req.ConvertedStatus,
		LeadID:          req.LeadID,
		AccountID:       req.AccountID,
	}
	if req.SendNotificationEmail != nil {
		leadConvert.SendNotificationEmail = *req.SendNotificationEmail
	}
	if req.DoNotCreateOpportunity != nil {
		leadConvert.DoNotCreateOpportunity = *req.DoNotCreateOpportunity
	}

	env := convertLeadEnvelope{
		XmlnsSoapenv: xmlpath.SOAPEnvelopeNamespace,
		XmlnsUrn:     xmlpath.PartnerNamespace,
		Header: models.SoapRequestHeader{
			SessionHeader: models.SoapRequestSessionHeader{SessionID: req.SessionID},
		},
		Body: convertLeadBody{
			ConvertLead: models.SoapRequestConvertLead{LeadConverts: leadConvert},
		},
	}

	out, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), out...), nil
}
