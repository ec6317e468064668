package models

type SoapRequestSessionHeader struct {
	SessionID string `xml:"urn:sessionId"`
}

type SoapRequestHeader struct {
	SessionHeader SoapRequestSessionHeader `xml:"urn:SessionHeader"`
}

type SoapRequestLeadConvert struct {
	ConvertedStatus        string `xml:"urn:convertedStatus"`
	LeadID                 string `xml:"urn:leadId"`
	AccountID              string `xml:"urn:accountId,omitempty"`
	SendNotificationEmail  bool   `xml:"urn:sendNotificationEmail"`
	DoNotCreateOpportunity bool   `xml:"urn:doNotCreateOpportunity"`
}

type SoapRequestConvertLead struct {
	LeadConverts SoapRequestLeadConvert `xml:"urn:leadConverts"`
}
