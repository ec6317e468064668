package consts

const (
	ConversionInProgressKeyPrefix = "lead_conversion:in_progress:"
	ConversionAuditCollection     = "conversion_audit"

	HeaderRequestID = "X-Request-ID"
)

// ConversionInProgressKey builds the Redis key guarding one lead.
func ConversionInProgressKey(leadID string) string {
	return ConversionInProgressKeyPrefix + leadID
}
