package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertLeadRequest_WithDefaults(t *testing.T) {
	req := ConvertLeadRequest{LeadID: "00Q4C00000AhuQzUAJ"}.WithDefaults()

	assert.Equal(t, DefaultConvertedStatus, req.ConvertedStatus)
	assert.Equal(t, DefaultAPIVersion, req.APIVersion)
	assert.True(t, *req.SendNotificationEmail)
	assert.True(t, *req.DoNotCreateOpportunity)

	custom := ConvertLeadRequest{
		ConvertedStatus:        "Qualified",
		APIVersion:             "52.0",
		SendNotificationEmail:  BoolPtr(false),
		DoNotCreateOpportunity: BoolPtr(false),
	}.WithDefaults()

	assert.Equal(t, "Qualified", custom.ConvertedStatus)
	assert.Equal(t, "52.0", custom.APIVersion)
	assert.False(t, *custom.SendNotificationEmail)
	assert.False(t, *custom.DoNotCreateOpportunity)
}

func TestConvertLeadResult_Value(t *testing.T) {
	tests := []struct {
		name      string
		result    ConvertLeadResult
		wantValue string
		wantOK    bool
	}{
		{"converted", ConvertLeadResult{Success: true, ContactID: "0034C00000UQ6jIQAT", StatusCode: "ignored"}, "0034C00000UQ6jIQAT", true},
		{"converted without contact", ConvertLeadResult{Success: true}, "", false},
		{"rejected", ConvertLeadResult{StatusCode: "DUPLICATES_DETECTED", ContactID: "ignored"}, "DUPLICATES_DETECTED", true},
		{"rejected without status", ConvertLeadResult{}, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value, ok := tc.result.Value()
			assert.Equal(t, tc.wantValue, value)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}
