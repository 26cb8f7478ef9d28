package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/models"
)

func TestToRegistration_Defaults(t *testing.T) {
	reg := ToRegistration(map[string]any{}, "rec-1")

	assert.Equal(t, "rec-1", reg.ID)
	assert.Equal(t, models.StatusPending, reg.Status)
	assert.Equal(t, models.TicketGeneral, reg.TicketType)
	assert.Equal(t, "", reg.Name)
	assert.Equal(t, "", reg.Email)
	assert.Nil(t, reg.ValidationTime)
	// The record key is the fallback matching token.
	assert.Equal(t, "rec-1", reg.QRCodeValue)
}

func TestToRegistration_NameResolution(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		expected string
	}{
		{"explicit name wins", map[string]any{"name": "Ana Lopez", "firstName": "Other"}, "Ana Lopez"},
		{"first and last composed", map[string]any{"firstName": "Ana", "lastName": "Lopez"}, "Ana Lopez"},
		{"first name alone", map[string]any{"firstName": "Ana"}, "Ana"},
		{"last name alone", map[string]any{"lastName": "Lopez"}, "Lopez"},
		{"nothing", map[string]any{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToRegistration(tt.raw, "k").Name)
		})
	}
}

func TestToRegistration_EnumNormalization(t *testing.T) {
	reg := ToRegistration(map[string]any{"ticketType": "vip", "status": "validated"}, "k")
	assert.Equal(t, models.TicketVIP, reg.TicketType)
	assert.Equal(t, models.StatusValidated, reg.Status)

	reg = ToRegistration(map[string]any{"ticketType": "backstage", "status": "on-hold"}, "k")
	assert.Equal(t, models.TicketGeneral, reg.TicketType)
	assert.Equal(t, models.StatusPending, reg.Status)
}

func TestToRegistration_QRValueFallbackChain(t *testing.T) {
	raw := map[string]any{
		"qrCodeValue":   "primary",
		"qrCode":        "secondary",
		"qrCodeDataUrl": "data:image/png;base64," + strings.Repeat("A", 100),
	}
	assert.Equal(t, "primary", ToRegistration(raw, "k").QRCodeValue)

	delete(raw, "qrCodeValue")
	assert.Equal(t, "secondary", ToRegistration(raw, "k").QRCodeValue)

	delete(raw, "qrCode")
	blobToken := ToRegistration(raw, "k").QRCodeValue
	assert.Len(t, blobToken, qrDataURLPrefixLen)
	assert.True(t, strings.HasPrefix(raw["qrCodeDataUrl"].(string), blobToken))

	delete(raw, "qrCodeDataUrl")
	assert.Equal(t, "k", ToRegistration(raw, "k").QRCodeValue)
}

func TestToRegistration_ValidationTimeFormats(t *testing.T) {
	now := time.Date(2026, 8, 30, 21, 15, 0, 0, time.UTC)

	reg := ToRegistration(map[string]any{"validationTime": now}, "k")
	require.NotNil(t, reg.ValidationTime)
	assert.True(t, reg.ValidationTime.Equal(now))

	reg = ToRegistration(map[string]any{"validationTime": now.Format(time.RFC3339)}, "k")
	require.NotNil(t, reg.ValidationTime)
	assert.True(t, reg.ValidationTime.Equal(now))

	reg = ToRegistration(map[string]any{"validationTime": "not a time"}, "k")
	assert.Nil(t, reg.ValidationTime)
}

func TestToStoragePatch_RoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC)
	reg := models.Registration{
		ID:             "rec-9",
		Name:           "Maria Perez",
		Email:          "maria@example.com",
		TicketType:     models.TicketPromo,
		Status:         models.StatusValidated,
		ValidationTime: &now,
		ValidatedBy:    "Operator1",
		QRCodeValue:    "token-9",
	}

	patch := ToStoragePatch(reg)
	back := ToRegistration(patch, "rec-9")

	assert.Equal(t, reg.Name, back.Name)
	assert.Equal(t, reg.Email, back.Email)
	assert.Equal(t, reg.TicketType, back.TicketType)
	assert.Equal(t, reg.Status, back.Status)
	assert.Equal(t, reg.ValidatedBy, back.ValidatedBy)
	assert.Equal(t, reg.QRCodeValue, back.QRCodeValue)
	require.NotNil(t, back.ValidationTime)
	assert.True(t, back.ValidationTime.Equal(now))
}

func TestToStoragePatch_OmitsUnsetValidationFields(t *testing.T) {
	patch := ToStoragePatch(models.Registration{
		ID:         "rec-10",
		Status:     models.StatusPending,
		TicketType: models.TicketGeneral,
	})

	_, hasTime := patch["validationTime"]
	_, hasBy := patch["validatedBy"]
	assert.False(t, hasTime)
	assert.False(t, hasBy)
}
