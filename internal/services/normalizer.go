package services

import (
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/tools/types"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/models"
)

// qrDataURLPrefixLen matches the matching-token length used by the
// pre-registration exporter when only an embedded QR data blob is stored.
const qrDataURLPrefixLen = 50

// ToRegistration converts a raw stored document into the canonical shape.
// Stored records are heterogeneous: legacy imports miss fields, spell names as
// firstName/lastName, or carry unrecognized enum values. The mapping is
// deliberately tolerant; anything outside the known enums falls back to
// GENERAL/PENDING instead of failing. Pure, no side effects.
func ToRegistration(raw map[string]any, key string) models.Registration {
	reg := models.Registration{
		ID:          key,
		Name:        resolveName(raw),
		Email:       stringValue(raw["email"]),
		TicketType:  NormalizeTicketType(stringValue(raw["ticketType"])),
		Status:      NormalizeStatus(stringValue(raw["status"])),
		ValidatedBy: stringValue(raw["validatedBy"]),
		QRCodeValue: resolveQRValue(raw, key),
	}
	if t, ok := parseTimeValue(raw["validationTime"]); ok {
		reg.ValidationTime = &t
	}
	return reg
}

// ToStoragePatch is the reverse mapping: canonical fields back into the
// loosely-typed storage form.
func ToStoragePatch(reg models.Registration) map[string]any {
	patch := map[string]any{
		"name":        reg.Name,
		"email":       reg.Email,
		"ticketType":  string(reg.TicketType),
		"status":      string(reg.Status),
		"qrCodeValue": reg.QRCodeValue,
	}
	if reg.ValidationTime != nil {
		patch["validationTime"] = reg.ValidationTime.UTC()
	}
	if reg.ValidatedBy != "" {
		patch["validatedBy"] = reg.ValidatedBy
	}
	return patch
}

func NormalizeTicketType(value string) models.TicketType {
	switch models.TicketType(strings.ToUpper(strings.TrimSpace(value))) {
	case models.TicketVIP:
		return models.TicketVIP
	case models.TicketPromo:
		return models.TicketPromo
	default:
		return models.TicketGeneral
	}
}

func NormalizeStatus(value string) models.RegistrationStatus {
	switch models.RegistrationStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case models.StatusValidated:
		return models.StatusValidated
	case models.StatusCancelled:
		return models.StatusCancelled
	default:
		return models.StatusPending
	}
}

func resolveName(raw map[string]any) string {
	if name := strings.TrimSpace(stringValue(raw["name"])); name != "" {
		return name
	}
	first := strings.TrimSpace(stringValue(raw["firstName"]))
	last := strings.TrimSpace(stringValue(raw["lastName"]))
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

func resolveQRValue(raw map[string]any, key string) string {
	if v := stringValue(raw["qrCodeValue"]); v != "" {
		return v
	}
	if v := stringValue(raw["qrCode"]); v != "" {
		return v
	}
	if blob := stringValue(raw["qrCodeDataUrl"]); blob != "" {
		if len(blob) > qrDataURLPrefixLen {
			return blob[:qrDataURLPrefixLen]
		}
		return blob
	}
	return key
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// parseTimeValue accepts the datetime representations the store can hand
// back: native time.Time from the in-memory store, types.DateTime from
// PocketBase, or a string from imported records.
func parseTimeValue(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val, true
	case types.DateTime:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.Time(), true
	case string:
		if val == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339, types.DefaultDateLayout} {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
