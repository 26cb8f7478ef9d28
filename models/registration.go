package models

import (
	"time"
)

type TicketType string

const (
	TicketVIP     TicketType = "VIP"
	TicketGeneral TicketType = "GENERAL"
	TicketPromo   TicketType = "PROMO"
)

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "PENDING"
	StatusValidated RegistrationStatus = "VALIDATED"
	StatusCancelled RegistrationStatus = "CANCELLED"
)

// Registration is the canonical shape of a stored attendee record. Stored
// documents are heterogeneous (legacy imports, pre-registration exports); the
// normalizer in internal/services is the only place that builds one of these
// from raw storage data.
type Registration struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	TicketType     TicketType         `json:"ticket_type"`
	Status         RegistrationStatus `json:"status"`
	ValidationTime *time.Time         `json:"validation_time,omitempty"`
	ValidatedBy    string             `json:"validated_by,omitempty"`
	QRCodeValue    string             `json:"qr_code_value"`
}

type Operator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"` // ADMIN, STAFF
}
