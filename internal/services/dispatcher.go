package services

import (
	"fmt"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/models"
)

// Classify maps a validation outcome to its user-facing notification. Pure
// classification: delivery is the notifier's job. Successful VIP and PROMO
// admissions carry a handling flag so door staff know to notify the host or
// hand over the promotional kit.
func Classify(outcome models.Outcome) models.Notification {
	switch outcome.Code {
	case models.OutcomeSuccess:
		return classifySuccess(outcome.Registration)

	case models.OutcomeAlreadyValidated:
		reg := outcome.Registration
		msg := fmt.Sprintf("%s already entered", displayName(reg))
		if reg != nil && reg.ValidationTime != nil {
			msg = fmt.Sprintf("%s already entered at %s (validated by %s)",
				displayName(reg),
				reg.ValidationTime.Local().Format("15:04:05"),
				displayOperator(reg.ValidatedBy),
			)
		}
		return models.Notification{
			Type:    models.NotifyWarning,
			Title:   "Already Validated",
			Message: msg,
		}

	case models.OutcomeCancelled:
		return models.Notification{
			Type:    models.NotifyError,
			Title:   "Access Denied",
			Message: fmt.Sprintf("Ticket CANCELLED: %s", displayName(outcome.Registration)),
		}

	case models.OutcomeNotFound:
		return models.Notification{
			Type:    models.NotifyError,
			Title:   "Invalid Code",
			Message: fmt.Sprintf("The code %q does not match any registration", truncate(outcome.AttemptedKey, 20)),
		}

	case models.OutcomeConflict:
		return models.Notification{
			Type:    models.NotifyError,
			Title:   "Conflict",
			Message: "Another operator is validating this code. Try again.",
		}

	default:
		return models.Notification{
			Type:    models.NotifyError,
			Title:   "Connection Error",
			Message: "Could not validate the code. Check the connection and retry.",
		}
	}
}

func classifySuccess(reg *models.Registration) models.Notification {
	switch {
	case reg != nil && reg.TicketType == models.TicketVIP:
		return models.Notification{
			Type:    models.NotifySuccess,
			Title:   "VIP Access",
			Message: fmt.Sprintf("%s has entered. Notify the host.", displayName(reg)),
			Flag:    models.FlagVIPHost,
		}
	case reg != nil && reg.TicketType == models.TicketPromo:
		return models.Notification{
			Type:    models.NotifyInfo,
			Title:   "Promo Kit",
			Message: fmt.Sprintf("Deliver the promotional kit to %s.", displayName(reg)),
			Flag:    models.FlagPromoKit,
		}
	default:
		return models.Notification{
			Type:    models.NotifySuccess,
			Title:   "Access Granted",
			Message: fmt.Sprintf("%s has entered.", displayName(reg)),
		}
	}
}

func displayName(reg *models.Registration) string {
	if reg == nil || reg.Name == "" {
		return "Attendee"
	}
	return reg.Name
}
