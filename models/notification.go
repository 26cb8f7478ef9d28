package models

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
)

// HandlingFlag marks outcomes that need extra action at the door beyond
// letting the attendee through.
type HandlingFlag string

const (
	FlagNone     HandlingFlag = ""
	FlagPromoKit HandlingFlag = "PROMO_KIT" // hand over the promotional kit
	FlagVIPHost  HandlingFlag = "VIP_HOST"  // notify the VIP host
)

// Notification is the classified, user-facing form of an outcome. It carries
// no delivery state; the notifier stamps id and timestamp on publish.
type Notification struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Flag    HandlingFlag     `json:"flag,omitempty"`
}
