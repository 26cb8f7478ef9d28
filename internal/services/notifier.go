package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	pubnub "github.com/pubnub/go"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/models"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/utils"
)

// Notifier delivers classified notifications to the real-time channel the
// dashboard and scanning stations listen on. Publishes go through a circuit
// breaker so a dead PubNub endpoint does not stall every scan.
type Notifier struct {
	pubnub  *pubnub.PubNub
	channel string
	breaker *utils.CircuitBreaker
}

func NewNotifier(pn *pubnub.PubNub, channel string) *Notifier {
	return &Notifier{
		pubnub:  pn,
		channel: channel,
		breaker: utils.NewCircuitBreaker("notifier"),
	}
}

// Publish sends the notification, stamped with an id and timestamp. Delivery
// failures are logged, never propagated: a lost toast must not fail a scan.
func (n *Notifier) Publish(notification models.Notification) {
	if n.pubnub == nil {
		return
	}

	message := map[string]any{
		"id":        uuid.NewString(),
		"type":      string(notification.Type),
		"title":     notification.Title,
		"message":   notification.Message,
		"timestamp": time.Now().UnixMilli(),
	}
	if notification.Flag != models.FlagNone {
		message["flag"] = string(notification.Flag)
	}

	_, err := n.breaker.Execute(context.Background(), func() (any, error) {
		_, _, err := n.pubnub.Publish().
			Channel(n.channel).
			Message(message).
			Execute()
		return nil, err
	})
	if err != nil {
		slog.Error("notification publish failed", "channel", n.channel, "error", err)
	}
}
