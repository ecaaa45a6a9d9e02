// Package notifier emits workflow events to the email collaborator. Dispatch
// is fire-and-forget: a delivery failure is logged and never blocks or rolls
// back the state transition that produced the event.
package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event names, one per application-workflow transition.
const (
	EventApplicationSubmitted = "application-submitted"
	EventApplicationApproved  = "application-approved"
	EventPaymentConfirmed     = "payment-confirmed"
	EventFinalApproval        = "application-final-approved"
)

// Event is a flat key-value notification payload addressed to one recipient.
type Event struct {
	ID        string
	Name      string
	Recipient string
	Data      map[string]string
}

func NewEvent(name, recipient string, data map[string]string) Event {
	if data == nil {
		data = map[string]string{}
	}
	return Event{
		ID:        uuid.NewString(),
		Name:      name,
		Recipient: recipient,
		Data:      data,
	}
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Dispatch delivers ev on a background goroutine. Callers must never wait on
// the result; failures are logged here and go nowhere else.
func Dispatch(n Notifier, ev Event) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := n.Notify(ctx, ev); err != nil {
			logrus.WithFields(logrus.Fields{
				"event":     ev.Name,
				"event_id":  ev.ID,
				"recipient": ev.Recipient,
			}).WithError(err).Error("notification delivery failed")
		}
	}()
}
