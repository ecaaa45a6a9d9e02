package notifier

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier records events instead of delivering them. Used when no mail
// provider is configured (local development, tests).
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, ev Event) error {
	logrus.WithFields(logrus.Fields{
		"event":     ev.Name,
		"event_id":  ev.ID,
		"recipient": ev.Recipient,
		"reference": ev.Data["reference"],
	}).Info("notification (log only)")
	return nil
}
