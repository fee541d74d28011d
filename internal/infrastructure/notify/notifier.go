// Package notify implements the account core's Notifier capability on top of
// the RabbitMQ email queue. Delivery itself happens in the notification
// worker.
package notify

import (
	"context"
	"fmt"

	"github.com/colabore/colabore-api/internal/application"
	"github.com/colabore/colabore-api/internal/domain/entity"
	"github.com/colabore/colabore-api/pkg/helpers"
	"github.com/colabore/colabore-api/pkg/mailer"
)

type QueueNotifier struct {
	Pub *helpers.RabbitPublisher
}

func NewQueueNotifier(pub *helpers.RabbitPublisher) *QueueNotifier {
	return &QueueNotifier{Pub: pub}
}

func (n *QueueNotifier) UserDeactivated(ctx context.Context, u *entity.User) error {
	if n.Pub == nil {
		return nil
	}
	job := mailer.EmailJob{
		To:      u.Email,
		Kind:    mailer.KindUserDeactivated,
		Subject: "Your account was deactivated",
		Text: fmt.Sprintf("Hello %s,\n\nYour account has been deactivated. "+
			"Your contributions are now listed anonymously. "+
			"You can reactivate at any time with the link we keep on file.\n", u.Name),
	}
	return n.Pub.PublishJSON(ctx, job)
}

func (n *QueueNotifier) PasswordReset(ctx context.Context, u *entity.User, resetLink string) error {
	if n.Pub == nil {
		return nil
	}
	job := mailer.EmailJob{
		To:      u.Email,
		Kind:    mailer.KindPasswordReset,
		Subject: "Reset your password",
		Text: fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. "+
			"It works once and expires in a few hours.\n\n%s\n", u.Name, resetLink),
	}
	return n.Pub.PublishJSON(ctx, job)
}

var _ application.Notifier = (*QueueNotifier)(nil)
