// Package mailx defines the outbound-mail contract. Actual delivery is an
// external collaborator; the default implementation only records that a
// message would have been sent.
package mailx

import (
	"context"

	"github.com/kofany/sshm.io/internal/logging"
)

// Mailer sends account-lifecycle mail. Implementations must not block the
// calling request beyond ctx.
type Mailer interface {
	SendConfirmation(ctx context.Context, email, confirmToken string) error
	SendPasswordReset(ctx context.Context, email, resetToken string) error
}

// LogMailer satisfies Mailer by logging the event. Token values are not
// logged; the address is enough to trace delivery.
type LogMailer struct {
	Log logging.Logger
}

func (m *LogMailer) SendConfirmation(ctx context.Context, email, confirmToken string) error {
	m.Log.Info(ctx, "confirmation mail queued", "email", email)
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, resetToken string) error {
	m.Log.Info(ctx, "password reset mail queued", "email", email)
	return nil
}
