// Package notifier is the outbound email boundary. The core hands raw token
// strings to a Mailer and never sends email itself.
package notifier

import "context"

// Mailer delivers account emails. Implementations receive the raw token
// string and are responsible for embedding it into a link.
type Mailer interface {
	SendEmailVerification(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, token string) error
	SendInvitation(ctx context.Context, email, token string) error
	SendWelcome(ctx context.Context, email, name string) error
}
