package port

import "context"

type MailTransport interface {
	// Configured reports whether SMTP credentials were supplied. When false
	// the dispatcher short-circuits to a simulated success.
	Configured() bool

	Send(ctx context.Context, to, subject, htmlBody string) error

	// Verify checks transport reachability without sending anything.
	Verify(ctx context.Context) error
}
