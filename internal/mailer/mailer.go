// internal/mailer/mailer.go
package mailer

import "context"

// Mailer is the mail transport: send one email, report success or failure.
// Implementations are synchronous and always surface transport errors.
type Mailer interface {
    Send(ctx context.Context, subject, body, recipient string) error
}
