package ports

import "context"

// MailTemplate names an email layout.
type MailTemplate string

const (
	TemplateActivateAccount MailTemplate = "activate_account"
	TemplateResetPassword   MailTemplate = "reset_password"
)

// MailMessage is a templated outbound email.
type MailMessage struct {
	To       string
	Name     string
	Subject  string
	Template MailTemplate
	Link     string
	Code     string
}

// Mailer hands a message to the mail transport. Implementations must not
// block on delivery; a returned error means the message was not accepted.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// Throttle limits how often a keyed action may run.
type Throttle interface {
	Allow(ctx context.Context, key string) (bool, error)
}
