package ports

import "context"

// EmailMessage is a rendered outbound email.
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
}

// EmailSender is the outbound email collaborator. Implementations render the
// templates; transport failures are returned, retry is the caller's call.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
	CreateEmailValidationMessage(email, confirmationLink string) EmailMessage
	CreatePasswordResetMessage(email, resetLink string) EmailMessage
	CreatePasswordChangeNotification(email, firstName string) EmailMessage
	ConfirmationPageTemplate() string
}

// EmailDispatcher decouples request handling from email delivery: Enqueue
// returns immediately and workers deliver in the background.
type EmailDispatcher interface {
	Enqueue(msg EmailMessage)
}
