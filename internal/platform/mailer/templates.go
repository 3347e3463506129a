package mailer

import (
	"fmt"
	"html"
)

// Message kinds.
const (
	KindWelcome      = "welcome"
	KindCancellation = "cancellation"
)

// WelcomeMessage greets a newly registered user.
func WelcomeMessage(name, email string) Message {
	return Message{
		Kind:      KindWelcome,
		ToAddress: email,
		ToName:    name,
		Subject:   "Thanks for joining in!",
		PlainText: fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name),
		HTML: fmt.Sprintf("<p>Welcome to the app, <strong>%s</strong>. Let me know how you get along with the app.</p>",
			html.EscapeString(name)),
	}
}

// CancellationMessage says goodbye after an account is deleted.
func CancellationMessage(name, email string) Message {
	return Message{
		Kind:      KindCancellation,
		ToAddress: email,
		ToName:    name,
		Subject:   "Sorry to see you go!",
		PlainText: fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name),
		HTML: fmt.Sprintf("<p>Goodbye, <strong>%s</strong>. I hope to see you back sometime soon.</p>",
			html.EscapeString(name)),
	}
}
