// Package mailer sends the account notification e-mails: a welcome message
// after registration and a goodbye after account deletion. Delivery goes
// through SendGrid or, by default, the application log, and always happens
// off the request path via Dispatcher.
package mailer
