// Package events lets services announce account lifecycle changes (a user
// registered, a user deleted their account) without knowing who listens.
// The mailer subscribes to send welcome and cancellation messages.
package events
