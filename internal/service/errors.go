package service

import "errors"

// Service errors not covered by the domain, store or auth packages.
// The API layer maps them to HTTP status codes.
var (
	// ErrAvatarRequired indicates an avatar upload without any file content.
	ErrAvatarRequired = errors.New("please upload an image")
)
