// Package domain contains the core business entities of the task manager
// (users and their tasks), their validation rules, and the field whitelists
// that govern partial updates. It is independent of storage and transport.
package domain
