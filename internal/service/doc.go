// Package service contains the application use cases of the task manager:
// session handling (login, token verification, logout), account management
// and owner-scoped task management.
//
// Services depend on the store interfaces and on auth for tokens and
// password hashing, never on a concrete database. Operations that touch
// several tables run through a store.Transactor. Account lifecycle changes
// are announced through an events.EventEmitter after they commit.
package service
