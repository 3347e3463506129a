// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Every task operation takes the owner's ID, so an implementation can never
// return or modify a task that belongs to someone else.
package store
