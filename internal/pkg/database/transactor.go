package database

import "context"

// Transactor runs fn inside a single database transaction. Repositories
// called with the ctx handed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
