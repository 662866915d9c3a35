package ports

import "context"

// Transactor runs fn atomically against the store. Repository calls made
// with the ctx handed to fn take part in the transaction. Calling
// WithinTransaction from inside fn joins the outer transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
