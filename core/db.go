package core

import "context"

// Transactor runs fn as a single unit of work: either every write done through ctx commits or none does.
// Repositories called with the ctx passed to fn take part in the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Limit returns n if it is within (0, max], max otherwise.
func Limit(n, max int) int {
	if n <= 0 || n > max {
		return max
	}
	return n
}
