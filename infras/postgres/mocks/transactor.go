package mocks

import (
	"context"
	"database/sql"
	"sync"

	"arena/infras/postgres"

	"github.com/jmoiron/sqlx"
)

// Transactor runs fn with a nil transaction. Repository mocks receive the nil *sqlx.Tx.
type Transactor struct {
	mu    sync.Mutex
	calls int
	opts  []*sql.TxOptions
}

var _ postgres.Transactor = (*Transactor)(nil)

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
	t.mu.Lock()
	t.calls++
	t.opts = append(t.opts, opts)
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	return fn(nil)
}

func (t *Transactor) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.calls
}

// LastIsolation returns the isolation level of the most recent call.
func (t *Transactor) LastIsolation() sql.IsolationLevel {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.opts) == 0 || t.opts[len(t.opts)-1] == nil {
		return sql.LevelDefault
	}

	return t.opts[len(t.opts)-1].Isolation
}
