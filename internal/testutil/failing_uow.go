package testutil

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/babybond/internal/db"
)

// ErrInjected is returned by FailOnNthExecUoW when Err is nil.
var ErrInjected = errors.New("injected write failure")

// FailOnNthExecUoW runs the real SQLite unit of work but fails the FailOn-th
// write inside each transaction, so a multi-write operation can be broken
// at an exact step and its rollback checked.
//
// Writes are counted from 1 per transaction; reads are not counted. When
// Match is set only statements containing it are counted, e.g. "sync_queue"
// to fail the Nth queue write regardless of what precedes it.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
	Match  string

	last atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	var wrapped *failingTx
	err := db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		wrapped = &failingTx{DBTX: tx, failOn: u.FailOn, match: u.Match, err: u.Err}
		if wrapped.err == nil {
			wrapped.err = ErrInjected
		}
		return fn(ctx, wrapped)
	})
	if wrapped != nil {
		u.last.Store(wrapped.execs.Load())
	}
	return err
}

// Execs returns how many counted writes the last transaction attempted.
func (u *FailOnNthExecUoW) Execs() int {
	return int(u.last.Load())
}

type failingTx struct {
	db.DBTX
	execs  atomic.Int32
	failOn int32
	match  string
	err    error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.match != "" && !strings.Contains(query, f.match) {
		return f.DBTX.ExecContext(ctx, query, args...)
	}
	if f.execs.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
