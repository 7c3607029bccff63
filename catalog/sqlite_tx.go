package catalog

import (
	"context"
	"database/sql"
	"groqkit/tx"

	"github.com/pkg/errors"
)

// sqliteReadTx binds a *sql.Tx to the context it was opened with.
type sqliteReadTx struct {
	ctx context.Context
	tx  *sql.Tx
}

// sqliteWriteTx is the same transaction with write access.
type sqliteWriteTx struct {
	sqliteReadTx
}

type sqliteStmt struct {
	ctx  context.Context
	stmt *sql.Stmt
}

func (rtx *sqliteReadTx) Query(stmt string, argList ...any) (*sql.Rows, error) {
	rows, err := rtx.tx.QueryContext(rtx.ctx, stmt, argList...)
	return rows, errors.Wrap(err, "query")
}

func (rtx *sqliteReadTx) QueryRow(stmt string, argList ...any) *sql.Row {
	return rtx.tx.QueryRowContext(rtx.ctx, stmt, argList...)
}

func (rtx *sqliteReadTx) Commit() error {
	return errors.Wrap(rtx.tx.Commit(), "commit")
}

func (wtx *sqliteWriteTx) Exec(stmt string, argList ...any) (sql.Result, error) {
	return wtx.tx.ExecContext(wtx.ctx, stmt, argList...)
}

func (wtx *sqliteWriteTx) Prepare(stmt string) (tx.Stmt, error) {
	prepared, err := wtx.tx.PrepareContext(wtx.ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "prepare")
	}
	return &sqliteStmt{ctx: wtx.ctx, stmt: prepared}, nil
}

func (wtx *sqliteWriteTx) Rollback() error {
	return wtx.tx.Rollback()
}

func (s *sqliteStmt) Exec(argList ...any) (sql.Result, error) {
	return s.stmt.ExecContext(s.ctx, argList...)
}

func (s *sqliteStmt) Close() error {
	return s.stmt.Close()
}
