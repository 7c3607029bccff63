// Package tx declares the transaction surface the catalog store works
// through, so that store code never touches *sql.Tx directly.
package tx

import "database/sql"

// Stmt is a statement prepared inside a transaction. It runs with the
// transaction's context and is released by Close.
type Stmt interface {
	Exec(argList ...any) (sql.Result, error)
	Close() error
}

type ReadTx interface {
	Query(stmt string, argList ...any) (*sql.Rows, error)
	QueryRow(stmt string, argList ...any) *sql.Row
	Commit() error
}

// WriteTx adds statement execution and rollback. Prepare is for statements
// run once per row of a batch.
type WriteTx interface {
	ReadTx
	Exec(stmt string, argList ...any) (sql.Result, error)
	Prepare(stmt string) (Stmt, error)
	Rollback() error
}
