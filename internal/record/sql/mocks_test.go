package sql

import (
	"context"
	"database/sql/driver"
	"io"
)

// mockDriver implements the sql/driver.Driver interface.
type mockDriver struct {
	OpenFunc func(name string) (driver.Conn, error)
}

func (m *mockDriver) Open(name string) (driver.Conn, error) {
	return m.OpenFunc(name)
}

// mockConn implements the sql/driver.Conn interface.
type mockConn struct {
	PrepareFunc func(query string) (driver.Stmt, error)
	BeginFunc   func() (driver.Tx, error)
}

func (m mockConn) Prepare(query string) (driver.Stmt, error) {
	return m.PrepareFunc(query)
}

func (mockConn) Close() error {
	return nil
}

func (m mockConn) Begin() (driver.Tx, error) {
	return m.BeginFunc()
}

// mockStmt implements the sql/driver.Stmt interface.
type mockStmt struct {
	ExecFunc  func(args []driver.Value) (driver.Result, error)
	QueryFunc func(args []driver.Value) (driver.Rows, error)
}

func (mockStmt) Close() error {
	return nil
}

func (mockStmt) NumInput() int {
	return -1
}

func (m mockStmt) Exec(args []driver.Value) (driver.Result, error) {
	return m.ExecFunc(args)
}

func (m mockStmt) Query(args []driver.Value) (driver.Rows, error) {
	return m.QueryFunc(args)
}

// mockTx implements the sql/driver.Tx interface.
type mockTx struct {
	CommitFunc   func() error
	RollbackFunc func() error
}

func (m mockTx) Commit() error {
	return m.CommitFunc()
}

func (m mockTx) Rollback() error {
	return m.RollbackFunc()
}

// mockResult implements the sql/driver.Result interface.
type mockResult struct {
	RowsAffectedFunc func() (int64, error)
}

func (mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	return m.RowsAffectedFunc()
}

// mockRows implements the sql/driver.Rows interface, returning one row of values.
type mockRows struct {
	cols   []string
	values []driver.Value
	read   *bool
}

func (m mockRows) Columns() []string {
	return m.cols
}

func (mockRows) Close() error {
	return nil
}

func (m mockRows) Next(dest []driver.Value) error {
	if m.values == nil || *m.read {
		return io.EOF
	}
	*m.read = true
	copy(dest, m.values)
	return nil
}

// mockExecutor implements the Executor interface.
type mockExecutor struct {
	SetupFunc func(ctx context.Context, files []io.Reader) error
	QueryFunc func(ctx context.Context, q Query, dest ...interface{}) error
	ExecFunc  func(ctx context.Context, queries ...Query) error
}

func (m mockExecutor) Setup(ctx context.Context, files []io.Reader) error {
	return m.SetupFunc(ctx, files)
}

func (m mockExecutor) Query(ctx context.Context, q Query, dest ...interface{}) error {
	return m.QueryFunc(ctx, q, dest...)
}

func (m mockExecutor) Exec(ctx context.Context, queries ...Query) error {
	return m.ExecFunc(ctx, queries...)
}
