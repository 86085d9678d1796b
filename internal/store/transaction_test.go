package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTxDriver is a minimal database/sql driver that records transaction
// outcomes, enough to exercise RunInTransaction without a real database.
type fakeTxDriver struct {
	conn *fakeTxConn
}

func (d *fakeTxDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

type fakeTxConn struct {
	begun      int
	committed  int
	rolledBack int
}

func (c *fakeTxConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *fakeTxConn) Close() error { return nil }
func (c *fakeTxConn) Begin() (driver.Tx, error) {
	c.begun++
	return &fakeTx{conn: c}, nil
}

type fakeTx struct {
	conn *fakeTxConn
}

func (t *fakeTx) Commit() error {
	t.conn.committed++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.conn.rolledBack++
	return nil
}

func newFakeTxDB(t *testing.T, name string) (*sql.DB, *fakeTxConn) {
	t.Helper()

	conn := &fakeTxConn{}
	sql.Register(name, &fakeTxDriver{conn: conn})
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, conn
}

func TestRunInTransactionCommits(t *testing.T) {
	db, conn := newFakeTxDB(t, "fake-tx-commit")

	var ran bool
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, conn.begun)
	assert.Equal(t, 1, conn.committed)
	assert.Equal(t, 0, conn.rolledBack)
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	db, conn := newFakeTxDB(t, "fake-tx-rollback")

	wantErr := errors.New("write failed")
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, conn.committed)
	assert.Equal(t, 1, conn.rolledBack)
}

func TestRunInTransactionRollsBackOnPanic(t *testing.T) {
	db, conn := newFakeTxDB(t, "fake-tx-panic")

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			panic("boom")
		})
	})
	assert.Equal(t, 0, conn.committed)
	assert.Equal(t, 1, conn.rolledBack)
}
