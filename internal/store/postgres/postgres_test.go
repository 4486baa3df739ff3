// internal/store/postgres/postgres_test.go
package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio-projects/internal/store"
)

// MockDB is a mock of the DBTX interface.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	called := m.Called(ctx, sql, args)
	return called.Get(0).(pgconn.CommandTag), called.Error(1)
}
func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	called := m.Called(ctx, sql, args)
	return called.Get(0).(pgx.Row)
}

// fakeRow returns a single bytea column.
type fakeRow struct {
	value []byte
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.value
	return nil
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored value", func(t *testing.T) {
		db := new(MockDB)
		db.On("QueryRow", ctx, getEntrySQL, []any{"k"}).Return(fakeRow{value: []byte(`{"v":1}`)}).Once()

		got, err := New(db).Get(ctx, "k")

		require.NoError(t, err)
		assert.Equal(t, `{"v":1}`, string(got))
		db.AssertExpectations(t)
	})

	t.Run("maps no rows to ErrNotFound", func(t *testing.T) {
		db := new(MockDB)
		db.On("QueryRow", ctx, getEntrySQL, []any{"k"}).Return(fakeRow{err: pgx.ErrNoRows}).Once()

		_, err := New(db).Get(ctx, "k")

		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("returns unexpected database errors", func(t *testing.T) {
		db := new(MockDB)
		dbErr := errors.New("connection reset")
		db.On("QueryRow", ctx, getEntrySQL, []any{"k"}).Return(fakeRow{err: dbErr}).Once()

		_, err := New(db).Get(ctx, "k")

		assert.Equal(t, dbErr, err)
	})
}

func TestStore_Put(t *testing.T) {
	ctx := context.Background()
	db := new(MockDB)
	db.On("Exec", ctx, putEntrySQL, []any{"k", []byte("v")}).Return(pgconn.NewCommandTag("INSERT 0 1"), nil).Once()

	err := New(db).Put(ctx, "k", []byte("v"))

	require.NoError(t, err)
	db.AssertExpectations(t)
}
