package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/homepoint/internal/client/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := store.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func TestSetAndGet(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("t1")))
	require.NoError(t, r.Set(ctx, "token", []byte("t2")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("t2"), v)
}

func TestGet_Absent(t *testing.T) {
	r := newRepo(t)

	v, err := r.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSetMany_DeleteAndClear(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string][]byte{
		"token":    []byte("abc"),
		"username": []byte("Admin"),
		"salt":     []byte{1, 2, 3},
	}))

	v, err := r.Get(ctx, "username")
	require.NoError(t, err)
	assert.Equal(t, []byte("Admin"), v)

	require.NoError(t, r.Delete(ctx, "token", "username"))
	require.NoError(t, r.Delete(ctx, "token"))

	v, err = r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = r.Get(ctx, "salt")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, v)

	require.NoError(t, r.Clear(ctx))
	v, err = r.Get(ctx, "salt")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReplace(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string][]byte{"token": []byte("sealed"), "salt": {9}}))
	require.NoError(t, r.Replace(ctx, map[string][]byte{"token": []byte("plain")}, "salt"))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), v)
	v, err = r.Get(ctx, "salt")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func newMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestGet_DBError(t *testing.T) {
	r, mock := newMock(t)
	mock.ExpectQuery(`SELECT value FROM metadata`).WithArgs("token").WillReturnError(errors.New("disk I/O"))

	v, err := r.Get(context.Background(), "token")
	require.Error(t, err)
	assert.Nil(t, v)
	assert.Contains(t, err.Error(), "failed to get metadata[token]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMany_RollsBackOnError(t *testing.T) {
	r, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO metadata`).WithArgs("token", []byte("x")).WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := r.SetMany(context.Background(), map[string][]byte{"token": []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set metadata[token]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_DBError(t *testing.T) {
	r, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM metadata WHERE key`).WithArgs("token").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := r.Delete(context.Background(), "token")
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClear_DBError(t *testing.T) {
	r, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM metadata`).WillReturnError(errors.New("boom"))

	err := r.Clear(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear metadata")
}

func TestReplace_RollsBackDeleteWhenSetFails(t *testing.T) {
	r, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM metadata WHERE key`).WithArgs("salt").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO metadata`).WithArgs("token", []byte("plain")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := r.Replace(context.Background(), map[string][]byte{"token": []byte("plain")}, "salt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set metadata[token]")
	require.NoError(t, mock.ExpectationsWereMet())
}
