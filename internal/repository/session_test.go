package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	qt "github.com/frankban/quicktest"
)

func TestUserIDByToken(t *testing.T) {
	c := qt.New(t)
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db, testMapping())

	mock.ExpectQuery(`SELECT "user_id" FROM "public"."sessions" WHERE "token" = \$1 AND "expires_at" > now`).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(42)))

	id, err := repo.UserIDByToken(context.Background(), "tok")
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, int64(42))
	c.Assert(mock.ExpectationsWereMet(), qt.IsNil)
}

// Unknown and expired tokens are the same miss: the expiry predicate is in
// the SQL, so both surface as ErrNoRows.
func TestUserIDByTokenMiss(t *testing.T) {
	c := qt.New(t)
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db, testMapping())

	mock.ExpectQuery(`SELECT "user_id" FROM "public"."sessions"`).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UserIDByToken(context.Background(), "gone")
	c.Assert(errors.Is(err, sql.ErrNoRows), qt.IsTrue)
}
