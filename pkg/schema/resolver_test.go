package schema

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	qt "github.com/frankban/quicktest"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func tableRows(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"table_name"})
	for _, n := range names {
		rows.AddRow(n)
	}
	return rows
}

func columnRows(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"column_name"})
	for _, n := range names {
		rows.AddRow(n)
	}
	return rows
}

func TestResolveFullSchema(t *testing.T) {
	c := qt.New(t)
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT table_name").
		WithArgs("public").
		WillReturnRows(tableRows("users", "sessions", "user_profiles", "consents"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "users").
		WillReturnRows(columnRows("id", "platform", "platform_id", "role", "pdn_required", "full_name", "phone"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "sessions").
		WillReturnRows(columnRows("id", "token", "user_id", "expires_at"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "user_profiles").
		WillReturnRows(columnRows("user_id", "full_name", "phone", "height_cm", "weight_kg", "goal", "notes"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "consents").
		WillReturnRows(columnRows("id", "user_id", "version", "accepted", "created_at"))

	m, err := NewResolver(db, "public", Overrides{}).Resolve(context.Background())
	c.Assert(err, qt.IsNil)

	c.Assert(m.Users.Table, qt.Equals, "users")
	c.Assert(m.Users.ID, qt.Equals, "id")
	c.Assert(m.Users.Role, qt.Equals, "role")
	c.Assert(m.Users.PDNRequired, qt.Equals, "pdn_required")
	c.Assert(m.Users.Platform, qt.Equals, "platform")
	c.Assert(m.Users.PlatformID, qt.Equals, "platform_id")
	c.Assert(m.Users.Columns["full_name"], qt.IsTrue)

	c.Assert(m.Sessions.Table, qt.Equals, "sessions")
	c.Assert(m.Sessions.Token, qt.Equals, "token")
	c.Assert(m.Sessions.UserID, qt.Equals, "user_id")
	c.Assert(m.Sessions.ExpiresAt, qt.Equals, "expires_at")

	c.Assert(m.Profiles, qt.Not(qt.IsNil))
	c.Assert(m.Profiles.Table, qt.Equals, "user_profiles")
	c.Assert(m.Profiles.HeightCM, qt.Equals, "height_cm")
	c.Assert(m.Profiles.Bio, qt.Equals, "")

	c.Assert(m.Consents, qt.Not(qt.IsNil))
	c.Assert(m.Consents.Accepted, qt.Equals, "accepted")

	c.Assert(mock.ExpectationsWereMet(), qt.IsNil)
}

func TestResolveSynonymsAndTelegramIDScheme(t *testing.T) {
	c := qt.New(t)
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT table_name").
		WithArgs("public").
		WillReturnRows(tableRows("app_users", "auth_sessions"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "app_users").
		WillReturnRows(columnRows("uid", "tg_id", "user_role"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "auth_sessions").
		WillReturnRows(columnRows("sid", "uid", "valid_till"))

	m, err := NewResolver(db, "public", Overrides{}).Resolve(context.Background())
	c.Assert(err, qt.IsNil)

	c.Assert(m.Users.Table, qt.Equals, "app_users")
	c.Assert(m.Users.ID, qt.Equals, "uid")
	c.Assert(m.Users.Role, qt.Equals, "user_role")
	c.Assert(m.Users.Platform, qt.Equals, "")
	c.Assert(m.Users.TelegramID, qt.Equals, "tg_id")
	c.Assert(m.Users.PDNRequired, qt.Equals, "")

	c.Assert(m.Sessions.Table, qt.Equals, "auth_sessions")
	c.Assert(m.Sessions.Token, qt.Equals, "sid")
	c.Assert(m.Sessions.ExpiresAt, qt.Equals, "valid_till")

	c.Assert(m.Profiles, qt.IsNil)
	c.Assert(m.Consents, qt.IsNil)
}

func TestResolveMissingSessionsTableFails(t *testing.T) {
	c := qt.New(t)
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT table_name").
		WithArgs("public").
		WillReturnRows(tableRows("users"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "users").
		WillReturnRows(columnRows("id", "telegram_id"))

	_, err := NewResolver(db, "public", Overrides{}).Resolve(context.Background())
	c.Assert(err, qt.Not(qt.IsNil))
	var missing *MissingTableError
	c.Assert(err, qt.ErrorAs, &missing)
	c.Assert(missing.Entity, qt.Equals, "sessions")
}

func TestResolveMissingMandatoryColumnFails(t *testing.T) {
	c := qt.New(t)
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT table_name").
		WithArgs("public").
		WillReturnRows(tableRows("users", "sessions"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "users").
		WillReturnRows(columnRows("id", "telegram_id"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "sessions").
		WillReturnRows(columnRows("id", "user_id", "expires_at"))

	_, err := NewResolver(db, "public", Overrides{}).Resolve(context.Background())
	var missing *MissingColumnError
	c.Assert(err, qt.ErrorAs, &missing)
	c.Assert(missing.Logical, qt.Equals, "token")
}

func TestResolveOverridesWin(t *testing.T) {
	c := qt.New(t)
	db, mock := newMockDB(t)

	ov := Overrides{
		Tables:  map[string]string{"TBL_USERS": "Legacy_Accounts"},
		Columns: map[string]string{"COL_USERS_ID": "Account_PK"},
	}

	mock.ExpectQuery("SELECT table_name").
		WithArgs("public").
		WillReturnRows(tableRows("users", "legacy_accounts", "sessions"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "legacy_accounts").
		WillReturnRows(columnRows("account_pk", "telegram_id"))
	mock.ExpectQuery("SELECT column_name").
		WithArgs("public", "sessions").
		WillReturnRows(columnRows("token", "user_id", "expires_at"))

	m, err := NewResolver(db, "public", ov).Resolve(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(m.Users.Table, qt.Equals, "legacy_accounts")
	c.Assert(m.Users.ID, qt.Equals, "account_pk")
}

func TestOverridesFromEnv(t *testing.T) {
	c := qt.New(t)

	t.Setenv("TBL_USERS", "accounts")
	t.Setenv("COL_SESSIONS_TOKEN", " sid ")
	t.Setenv("COL_USERS_ROLE", "")

	ov := OverridesFromEnv()
	c.Assert(ov.Tables["TBL_USERS"], qt.Equals, "accounts")
	c.Assert(ov.Columns["COL_SESSIONS_TOKEN"], qt.Equals, "sid")
	_, present := ov.Columns["COL_USERS_ROLE"]
	c.Assert(present, qt.IsFalse)
}

func TestQuoteIdent(t *testing.T) {
	c := qt.New(t)

	c.Assert(QuoteIdent("users"), qt.Equals, `"users"`)
	c.Assert(QuoteIdent(`we"ird`), qt.Equals, `"we""ird"`)

	m := &Mapping{Schema: "public"}
	c.Assert(m.Qualified("users"), qt.Equals, `"public"."users"`)
}
