package repository

import (
	"testing"

	"fitcoach-api/pkg/schema"
	"github.com/DATA-DOG/go-sqlmock"
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

func testMapping() *schema.Mapping {
	return &schema.Mapping{
		Schema: "public",
		Users: schema.UsersMapping{
			Table: "users", ID: "id", Role: "role", PDNRequired: "pdn_required",
			Platform: "platform", PlatformID: "platform_id",
			Columns: map[string]bool{
				"id": true, "platform": true, "platform_id": true,
				"role": true, "pdn_required": true, "full_name": true, "phone": true,
			},
		},
		Sessions: schema.SessionsMapping{
			Table: "sessions", Token: "token", UserID: "user_id", ExpiresAt: "expires_at",
		},
		Profiles: &schema.ProfilesMapping{
			Table: "user_profiles", UserID: "user_id",
			FullName: "full_name", Phone: "phone", HeightCM: "height_cm", Goal: "goal",
		},
		Consents: &schema.ConsentsMapping{
			Table: "consents", UserID: "user_id", Version: "version", Accepted: "accepted",
		},
	}
}
