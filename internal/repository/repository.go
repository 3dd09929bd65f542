package repository

import (
	"context"
	"time"

	"fitcoach-api/pkg/models"
	"fitcoach-api/pkg/schema"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	UserRepository
	SessionRepository
	ProfileRepository
	ConsentRepository
}

func NewRepositories(db *sqlx.DB, m *schema.Mapping) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db, m),
		SessionRepository: NewSessionRepository(db, m),
		ProfileRepository: NewProfileRepository(db, m),
		ConsentRepository: NewConsentRepository(db, m),
	}
}

type UserRepository interface {
	// Login upserts the user for the given identity and issues a session,
	// both inside one transaction.
	Login(ctx context.Context, platform, platformID, token string, expiresAt time.Time) (models.Access, error)
	GetAccess(ctx context.Context, userID int64) (models.Access, error)
	UpdateRole(ctx context.Context, userID int64, role string) error
	// UpdateContact writes logical fields straight onto the users table.
	// Used when no profiles table exists.
	UpdateContact(ctx context.Context, userID int64, fields map[string]any) error
}

type SessionRepository interface {
	// UserIDByToken resolves a non-expired session. sql.ErrNoRows covers
	// both unknown and expired tokens.
	UserIDByToken(ctx context.Context, token string) (int64, error)
}

type ProfileRepository interface {
	FetchProfile(ctx context.Context, userID int64) (models.Profile, error)
	UpsertProfile(ctx context.Context, userID int64, fields map[string]any) error
}

type ConsentRepository interface {
	// RecordConsent appends a consent row (when the table exists) and
	// clears the user's pdn_required flag, in one transaction.
	RecordConsent(ctx context.Context, userID int64, version string, accepted bool) error
}
