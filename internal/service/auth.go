package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"fitcoach-api/internal/repository"
	"fitcoach-api/pkg/errs"
	"fitcoach-api/pkg/models"
	"fitcoach-api/pkg/schema"
	"fitcoach-api/pkg/util"
	log "github.com/sirupsen/logrus"
)

type AuthServiceImpl struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	telegram *Telegram
	mapping  *schema.Mapping
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, telegram *Telegram, m *schema.Mapping) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, sessions: sessions, telegram: telegram, mapping: m}
}

func (a *AuthServiceImpl) LoginTelegram(ctx context.Context, platform, platformID, initData string) (models.LoginResult, error) {
	if platform != "telegram" {
		return models.LoginResult{}, errs.ErrBadPlatform
	}
	if platformID == "" || initData == "" {
		return models.LoginResult{}, errs.ErrBadRequest.WithMessage("platform_id and initData are required")
	}
	if !a.telegram.VerifyInitData(initData) {
		return models.LoginResult{}, errs.ErrInvalidSession.WithMessage("bad initData")
	}

	token, err := newSessionToken()
	if err != nil {
		log.Errorf("generate session token err: %v", err)
		return models.LoginResult{}, errs.ErrServer
	}

	access, err := a.users.Login(ctx, platform, platformID, token, time.Now().Add(models.SessionTTL))
	if err != nil {
		log.Errorf("login err: %v", err)
		return models.LoginResult{}, errs.ErrServer
	}

	return models.LoginResult{
		SessionToken: token,
		Role:         access.Role,
		PDNRequired:  access.PDNRequired,
		PDNVersion:   models.PDNVersion,
	}, nil
}

func (a *AuthServiceImpl) ValidateSession(ctx context.Context, token string) (models.Access, error) {
	token = util.CleanToken(token)
	if token == "" {
		return models.Access{}, errs.ErrInvalidSession.WithMessage("missing token")
	}

	userID, err := a.sessions.UserIDByToken(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Access{}, errs.ErrInvalidSession.WithMessage("session expired or not found")
	}
	if err != nil {
		log.Errorf("session lookup err: %v", err)
		return models.Access{}, errs.ErrServer
	}

	access, err := a.users.GetAccess(ctx, userID)
	if err != nil {
		return models.Access{}, errs.ErrServer
	}
	return access, nil
}

// SetRole performs the terminal role transition: the first non-pending
// choice wins permanently, repeating the same choice is a no-op.
func (a *AuthServiceImpl) SetRole(ctx context.Context, userID int64, role string) (models.Access, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != models.RoleAthlete && role != models.RoleCoach {
		return models.Access{}, errs.ErrBadRole
	}

	access, err := a.users.GetAccess(ctx, userID)
	if err != nil {
		return models.Access{}, errs.ErrServer
	}

	// No role column in the discovered schema: accept without persisting.
	if a.mapping.Users.Role == "" {
		access.Role = role
		return access, nil
	}

	current := access.Role
	if current == "" {
		current = models.RolePending
	}
	if current != models.RolePending && current != role {
		return models.Access{}, errs.ErrRoleLocked
	}
	if current == role {
		return access, nil
	}

	if err := a.users.UpdateRole(ctx, userID, role); err != nil {
		return models.Access{}, errs.ErrServer
	}
	access.Role = role
	return access, nil
}

// newSessionToken returns 256 bits from crypto/rand, base64url encoded.
func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
