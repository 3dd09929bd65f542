package service

import (
	"context"

	"fitcoach-api/internal/repository"
	"fitcoach-api/pkg/models"
	"fitcoach-api/pkg/schema"
)

type Services struct {
	AuthService
	ProfileService
	ConsentService
}

func NewServices(repos *repository.Repositories, m *schema.Mapping, botToken string) *Services {
	telegram := NewTelegramService(botToken)
	return &Services{
		AuthService:    NewAuthService(repos.UserRepository, repos.SessionRepository, telegram, m),
		ProfileService: NewProfileService(repos.UserRepository, repos.ProfileRepository, m),
		ConsentService: NewConsentService(repos.ConsentRepository),
	}
}

type AuthService interface {
	LoginTelegram(ctx context.Context, platform, platformID, initData string) (models.LoginResult, error)
	ValidateSession(ctx context.Context, token string) (models.Access, error)
	SetRole(ctx context.Context, userID int64, role string) (models.Access, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (models.ProfileView, error)
	SaveProfile(ctx context.Context, userID int64, raw map[string]any) error
}

type ConsentService interface {
	SubmitConsent(ctx context.Context, userID int64, version string, accepted bool) (models.ConsentReceipt, error)
}
