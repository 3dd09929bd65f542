package service

import (
	"context"

	"fitcoach-api/internal/repository"
	"fitcoach-api/pkg/errs"
	"fitcoach-api/pkg/models"
	"fitcoach-api/pkg/schema"
	"fitcoach-api/pkg/util"
	log "github.com/sirupsen/logrus"
)

type ProfileServiceImpl struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	mapping  *schema.Mapping
}

func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository, m *schema.Mapping) *ProfileServiceImpl {
	return &ProfileServiceImpl{users: users, profiles: profiles, mapping: m}
}

func (p *ProfileServiceImpl) GetProfile(ctx context.Context, userID int64) (models.ProfileView, error) {
	access, err := p.users.GetAccess(ctx, userID)
	if err != nil {
		return models.ProfileView{}, errs.ErrServer
	}
	prof, err := p.profiles.FetchProfile(ctx, userID)
	if err != nil {
		return models.ProfileView{}, errs.ErrServer
	}
	return models.ProfileView{
		Role:        access.Role,
		PDNRequired: access.PDNRequired,
		Profile:     prof,
	}, nil
}

// SaveProfile normalizes and stores the submitted fields. Only keys present
// in the request are written, so a partial update never clears the rest of
// the stored profile.
func (p *ProfileServiceImpl) SaveProfile(ctx context.Context, userID int64, raw map[string]any) error {
	fields := normalizeProfileInput(raw)

	if p.mapping.Profiles == nil {
		// No profiles table: keep at least full_name/phone when the users
		// table happens to carry them; otherwise the write is a silent no-op.
		contact := map[string]any{}
		for _, k := range []string{"full_name", "phone"} {
			if v, ok := fields[k]; ok {
				contact[k] = v
			}
		}
		if err := p.users.UpdateContact(ctx, userID, contact); err != nil {
			return errs.ErrServer
		}
		return nil
	}

	if err := p.profiles.UpsertProfile(ctx, userID, fields); err != nil {
		return errs.ErrServer
	}
	return nil
}

var profileStringFields = []string{
	"full_name", "goal", "notes", "bio", "instagram", "telegram_channel", "telegram_link",
}

// normalizeProfileInput keeps only known logical fields, distinguishing
// absent keys (untouched) from explicit nulls (stored as NULL). Strings are
// trimmed to NULL-if-empty, the phone keeps digits and one leading '+'.
func normalizeProfileInput(raw map[string]any) map[string]any {
	fields := make(map[string]any, len(raw))

	for _, k := range profileStringFields {
		v, ok := raw[k]
		if !ok {
			continue
		}
		fields[k] = derefString(normalizeString(v))
	}

	if v, ok := raw["phone"]; ok {
		if s, isStr := v.(string); isStr {
			fields["phone"] = derefString(util.NormalizePhone(s))
		} else {
			fields["phone"] = nil
		}
	}
	for _, k := range []string{"height_cm", "weight_kg"} {
		if v, ok := raw[k]; ok {
			fields[k] = normalizeNumber(v)
		}
	}
	if v, ok := raw["experience_years"]; ok {
		if n := normalizeNumber(v); n != nil {
			fields["experience_years"] = int64(*n)
		} else {
			fields["experience_years"] = nil
		}
	}

	for k := range raw {
		if _, known := fields[k]; !known {
			log.Debugf("dropping unknown profile field %q", k)
		}
	}
	return fields
}

func normalizeString(v any) *string {
	if s, ok := v.(string); ok {
		return util.TrimToNil(s)
	}
	return nil
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func normalizeNumber(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	}
	return nil
}
