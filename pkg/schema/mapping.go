package schema

import (
	"fmt"
	"strings"
)

// Mapping is the resolved table/column assignment for one database schema.
// It is computed once at startup and treated as read-only afterwards; a
// schema change on the live database requires a process restart.
type Mapping struct {
	Schema   string           `json:"schema"`
	Users    UsersMapping     `json:"users"`
	Sessions SessionsMapping  `json:"sessions"`
	Profiles *ProfilesMapping `json:"profiles"`
	Consents *ConsentsMapping `json:"consents"`
}

// UsersMapping holds the users table assignment. Identity is either the
// (Platform, PlatformID) pair or the single TelegramID column, whichever
// the discovered schema provides. Optional columns are "" when absent.
type UsersMapping struct {
	Table       string `json:"table"`
	ID          string `json:"id"`
	Role        string `json:"role,omitempty"`
	PDNRequired string `json:"pdn_required,omitempty"`
	Platform    string `json:"platform,omitempty"`
	PlatformID  string `json:"platform_id,omitempty"`
	TelegramID  string `json:"telegram_id,omitempty"`

	// Columns is the full physical column set, kept for the profile
	// fallback path that writes full_name/phone directly onto users.
	Columns map[string]bool `json:"-"`
}

type SessionsMapping struct {
	Table     string `json:"table"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	ExpiresAt string `json:"expires_at"`
}

type ProfilesMapping struct {
	Table           string `json:"table"`
	UserID          string `json:"user_id"`
	FullName        string `json:"full_name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	HeightCM        string `json:"height_cm,omitempty"`
	WeightKG        string `json:"weight_kg,omitempty"`
	Goal            string `json:"goal,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Bio             string `json:"bio,omitempty"`
	ExperienceYears string `json:"experience_years,omitempty"`
	Instagram       string `json:"instagram,omitempty"`
	TelegramChannel string `json:"telegram_channel,omitempty"`
	TelegramLink    string `json:"telegram_link,omitempty"`
}

type ConsentsMapping struct {
	Table    string `json:"table"`
	UserID   string `json:"user_id,omitempty"`
	Version  string `json:"version,omitempty"`
	Accepted string `json:"accepted,omitempty"`
}

// Column returns the physical column for a logical profile field, "" when
// the field has no home in the discovered table.
func (p *ProfilesMapping) Column(logical string) string {
	switch logical {
	case "full_name":
		return p.FullName
	case "phone":
		return p.Phone
	case "height_cm":
		return p.HeightCM
	case "weight_kg":
		return p.WeightKG
	case "goal":
		return p.Goal
	case "notes":
		return p.Notes
	case "bio":
		return p.Bio
	case "experience_years":
		return p.ExperienceYears
	case "instagram":
		return p.Instagram
	case "telegram_channel":
		return p.TelegramChannel
	case "telegram_link":
		return p.TelegramLink
	}
	return ""
}

// QuoteIdent quotes an identifier that came out of information_schema, so
// it can be interpolated into SQL safely.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// Qualified returns the schema-qualified, quoted table reference.
func (m *Mapping) Qualified(table string) string {
	return QuoteIdent(m.Schema) + "." + QuoteIdent(table)
}

// MissingTableError is a fatal resolution failure: a mandatory logical
// entity has no table in the target schema.
type MissingTableError struct {
	Entity     string
	Candidates []string
	Override   string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("schema: no table found for %q (tried %s); set %s to map it explicitly",
		e.Entity, strings.Join(e.Candidates, ", "), e.Override)
}

// MissingColumnError is a fatal resolution failure on a mandatory column.
type MissingColumnError struct {
	Table    string
	Logical  string
	Override string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("schema: table %q has no column for %q; set %s to map it explicitly",
		e.Table, e.Logical, e.Override)
}
