package schema

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// Synonym lists, in priority order. Deployments that predate this API named
// their tables in all kinds of ways; the first match wins, an explicit
// override beats them all.
var (
	usersTableSynonyms    = []string{"users", "app_users", "fc_users", "account", "accounts", "user"}
	sessionsTableSynonyms = []string{"sessions", "user_sessions", "auth_sessions"}
	profilesTableSynonyms = []string{"user_profiles", "profiles", "users_profiles", "profile"}
	consentsTableSynonyms = []string{"consents", "user_consents", "pnd_consents", "pdn_consents"}
)

// Overrides carries the optional explicit table/column assignments.
// Keys mirror the environment variables of the legacy deployment.
type Overrides struct {
	Tables  map[string]string
	Columns map[string]string
}

var overrideEnvKeys = []string{
	"TBL_USERS", "TBL_SESSIONS", "TBL_PROFILES", "TBL_CONSENTS",
	"COL_USERS_ID", "COL_USERS_PLATFORM", "COL_USERS_PLATFORM_ID",
	"COL_USERS_ROLE", "COL_USERS_PDN_REQUIRED",
	"COL_SESSIONS_TOKEN", "COL_SESSIONS_USER_ID", "COL_SESSIONS_EXPIRES_AT",
	"COL_PROFILES_USER_ID", "COL_PROFILES_FULL_NAME", "COL_PROFILES_PHONE",
	"COL_PROFILES_HEIGHT_CM", "COL_PROFILES_WEIGHT_KG", "COL_PROFILES_GOAL",
	"COL_PROFILES_NOTES", "COL_PROFILES_BIO", "COL_PROFILES_EXPERIENCE_YEARS",
	"COL_PROFILES_INSTAGRAM", "COL_PROFILES_TG_CHANNEL", "COL_PROFILES_TG_LINK",
	"COL_CONSENTS_USER_ID", "COL_CONSENTS_VERSION", "COL_CONSENTS_ACCEPTED",
}

// OverridesFromEnv picks up the TBL_* / COL_* variables.
func OverridesFromEnv() Overrides {
	ov := Overrides{Tables: map[string]string{}, Columns: map[string]string{}}
	for _, k := range overrideEnvKeys {
		v := strings.TrimSpace(os.Getenv(k))
		if v == "" {
			continue
		}
		if strings.HasPrefix(k, "TBL_") {
			ov.Tables[k] = v
		} else {
			ov.Columns[k] = v
		}
	}
	return ov
}

func (ov Overrides) table(key string) string  { return ov.Tables[key] }
func (ov Overrides) column(key string) string { return ov.Columns[key] }

// Resolver discovers where users, sessions, profiles and consent records
// live in the target schema.
type Resolver struct {
	db        *sqlx.DB
	schema    string
	overrides Overrides
}

func NewResolver(db *sqlx.DB, schemaName string, overrides Overrides) *Resolver {
	if schemaName == "" {
		schemaName = "public"
	}
	return &Resolver{db: db, schema: schemaName, overrides: overrides}
}

// Resolve runs the catalog queries and builds the mapping. It only reads
// information_schema, so it is idempotent; the caller runs it once before
// the server starts serving and keeps the result for the process lifetime.
func (r *Resolver) Resolve(ctx context.Context) (*Mapping, error) {
	tables, err := r.listTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in schema %q: %w", r.schema, err)
	}

	m := &Mapping{Schema: r.schema}

	if err := r.resolveUsers(ctx, tables, m); err != nil {
		return nil, err
	}
	if err := r.resolveSessions(ctx, tables, m); err != nil {
		return nil, err
	}
	if err := r.resolveProfiles(ctx, tables, m); err != nil {
		return nil, err
	}
	if err := r.resolveConsents(ctx, tables, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Resolver) resolveUsers(ctx context.Context, tables map[string]bool, m *Mapping) error {
	table := pickTable(tables, r.overrides.table("TBL_USERS"), usersTableSynonyms)
	if table == "" {
		return &MissingTableError{Entity: "users", Candidates: usersTableSynonyms, Override: "TBL_USERS"}
	}
	cols, err := r.listColumns(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to list columns of %q: %w", table, err)
	}

	u := UsersMapping{Table: table, Columns: cols}
	u.ID = pickColumn(cols, r.overrides.column("COL_USERS_ID"), "id", "user_id", "uid", "pk")
	u.Role = pickColumn(cols, r.overrides.column("COL_USERS_ROLE"), "role", "user_role", "type")
	u.PDNRequired = pickColumn(cols, r.overrides.column("COL_USERS_PDN_REQUIRED"),
		"pdn_required", "consent_required", "need_consent", "pdn")
	u.Platform = pickColumn(cols, r.overrides.column("COL_USERS_PLATFORM"), "platform", "provider")
	u.PlatformID = pickColumn(cols, r.overrides.column("COL_USERS_PLATFORM_ID"),
		"platform_id", "provider_id", "external_id")
	u.TelegramID = pickColumn(cols, "", "telegram_id", "tg_id", "telegram_user_id", "chat_id")

	if u.ID == "" {
		return &MissingColumnError{Table: table, Logical: "id", Override: "COL_USERS_ID"}
	}
	if u.Platform == "" || u.PlatformID == "" {
		if u.TelegramID == "" {
			return &MissingColumnError{Table: table, Logical: "platform/platform_id or telegram_id", Override: "COL_USERS_PLATFORM_ID"}
		}
	}
	if u.Role == "" {
		log.Warnf("users table %q has no role column, role defaults to %q and is not persisted", table, "pending")
	}
	if u.PDNRequired == "" {
		log.Warnf("users table %q has no pdn_required column, consent is assumed to be required", table)
	}

	m.Users = u
	return nil
}

func (r *Resolver) resolveSessions(ctx context.Context, tables map[string]bool, m *Mapping) error {
	table := pickTable(tables, r.overrides.table("TBL_SESSIONS"), sessionsTableSynonyms)
	if table == "" {
		return &MissingTableError{Entity: "sessions", Candidates: sessionsTableSynonyms, Override: "TBL_SESSIONS"}
	}
	cols, err := r.listColumns(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to list columns of %q: %w", table, err)
	}

	s := SessionsMapping{Table: table}
	s.Token = pickColumn(cols, r.overrides.column("COL_SESSIONS_TOKEN"), "token", "session_token", "sid")
	s.UserID = pickColumn(cols, r.overrides.column("COL_SESSIONS_USER_ID"), "user_id", "uid")
	s.ExpiresAt = pickColumn(cols, r.overrides.column("COL_SESSIONS_EXPIRES_AT"),
		"expires_at", "expires", "exp", "valid_till")

	if s.Token == "" {
		return &MissingColumnError{Table: table, Logical: "token", Override: "COL_SESSIONS_TOKEN"}
	}
	if s.UserID == "" {
		return &MissingColumnError{Table: table, Logical: "user_id", Override: "COL_SESSIONS_USER_ID"}
	}
	if s.ExpiresAt == "" {
		return &MissingColumnError{Table: table, Logical: "expires_at", Override: "COL_SESSIONS_EXPIRES_AT"}
	}

	m.Sessions = s
	return nil
}

func (r *Resolver) resolveProfiles(ctx context.Context, tables map[string]bool, m *Mapping) error {
	table := pickTable(tables, r.overrides.table("TBL_PROFILES"), profilesTableSynonyms)
	if table == "" {
		log.Warn("no profiles table found, /api/profile degrades to full_name/phone on users")
		return nil
	}
	cols, err := r.listColumns(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to list columns of %q: %w", table, err)
	}

	p := ProfilesMapping{Table: table}
	p.UserID = pickColumn(cols, r.overrides.column("COL_PROFILES_USER_ID"), "user_id", "uid")
	p.FullName = pickColumn(cols, r.overrides.column("COL_PROFILES_FULL_NAME"), "full_name", "fio", "name")
	p.Phone = pickColumn(cols, r.overrides.column("COL_PROFILES_PHONE"), "phone", "phone_number", "tel")
	p.HeightCM = pickColumn(cols, r.overrides.column("COL_PROFILES_HEIGHT_CM"), "height_cm", "height")
	p.WeightKG = pickColumn(cols, r.overrides.column("COL_PROFILES_WEIGHT_KG"), "weight_kg", "weight")
	p.Goal = pickColumn(cols, r.overrides.column("COL_PROFILES_GOAL"), "goal", "target")
	p.Notes = pickColumn(cols, r.overrides.column("COL_PROFILES_NOTES"), "notes", "comment", "comments")
	p.Bio = pickColumn(cols, r.overrides.column("COL_PROFILES_BIO"), "bio", "about")
	p.ExperienceYears = pickColumn(cols, r.overrides.column("COL_PROFILES_EXPERIENCE_YEARS"),
		"experience_years", "exp_years", "years")
	p.Instagram = pickColumn(cols, r.overrides.column("COL_PROFILES_INSTAGRAM"), "instagram", "insta")
	p.TelegramChannel = pickColumn(cols, r.overrides.column("COL_PROFILES_TG_CHANNEL"), "telegram_channel", "tg_channel")
	p.TelegramLink = pickColumn(cols, r.overrides.column("COL_PROFILES_TG_LINK"), "telegram_link", "tg_link", "telegram")

	if p.UserID == "" {
		log.Warnf("profiles table %q has no user_id column, ignoring it", table)
		return nil
	}

	m.Profiles = &p
	return nil
}

func (r *Resolver) resolveConsents(ctx context.Context, tables map[string]bool, m *Mapping) error {
	table := pickTable(tables, r.overrides.table("TBL_CONSENTS"), consentsTableSynonyms)
	if table == "" {
		return nil
	}
	cols, err := r.listColumns(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to list columns of %q: %w", table, err)
	}

	c := ConsentsMapping{Table: table}
	c.UserID = pickColumn(cols, r.overrides.column("COL_CONSENTS_USER_ID"), "user_id", "uid")
	c.Version = pickColumn(cols, r.overrides.column("COL_CONSENTS_VERSION"), "version", "ver")
	c.Accepted = pickColumn(cols, r.overrides.column("COL_CONSENTS_ACCEPTED"), "accepted", "agree", "consent", "is_accepted")

	m.Consents = &c
	return nil
}

func (r *Resolver) listTables(ctx context.Context) (map[string]bool, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, r.schema); err != nil {
		return nil, err
	}
	tables := make(map[string]bool, len(names))
	for _, n := range names {
		tables[strings.ToLower(n)] = true
	}
	return tables, nil
}

func (r *Resolver) listColumns(ctx context.Context, table string) (map[string]bool, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, r.schema, table); err != nil {
		return nil, err
	}
	cols := make(map[string]bool, len(names))
	for _, n := range names {
		cols[strings.ToLower(n)] = true
	}
	return cols, nil
}

func pickTable(tables map[string]bool, override string, synonyms []string) string {
	if override != "" {
		return strings.ToLower(override)
	}
	for _, s := range synonyms {
		if tables[s] {
			return s
		}
	}
	return ""
}

func pickColumn(cols map[string]bool, override string, synonyms ...string) string {
	if override != "" {
		return strings.ToLower(override)
	}
	for _, s := range synonyms {
		if cols[s] {
			return s
		}
	}
	return ""
}
