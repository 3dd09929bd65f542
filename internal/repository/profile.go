package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitcoach-api/pkg/models"
	"fitcoach-api/pkg/schema"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// profileFields fixes the order fields appear in generated SQL.
var profileFields = []string{
	"full_name", "phone", "height_cm", "weight_kg", "goal", "notes",
	"bio", "experience_years", "instagram", "telegram_channel", "telegram_link",
}

type ProfileRepositoryImpl struct {
	db *sqlx.DB
	m  *schema.Mapping
}

func NewProfileRepository(db *sqlx.DB, m *schema.Mapping) *ProfileRepositoryImpl {
	return &ProfileRepositoryImpl{db: db, m: m}
}

func (p *ProfileRepositoryImpl) FetchProfile(ctx context.Context, userID int64) (models.Profile, error) {
	var prof models.Profile
	pm := p.m.Profiles
	if pm == nil {
		return prof, nil
	}

	var (
		fullName, phone, goal, notes, bio sql.NullString
		instagram, tgChannel, tgLink      sql.NullString
		heightCM, weightKG                sql.NullFloat64
		expYears                          sql.NullInt64
	)

	cols := make([]string, 0, len(profileFields))
	dest := make([]any, 0, len(profileFields))
	add := func(col string, d any) {
		if col != "" {
			cols = append(cols, schema.QuoteIdent(col))
			dest = append(dest, d)
		}
	}
	add(pm.FullName, &fullName)
	add(pm.Phone, &phone)
	add(pm.HeightCM, &heightCM)
	add(pm.WeightKG, &weightKG)
	add(pm.Goal, &goal)
	add(pm.Notes, &notes)
	add(pm.Bio, &bio)
	add(pm.ExperienceYears, &expYears)
	add(pm.Instagram, &instagram)
	add(pm.TelegramChannel, &tgChannel)
	add(pm.TelegramLink, &tgLink)
	if len(cols) == 0 {
		return prof, nil
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1 LIMIT 1`,
		strings.Join(cols, ", "), p.m.Qualified(pm.Table), schema.QuoteIdent(pm.UserID),
	)
	err := p.db.QueryRowContext(ctx, query, userID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return prof, nil
	}
	if err != nil {
		log.Errorf("fetch profile err: %v", err)
		return prof, err
	}

	if fullName.Valid {
		prof.FullName = &fullName.String
	}
	if phone.Valid {
		prof.Phone = &phone.String
	}
	if heightCM.Valid {
		prof.HeightCM = &heightCM.Float64
	}
	if weightKG.Valid {
		prof.WeightKG = &weightKG.Float64
	}
	if goal.Valid {
		prof.Goal = &goal.String
	}
	if notes.Valid {
		prof.Notes = &notes.String
	}
	if bio.Valid {
		prof.Bio = &bio.String
	}
	if expYears.Valid {
		prof.ExperienceYears = &expYears.Int64
	}
	if instagram.Valid {
		prof.Instagram = &instagram.String
	}
	if tgChannel.Valid {
		prof.TelegramChannel = &tgChannel.String
	}
	if tgLink.Valid {
		prof.TelegramLink = &tgLink.String
	}
	return prof, nil
}

// UpsertProfile writes only the logical fields present in fields that also
// have a mapped column. Fields the discovered table can't hold are dropped
// silently; fields not submitted keep their stored values.
func (p *ProfileRepositoryImpl) UpsertProfile(ctx context.Context, userID int64, fields map[string]any) error {
	pm := p.m.Profiles
	if pm == nil {
		return nil
	}

	cols := []string{schema.QuoteIdent(pm.UserID)}
	placeholders := []string{"$1"}
	params := []any{userID}
	updates := make([]string, 0, len(fields))

	for _, logical := range profileFields {
		v, ok := fields[logical]
		if !ok {
			continue
		}
		col := pm.Column(logical)
		if col == "" {
			continue
		}
		params = append(params, v)
		cols = append(cols, schema.QuoteIdent(col))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(params)))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", schema.QuoteIdent(col), schema.QuoteIdent(col)))
	}
	if len(params) == 1 {
		return nil
	}

	conflict := fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s",
		schema.QuoteIdent(pm.UserID), strings.Join(updates, ", "))
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) %s`,
		p.m.Qualified(pm.Table),
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		conflict,
	)
	if _, err := p.db.ExecContext(ctx, query, params...); err != nil {
		log.Errorf("upsert profile err: %v", err)
		return err
	}
	return nil
}
