package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitcoach-api/pkg/models"
	"fitcoach-api/pkg/schema"
	"fitcoach-api/pkg/util"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

type UserRepositoryImpl struct {
	db *sqlx.DB
	m  *schema.Mapping
}

func NewUserRepository(db *sqlx.DB, m *schema.Mapping) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db, m: m}
}

func (u *UserRepositoryImpl) Login(ctx context.Context, platform, platformID, token string, expiresAt time.Time) (models.Access, error) {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Access{}, err
	}
	defer func() { _ = tx.Rollback() }()

	userID, err := u.findOrCreate(ctx, tx, platform, platformID)
	if err != nil {
		return models.Access{}, err
	}

	sess := u.m.Sessions
	insSession := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		u.m.Qualified(sess.Table),
		schema.QuoteIdent(sess.Token), schema.QuoteIdent(sess.UserID), schema.QuoteIdent(sess.ExpiresAt),
	)
	if _, err := tx.ExecContext(ctx, insSession, token, userID, expiresAt); err != nil {
		log.Errorf("insert session err: %v", err)
		return models.Access{}, err
	}

	access, err := fetchAccess(ctx, tx, u.m, userID)
	if err != nil {
		return models.Access{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Access{}, err
	}
	return access, nil
}

// findOrCreate implements the upsert: select, insert with ON CONFLICT DO
// NOTHING, and re-select when a concurrent identical login won the insert.
func (u *UserRepositoryImpl) findOrCreate(ctx context.Context, tx *sqlx.Tx, platform, platformID string) (int64, error) {
	users := u.m.Users

	var selQuery string
	var selArgs []any
	byPlatformPair := users.Platform != "" && users.PlatformID != ""
	if byPlatformPair {
		selQuery = fmt.Sprintf(
			`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 LIMIT 1`,
			schema.QuoteIdent(users.ID), u.m.Qualified(users.Table),
			schema.QuoteIdent(users.Platform), schema.QuoteIdent(users.PlatformID),
		)
		selArgs = []any{platform, platformID}
	} else {
		selQuery = fmt.Sprintf(
			`SELECT %s FROM %s WHERE %s = $1 LIMIT 1`,
			schema.QuoteIdent(users.ID), u.m.Qualified(users.Table),
			schema.QuoteIdent(users.TelegramID),
		)
		selArgs = []any{platformID}
	}

	var id int64
	err := tx.GetContext(ctx, &id, selQuery, selArgs...)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Errorf("select user err: %v", err)
		return 0, err
	}

	cols := make([]string, 0, 4)
	placeholders := make([]string, 0, 4)
	params := make([]any, 0, 4)
	addCol := func(col string, v any) {
		cols = append(cols, schema.QuoteIdent(col))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(params)+1))
		params = append(params, v)
	}
	if byPlatformPair {
		addCol(users.Platform, platform)
		addCol(users.PlatformID, platformID)
	} else {
		addCol(users.TelegramID, platformID)
	}
	if users.Role != "" {
		addCol(users.Role, models.RolePending)
	}
	if users.PDNRequired != "" {
		addCol(users.PDNRequired, true)
	}

	insQuery := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING RETURNING %s`,
		u.m.Qualified(users.Table),
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		schema.QuoteIdent(users.ID),
	)
	err = tx.GetContext(ctx, &id, insQuery, params...)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Errorf("insert user err: %v", err)
		return 0, err
	}

	// Lost the race: the row exists now, pick it up.
	if err := tx.GetContext(ctx, &id, selQuery, selArgs...); err != nil {
		log.Errorf("re-select user err: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepositoryImpl) GetAccess(ctx context.Context, userID int64) (models.Access, error) {
	return fetchAccess(ctx, u.db, u.m, userID)
}

func (u *UserRepositoryImpl) UpdateRole(ctx context.Context, userID int64, role string) error {
	users := u.m.Users
	query := fmt.Sprintf(
		`UPDATE %s SET %s = $1 WHERE %s = $2`,
		u.m.Qualified(users.Table), schema.QuoteIdent(users.Role), schema.QuoteIdent(users.ID),
	)
	if _, err := u.db.ExecContext(ctx, query, role, userID); err != nil {
		log.Errorf("update role err: %v", err)
		return err
	}
	return nil
}

func (u *UserRepositoryImpl) UpdateContact(ctx context.Context, userID int64, fields map[string]any) error {
	users := u.m.Users

	sets := make([]string, 0, len(fields))
	params := make([]any, 0, len(fields)+1)
	for _, col := range []string{"full_name", "phone"} {
		v, ok := fields[col]
		if !ok || !users.Columns[col] {
			continue
		}
		params = append(params, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", schema.QuoteIdent(col), len(params)))
	}
	if len(sets) == 0 {
		return nil
	}

	params = append(params, userID)
	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE %s = $%d`,
		u.m.Qualified(users.Table), strings.Join(sets, ", "),
		schema.QuoteIdent(users.ID), len(params),
	)
	if _, err := u.db.ExecContext(ctx, query, params...); err != nil {
		log.Errorf("update contact err: %v", err)
		return err
	}
	return nil
}

// fetchAccess reads role/pdn_required with conservative defaults for
// unmapped columns: an unknown role is pending, unknown consent status
// means consent is still required.
func fetchAccess(ctx context.Context, q sqlx.QueryerContext, m *schema.Mapping, userID int64) (models.Access, error) {
	access := models.Access{UserID: userID, Role: models.RolePending, PDNRequired: true}

	users := m.Users
	if users.Role == "" && users.PDNRequired == "" {
		return access, nil
	}

	roleExpr := "'pending'"
	if users.Role != "" {
		roleExpr = schema.QuoteIdent(users.Role)
	}
	pdnExpr := "true"
	if users.PDNRequired != "" {
		pdnExpr = schema.QuoteIdent(users.PDNRequired)
	}
	query := fmt.Sprintf(
		`SELECT %s, %s FROM %s WHERE %s = $1 LIMIT 1`,
		roleExpr, pdnExpr, m.Qualified(users.Table), schema.QuoteIdent(users.ID),
	)

	var role sql.NullString
	var pdn any
	err := q.QueryRowxContext(ctx, query, userID).Scan(&role, &pdn)
	if errors.Is(err, sql.ErrNoRows) {
		return access, nil
	}
	if err != nil {
		log.Errorf("fetch access err: %v", err)
		return models.Access{}, err
	}

	if users.Role != "" && role.Valid && role.String != "" {
		access.Role = strings.ToLower(role.String)
	}
	if users.PDNRequired != "" && pdn != nil {
		// pdn_required in adapted schemas is sometimes int or text.
		access.PDNRequired = util.ToBool(normalizeScanned(pdn))
	}
	return access, nil
}

func normalizeScanned(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
