package repository

import (
	"context"
	"fmt"
	"strings"

	"fitcoach-api/pkg/schema"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

type ConsentRepositoryImpl struct {
	db *sqlx.DB
	m  *schema.Mapping
}

func NewConsentRepository(db *sqlx.DB, m *schema.Mapping) *ConsentRepositoryImpl {
	return &ConsentRepositoryImpl{db: db, m: m}
}

// RecordConsent appends to the consent log and clears pdn_required. The
// flag is cleared for rejections too; the onboarding flow treats any
// recorded response as unblocking.
func (c *ConsentRepositoryImpl) RecordConsent(ctx context.Context, userID int64, version string, accepted bool) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if cm := c.m.Consents; cm != nil {
		cols := make([]string, 0, 3)
		placeholders := make([]string, 0, 3)
		params := make([]any, 0, 3)
		addCol := func(col string, v any) {
			if col == "" {
				return
			}
			params = append(params, v)
			cols = append(cols, schema.QuoteIdent(col))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(params)))
		}
		addCol(cm.UserID, userID)
		addCol(cm.Version, version)
		addCol(cm.Accepted, accepted)

		if len(cols) > 0 {
			query := fmt.Sprintf(
				`INSERT INTO %s (%s) VALUES (%s)`,
				c.m.Qualified(cm.Table),
				strings.Join(cols, ", "), strings.Join(placeholders, ", "),
			)
			if _, err := tx.ExecContext(ctx, query, params...); err != nil {
				log.Errorf("insert consent err: %v", err)
				return err
			}
		}
	}

	if users := c.m.Users; users.PDNRequired != "" {
		query := fmt.Sprintf(
			`UPDATE %s SET %s = false WHERE %s = $1`,
			c.m.Qualified(users.Table),
			schema.QuoteIdent(users.PDNRequired), schema.QuoteIdent(users.ID),
		)
		if _, err := tx.ExecContext(ctx, query, userID); err != nil {
			log.Errorf("clear pdn_required err: %v", err)
			return err
		}
	}

	return tx.Commit()
}
