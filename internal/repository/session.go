package repository

import (
	"context"
	"fmt"

	"fitcoach-api/pkg/schema"
	"github.com/jmoiron/sqlx"
)

type SessionRepositoryImpl struct {
	db *sqlx.DB
	m  *schema.Mapping
}

func NewSessionRepository(db *sqlx.DB, m *schema.Mapping) *SessionRepositoryImpl {
	return &SessionRepositoryImpl{db: db, m: m}
}

func (s *SessionRepositoryImpl) UserIDByToken(ctx context.Context, token string) (int64, error) {
	sess := s.m.Sessions
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1 AND %s > now() LIMIT 1`,
		schema.QuoteIdent(sess.UserID), s.m.Qualified(sess.Table),
		schema.QuoteIdent(sess.Token), schema.QuoteIdent(sess.ExpiresAt),
	)

	var userID int64
	err := s.db.GetContext(ctx, &userID, query, token)
	return userID, err
}
