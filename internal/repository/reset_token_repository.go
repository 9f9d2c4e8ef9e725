package repository

import (
	"context"
	"database/sql"
	"time"
)

// ResetTokenRepo persists/validates password reset tokens. Only the
// SHA-256 hash of a token is stored; each token is single use.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// StoreReset inserts a reset token hash row for a person.
func (r *ResetTokenRepo) StoreReset(ctx context.Context, personID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO reset_tokens (person_id, token_hash, expires_at) VALUES (?,?,?)",
		personID, tokenHash, exp)
	return err
}

// ValidateReset returns the person id if an unused, non-expired token with
// this hash exists; otherwise sql.ErrNoRows.
func (r *ResetTokenRepo) ValidateReset(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		personID  uint64
		expiresAt time.Time
		usedAt    sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT person_id, expires_at, used_at FROM reset_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&personID, &expiresAt, &usedAt)
	if err != nil {
		return 0, err
	}
	if usedAt.Valid {
		return 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return personID, nil
}

// ConsumeByHash marks a token as used. sql.ErrNoRows is returned when the
// token was already consumed, so concurrent resets cannot both succeed.
func (r *ResetTokenRepo) ConsumeByHash(ctx context.Context, tokenHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reset_tokens SET used_at=NOW() WHERE token_hash=? AND used_at IS NULL",
		tokenHash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
