package repository

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrFavoriteExists is returned when the (person, ad) pair is already a
	// favorite. The primary key on the pair guarantees at most one row.
	ErrFavoriteExists = errors.New("favorite already exists")
	// ErrFavoriteNotFound is returned when the pair does not exist.
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// FavoriteRepo persists the favorites join table.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Exists reports whether the person has marked the ad as a favorite.
func (r *FavoriteRepo) Exists(ctx context.Context, personID, adID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM favorites WHERE person_id=? AND ad_id=? LIMIT 1",
		personID, adID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts the pair. The composite primary key backs the idempotency
// rule: a duplicate insert maps to ErrFavoriteExists, a dangling ad
// reference to ErrAdNotFound.
func (r *FavoriteRepo) Create(ctx context.Context, personID, adID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO favorites (person_id, ad_id) VALUES (?,?)", personID, adID)
	if isDuplicate(err) {
		return ErrFavoriteExists
	}
	if isFKViolation(err) {
		return ErrAdNotFound
	}
	return err
}

// Delete removes the pair. Only the owning person's id is ever passed in,
// so ownership is implicit in the WHERE clause.
func (r *FavoriteRepo) Delete(ctx context.Context, personID, adID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE person_id=? AND ad_id=?", personID, adID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
